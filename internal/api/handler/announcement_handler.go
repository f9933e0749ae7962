package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mercatino/vendor-api/internal/api/upload"
	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// AnnouncementHandler handles HTTP requests for vendor announcements.
type AnnouncementHandler struct {
	service ports.AnnouncementService
	parser  *upload.Parser
}

func NewAnnouncementHandler(service ports.AnnouncementService, parser *upload.Parser) *AnnouncementHandler {
	return &AnnouncementHandler{service: service, parser: parser}
}

type createAnnouncementRequest struct {
	Text     string `json:"text" validate:"required"`
	Featured *bool  `json:"featured"`
}

type updateAnnouncementRequest struct {
	Text     string `json:"text" validate:"required"`
	Featured *bool  `json:"featured"`
}

type announcementResponse struct {
	ID        string    `json:"_id"`
	VendorID  string    `json:"vendor_id"`
	Text      string    `json:"text"`
	Image     string    `json:"image"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listAnnouncementsResponse struct {
	Docs   []announcementResponse `json:"docs"`
	Total  int64                  `json:"total"`
	Limit  int64                  `json:"limit"`
	Offset int64                  `json:"offset"`
}

func toAnnouncementResponse(a *domain.Announcement) announcementResponse {
	return announcementResponse{
		ID:        a.ID,
		VendorID:  a.VendorID,
		Text:      a.Text,
		Image:     a.Image,
		Featured:  a.Featured,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// Create adds an announcement to the vendor's board.
//
// @Summary      Create an announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Param        vendor_id  path      string                     true  "Vendor id"
// @Param        body       body      createAnnouncementRequest  true  "Announcement fields"
// @Success      201        {object}  createdResponse
// @Failure      400        {object}  map[string]string
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/announcements [post]
func (h *AnnouncementHandler) Create(c echo.Context) error {
	var req createAnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.service.Create(c.Request().Context(), c.Param("vendor_id"), ports.CreateAnnouncementInput{
		Text:     req.Text,
		Featured: req.Featured,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// List returns the vendor's announcements with pagination.
//
// @Summary      List announcements
// @Tags         announcements
// @Produce      json
// @Param        vendor_id  path      string  true   "Vendor id"
// @Param        limit      query     int     false  "Page size"
// @Param        offset     query     int     false  "Page offset"
// @Param        sort       query     string  false  "Sort field, prefix with - for descending"
// @Success      200        {object}  listAnnouncementsResponse
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/announcements [get]
func (h *AnnouncementHandler) List(c echo.Context) error {
	opts := listOptions(c)
	announcements, total, err := h.service.List(c.Request().Context(), c.Param("vendor_id"), opts)
	if err != nil {
		return err
	}

	docs := make([]announcementResponse, 0, len(announcements))
	for _, a := range announcements {
		docs = append(docs, toAnnouncementResponse(a))
	}

	return c.JSON(http.StatusOK, listAnnouncementsResponse{
		Docs:   docs,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// Get returns a single announcement.
//
// @Summary      Get an announcement
// @Tags         announcements
// @Produce      json
// @Param        vendor_id        path      string  true  "Vendor id"
// @Param        announcement_id  path      string  true  "Announcement id"
// @Success      200              {object}  announcementResponse
// @Failure      404              {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/announcements/{announcement_id} [get]
func (h *AnnouncementHandler) Get(c echo.Context) error {
	announcement, err := h.service.Get(c.Request().Context(), c.Param("vendor_id"), c.Param("announcement_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnnouncementResponse(announcement))
}

// Update rewrites the announcement's editable fields.
//
// @Summary      Update an announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Param        vendor_id        path      string                     true  "Vendor id"
// @Param        announcement_id  path      string                     true  "Announcement id"
// @Param        body             body      updateAnnouncementRequest  true  "Announcement fields"
// @Success      200              {object}  statusResponse
// @Failure      400              {object}  map[string]string
// @Failure      403              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/announcements/{announcement_id} [put]
func (h *AnnouncementHandler) Update(c echo.Context) error {
	var req updateAnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.service.Update(c.Request().Context(), c.Param("vendor_id"), c.Param("announcement_id"), ports.AnnouncementUpdate{
		Text:     req.Text,
		Featured: req.Featured,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "updated"})
}

// Delete removes one announcement and its asset subtree.
//
// @Summary      Delete an announcement
// @Tags         announcements
// @Produce      json
// @Param        vendor_id        path      string  true  "Vendor id"
// @Param        announcement_id  path      string  true  "Announcement id"
// @Success      200              {object}  statusResponse
// @Failure      403              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/announcements/{announcement_id} [delete]
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("vendor_id"), c.Param("announcement_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// DeleteAll clears the vendor's announcement board.
//
// @Summary      Delete all announcements
// @Tags         announcements
// @Produce      json
// @Param        vendor_id  path      string  true  "Vendor id"
// @Success      200        {object}  statusResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/announcements [delete]
func (h *AnnouncementHandler) DeleteAll(c echo.Context) error {
	if err := h.service.DeleteAll(c.Request().Context(), c.Param("vendor_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// SetImage replaces the announcement's image with an uploaded jpeg.
//
// @Summary      Upload an announcement image
// @Tags         announcements
// @Accept       multipart/form-data
// @Produce      json
// @Param        vendor_id           path      string  true  "Vendor id"
// @Param        announcement_id     path      string  true  "Announcement id"
// @Param        announcement_image  formData  file    true  "Jpeg image"
// @Success      200                 {object}  statusResponse
// @Failure      400                 {object}  map[string]string
// @Failure      403                 {object}  map[string]string
// @Failure      404                 {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/announcements/{announcement_id}/image [post]
func (h *AnnouncementHandler) SetImage(c echo.Context) error {
	up, err := h.parser.Single(c.Request(), announcementImageField)
	if err != nil {
		return err
	}

	err = h.service.SetImage(c.Request().Context(), c.Param("vendor_id"), c.Param("announcement_id"), *up)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "uploaded"})
}

// ClearImage removes the announcement's image.
//
// @Summary      Delete an announcement image
// @Tags         announcements
// @Produce      json
// @Param        vendor_id        path      string  true  "Vendor id"
// @Param        announcement_id  path      string  true  "Announcement id"
// @Success      200              {object}  statusResponse
// @Failure      403              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/announcements/{announcement_id}/image [delete]
func (h *AnnouncementHandler) ClearImage(c echo.Context) error {
	if err := h.service.ClearImage(c.Request().Context(), c.Param("vendor_id"), c.Param("announcement_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}
