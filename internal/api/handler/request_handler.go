package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// RequestHandler handles HTTP requests for customer requests.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

type createRequestRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name"       validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

type updateRequestRequest struct {
	Name   string `json:"name"   validate:"required"`
	Email  string `json:"email"  validate:"required,email"`
	Phone  string `json:"phone"`
	Notes  string `json:"notes"`
	Status string `json:"status" validate:"omitempty,oneof=pending solved rejected workout"`
}

type requestResponse struct {
	ID        string           `json:"_id"`
	VendorID  string           `json:"vendor_id"`
	Product   *ports.ProductRef `json:"product"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Notes     string           `json:"notes"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type listRequestsResponse struct {
	Docs   []requestResponse `json:"docs"`
	Total  int64             `json:"total"`
	Limit  int64             `json:"limit"`
	Offset int64             `json:"offset"`
}

func toRequestResponse(d *ports.RequestDetail) requestResponse {
	return requestResponse{
		ID:        d.Request.ID,
		VendorID:  d.Request.VendorID,
		Product:   d.Product,
		Name:      d.Request.Name,
		Email:     d.Request.Email,
		Phone:     d.Request.Phone,
		Notes:     d.Request.Notes,
		Status:    string(d.Request.Status),
		CreatedAt: d.Request.CreatedAt,
		UpdatedAt: d.Request.UpdatedAt,
	}
}

// Create records a customer request against one of the vendor's products.
//
// @Summary      Create a request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        vendor_id  path      string                true  "Vendor id"
// @Param        body       body      createRequestRequest  true  "Request fields"
// @Success      201        {object}  createdResponse
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.service.Create(c.Request().Context(), c.Param("vendor_id"), ports.CreateRequestInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// List returns the vendor's requests with resolved product summaries.
//
// @Summary      List requests
// @Tags         requests
// @Produce      json
// @Param        vendor_id  path      string  true   "Vendor id"
// @Param        limit      query     int     false  "Page size"
// @Param        offset     query     int     false  "Page offset"
// @Param        sort       query     string  false  "Sort field, prefix with - for descending"
// @Success      200        {object}  listRequestsResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	opts := listOptions(c)
	details, total, err := h.service.List(c.Request().Context(), c.Param("vendor_id"), opts)
	if err != nil {
		return err
	}

	docs := make([]requestResponse, 0, len(details))
	for _, d := range details {
		docs = append(docs, toRequestResponse(d))
	}

	return c.JSON(http.StatusOK, listRequestsResponse{
		Docs:   docs,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// Get returns a single request with its resolved product summary.
//
// @Summary      Get a request
// @Tags         requests
// @Produce      json
// @Param        vendor_id   path      string  true  "Vendor id"
// @Param        request_id  path      string  true  "Request id"
// @Success      200         {object}  requestResponse
// @Failure      403         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/requests/{request_id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("vendor_id"), c.Param("request_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(detail))
}

// Update rewrites the request's editable fields, including its status.
//
// @Summary      Update a request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        vendor_id   path      string                true  "Vendor id"
// @Param        request_id  path      string                true  "Request id"
// @Param        body        body      updateRequestRequest  true  "Request fields"
// @Success      200         {object}  statusResponse
// @Failure      400         {object}  map[string]string
// @Failure      403         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/requests/{request_id} [put]
func (h *RequestHandler) Update(c echo.Context) error {
	var req updateRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.service.Update(c.Request().Context(), c.Param("vendor_id"), c.Param("request_id"), ports.RequestUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Notes:  req.Notes,
		Status: domain.RequestStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "updated"})
}

// Delete removes one request.
//
// @Summary      Delete a request
// @Tags         requests
// @Produce      json
// @Param        vendor_id   path      string  true  "Vendor id"
// @Param        request_id  path      string  true  "Request id"
// @Success      200         {object}  statusResponse
// @Failure      403         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/requests/{request_id} [delete]
func (h *RequestHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("vendor_id"), c.Param("request_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// DeleteAll clears the vendor's request inbox.
//
// @Summary      Delete all requests
// @Tags         requests
// @Produce      json
// @Param        vendor_id  path      string  true  "Vendor id"
// @Success      200        {object}  statusResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/requests [delete]
func (h *RequestHandler) DeleteAll(c echo.Context) error {
	if err := h.service.DeleteAll(c.Request().Context(), c.Param("vendor_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}
