package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mercatino/vendor-api/internal/api/metrics"
	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// VendorHandler handles HTTP requests for vendor records, their account and
// contact sub-objects, and the contact mailbox.
type VendorHandler struct {
	service ports.VendorService
}

func NewVendorHandler(service ports.VendorService) *VendorHandler {
	return &VendorHandler{service: service}
}

// Create registers a new vendor.
//
// @Summary      Create a vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        body  body      createVendorRequest  true  "Account details"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/vendor [post]
func (h *VendorHandler) Create(c echo.Context) error {
	var req createVendorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.service.Create(c.Request().Context(), ports.CreateVendorInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	metrics.VendorsCreatedTotal.WithLabelValues(req.Role).Inc()
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// List returns all vendors with pagination.
//
// @Summary      List vendors
// @Tags         vendors
// @Produce      json
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Page offset"
// @Param        sort    query     string  false  "Sort field, prefix with - for descending"
// @Success      200     {object}  listVendorsResponse
// @Failure      403     {object}  map[string]string
// @Router       /api/vendor [get]
func (h *VendorHandler) List(c echo.Context) error {
	opts := listOptions(c)
	vendors, total, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}

	role := accessorRole(c)
	docs := make([]domain.VendorView, 0, len(vendors))
	for _, v := range vendors {
		docs = append(docs, domain.ViewVendor(v, role))
	}

	return c.JSON(http.StatusOK, listVendorsResponse{
		Docs:   docs,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// Get returns a single vendor with role-based redaction applied.
//
// @Summary      Get a vendor
// @Tags         vendors
// @Produce      json
// @Param        vendor_id  path      string  true  "Vendor id"
// @Success      200        {object}  domain.VendorView
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id} [get]
func (h *VendorHandler) Get(c echo.Context) error {
	vendor, err := h.service.Get(c.Request().Context(), c.Param("vendor_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.ViewVendor(vendor, accessorRole(c)))
}

// Delete removes a vendor and its entire asset subtree.
//
// @Summary      Delete a vendor
// @Tags         vendors
// @Produce      json
// @Param        vendor_id  path      string  true  "Vendor id"
// @Success      200        {object}  statusResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id} [delete]
func (h *VendorHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("vendor_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// GetAccount returns the vendor's account with redaction applied.
//
// @Summary      Get a vendor account
// @Tags         vendors
// @Produce      json
// @Param        vendor_id  path      string  true  "Vendor id"
// @Success      200        {object}  accountResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/account [get]
func (h *VendorHandler) GetAccount(c echo.Context) error {
	vendor, err := h.service.Get(c.Request().Context(), c.Param("vendor_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{
		Account: domain.ViewAccount(vendor.Account, accessorRole(c)),
	})
}

// UpdateAccount changes the vendor's password, and role when the caller is an
// admin.
//
// @Summary      Update a vendor account
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        vendor_id  path      string                true  "Vendor id"
// @Param        body       body      updateAccountRequest  true  "Account changes"
// @Success      200        {object}  statusResponse
// @Failure      400        {object}  map[string]string
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/account [put]
func (h *VendorHandler) UpdateAccount(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.service.UpdateAccount(c.Request().Context(), c.Param("vendor_id"), accessorRole(c), ports.AccountUpdate{
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "updated"})
}

// GetContact returns the vendor's public contact sheet.
//
// @Summary      Get a vendor contact sheet
// @Tags         vendors
// @Produce      json
// @Param        vendor_id  path      string  true  "Vendor id"
// @Success      200        {object}  contactResponse
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/contact [get]
func (h *VendorHandler) GetContact(c echo.Context) error {
	contact, err := h.service.GetContact(c.Request().Context(), c.Param("vendor_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactResponse{Contact: contact})
}

// UpdateContact replaces the vendor's contact sheet.
//
// @Summary      Update a vendor contact sheet
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        vendor_id  path      string          true  "Vendor id"
// @Param        body       body      contactRequest  true  "Contact fields"
// @Success      200        {object}  statusResponse
// @Failure      400        {object}  map[string]string
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/contact [put]
func (h *VendorHandler) UpdateContact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.UpdateContact(c.Request().Context(), c.Param("vendor_id"), toContact(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "updated"})
}

// Mailbox forwards a visitor message to the vendor's contact address.
//
// @Summary      Send a message to a vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        vendor_id  path      string          true  "Vendor id"
// @Param        body       body      mailboxRequest  true  "Message"
// @Success      200        {object}  statusResponse
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/mailbox [post]
func (h *VendorHandler) Mailbox(c echo.Context) error {
	var req mailboxRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.SendMailbox(c.Request().Context(), c.Param("vendor_id"), toMailboxInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "sent"})
}
