package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mercatino/vendor-api/internal/api/metrics"
	"github.com/mercatino/vendor-api/internal/api/upload"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for products, their main image, and
// the bounded gallery.
type ProductHandler struct {
	service ports.ProductService
	parser  *upload.Parser
}

func NewProductHandler(service ports.ProductService, parser *upload.Parser) *ProductHandler {
	return &ProductHandler{service: service, parser: parser}
}

// Create adds a product to the vendor's catalog.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        vendor_id  path      string                true  "Vendor id"
// @Param        body       body      createProductRequest  true  "Product fields"
// @Success      201        {object}  createdResponse
// @Failure      400        {object}  map[string]string
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.service.Create(c.Request().Context(), c.Param("vendor_id"), toCreateProductInput(req))
	if err != nil {
		return err
	}

	metrics.ProductsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// List returns the vendor's products with pagination.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        vendor_id  path      string  true   "Vendor id"
// @Param        limit      query     int     false  "Page size"
// @Param        offset     query     int     false  "Page offset"
// @Param        sort       query     string  false  "Sort field, prefix with - for descending"
// @Success      200        {object}  listProductsResponse
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	opts := listOptions(c)
	products, total, err := h.service.List(c.Request().Context(), c.Param("vendor_id"), opts)
	if err != nil {
		return err
	}

	docs := make([]productResponse, 0, len(products))
	for _, p := range products {
		docs = append(docs, toProductResponse(p))
	}

	return c.JSON(http.StatusOK, listProductsResponse{
		Docs:   docs,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// Get returns a single product.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        vendor_id   path      string  true  "Vendor id"
// @Param        product_id  path      string  true  "Product id"
// @Success      200         {object}  productResponse
// @Failure      404         {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/products/{product_id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), c.Param("vendor_id"), c.Param("product_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Update rewrites the product's editable fields.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        vendor_id   path      string                true  "Vendor id"
// @Param        product_id  path      string                true  "Product id"
// @Param        body        body      updateProductRequest  true  "Product fields"
// @Success      200         {object}  statusResponse
// @Failure      400         {object}  map[string]string
// @Failure      403         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/products/{product_id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.service.Update(c.Request().Context(), c.Param("vendor_id"), c.Param("product_id"), toProductUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "updated"})
}

// Delete removes one product and its asset subtree.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        vendor_id   path      string  true  "Vendor id"
// @Param        product_id  path      string  true  "Product id"
// @Success      200         {object}  statusResponse
// @Failure      403         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/products/{product_id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("vendor_id"), c.Param("product_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// DeleteAll clears the vendor's whole catalog.
//
// @Summary      Delete all products
// @Tags         products
// @Produce      json
// @Param        vendor_id  path      string  true  "Vendor id"
// @Success      200        {object}  statusResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/products [delete]
func (h *ProductHandler) DeleteAll(c echo.Context) error {
	if err := h.service.DeleteAll(c.Request().Context(), c.Param("vendor_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// SetImage replaces the product's main image with an uploaded jpeg.
//
// @Summary      Upload a product image
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        vendor_id      path      string  true  "Vendor id"
// @Param        product_id     path      string  true  "Product id"
// @Param        product_image  formData  file    true  "Jpeg image"
// @Success      200            {object}  statusResponse
// @Failure      400            {object}  map[string]string
// @Failure      403            {object}  map[string]string
// @Failure      404            {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/products/{product_id}/image [post]
func (h *ProductHandler) SetImage(c echo.Context) error {
	up, err := h.parser.Single(c.Request(), productImageField)
	if err != nil {
		return err
	}

	err = h.service.SetImage(c.Request().Context(), c.Param("vendor_id"), c.Param("product_id"), *up)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "uploaded"})
}

// ClearImage removes the product's main image.
//
// @Summary      Delete a product image
// @Tags         products
// @Produce      json
// @Param        vendor_id   path      string  true  "Vendor id"
// @Param        product_id  path      string  true  "Product id"
// @Success      200         {object}  statusResponse
// @Failure      403         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/products/{product_id}/image [delete]
func (h *ProductHandler) ClearImage(c echo.Context) error {
	if err := h.service.ClearImage(c.Request().Context(), c.Param("vendor_id"), c.Param("product_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// AppendGalleryImage adds an uploaded jpeg to the product gallery. Capacity
// is checked before the body is read, so a full gallery refuses the upload
// without transferring the file.
//
// @Summary      Upload a gallery image
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        vendor_id              path      string  true  "Vendor id"
// @Param        product_id             path      string  true  "Product id"
// @Param        product_gallery_image  formData  file    true  "Jpeg image"
// @Success      200                    {object}  statusResponse
// @Failure      400                    {object}  map[string]string
// @Failure      403                    {object}  map[string]string
// @Failure      404                    {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/products/{product_id}/gallery [post]
func (h *ProductHandler) AppendGalleryImage(c echo.Context) error {
	vendorID, productID := c.Param("vendor_id"), c.Param("product_id")

	if err := h.service.CheckGalleryRoom(c.Request().Context(), vendorID, productID); err != nil {
		return err
	}

	up, err := h.parser.Single(c.Request(), productGalleryImageField)
	if err != nil {
		return err
	}

	if err := h.service.AppendGalleryImage(c.Request().Context(), vendorID, productID, *up); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "uploaded"})
}

// ClearGallery removes every gallery image.
//
// @Summary      Delete the product gallery
// @Tags         products
// @Produce      json
// @Param        vendor_id   path      string  true  "Vendor id"
// @Param        product_id  path      string  true  "Product id"
// @Success      200         {object}  statusResponse
// @Failure      403         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Router       /api/vendor/{vendor_id}/products/{product_id}/gallery [delete]
func (h *ProductHandler) ClearGallery(c echo.Context) error {
	if err := h.service.ClearGallery(c.Request().Context(), c.Param("vendor_id"), c.Param("product_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}
