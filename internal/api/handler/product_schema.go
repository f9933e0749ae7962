package handler

import (
	"time"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// Multipart field names expected by the upload routes.
const (
	productImageField        = "product_image"
	productGalleryImageField = "product_gallery_image"
	announcementImageField   = "announcement_image"
)

// --- Request types ---

type createProductRequest struct {
	Category    string   `json:"category"    validate:"required"`
	Name        string   `json:"name"        validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price"       validate:"gte=0"`
	Featured    *bool    `json:"featured"`
	Enabled     *bool    `json:"enabled"`
	Sale        string   `json:"sale"`
	Keywords    []string `json:"keywords"`
}

type updateProductRequest struct {
	Category    string   `json:"category"    validate:"required"`
	Name        string   `json:"name"        validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price"       validate:"gte=0"`
	Featured    *bool    `json:"featured"`
	Enabled     *bool    `json:"enabled"`
	Sale        *string  `json:"sale"`
	Keywords    []string `json:"keywords"`
}

// --- Response types ---

type productResponse struct {
	ID          string    `json:"_id"`
	VendorID    string    `json:"vendor_id"`
	Category    string    `json:"category"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Gallery     []string  `json:"gallery"`
	Featured    bool      `json:"featured"`
	Enabled     bool      `json:"enabled"`
	Sale        string    `json:"sale"`
	Keywords    []string  `json:"keywords"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type listProductsResponse struct {
	Docs   []productResponse `json:"docs"`
	Total  int64             `json:"total"`
	Limit  int64             `json:"limit"`
	Offset int64             `json:"offset"`
}

// --- Mappers ---

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Category:    p.Category,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Gallery:     p.Gallery,
		Featured:    p.Featured,
		Enabled:     p.Enabled,
		Sale:        p.Sale,
		Keywords:    p.Keywords,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toCreateProductInput(req createProductRequest) ports.CreateProductInput {
	return ports.CreateProductInput{
		Category:    req.Category,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Featured:    req.Featured,
		Enabled:     req.Enabled,
		Sale:        req.Sale,
		Keywords:    req.Keywords,
	}
}

func toProductUpdate(req updateProductRequest) ports.ProductUpdate {
	return ports.ProductUpdate{
		Category:    req.Category,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Featured:    req.Featured,
		Enabled:     req.Enabled,
		Sale:        req.Sale,
		Keywords:    req.Keywords,
	}
}
