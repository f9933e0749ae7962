package domain

import "time"

// AssetRef is a web-relative path to a file under the asset store's server
// root. A ref is owned by exactly one product or announcement field and is
// never shared between resources. Empty means no asset.
type AssetRef = string

// Product belongs to exactly one vendor; VendorID is immutable after
// creation. Gallery order is caller-significant and preserved.
type Product struct {
	ID          string
	VendorID    string
	Category    string
	Name        string
	Description string
	Price       float64
	Image       AssetRef
	Gallery     []AssetRef
	Featured    bool
	Enabled     bool
	Sale        string
	Keywords    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Announcement belongs to exactly one vendor, same ownership rule as Product.
type Announcement struct {
	ID        string
	VendorID  string
	Text      string
	Image     AssetRef
	Featured  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
