package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// ValidRole reports whether role is one of the persisted account roles.
// Guest is an implicit caller role and is never stored.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// Account holds a vendor's credentials. Password is a bcrypt hash at rest;
// it is only ever written through the explicit account-update path so that
// re-hashing cannot be skipped by a generic field merge.
type Account struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Contact is a vendor's public contact sheet.
type Contact struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Shopname string `json:"shopname"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
	Email    string `json:"email"`
	Site     string `json:"site"`
}

// Vendor is the tenant aggregate root. The three id lists are the
// authoritative membership record for its children: a child document may
// exist while its id is absent from the list after a partially committed
// create, and callers must treat list membership as the source of truth.
type Vendor struct {
	ID            string
	Account       Account
	Contact       Contact
	Products      []string
	Announcements []string
	Requests      []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ChildKind names a vendor-owned sub-resource collection. The string value
// doubles as the vendor document field and the asset subtree directory.
type ChildKind string

const (
	KindProducts      ChildKind = "products"
	KindAnnouncements ChildKind = "announcements"
	KindRequests      ChildKind = "requests"
)

func (k ChildKind) String() string { return string(k) }
