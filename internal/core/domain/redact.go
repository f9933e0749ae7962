package domain

import "time"

// AccountView is the caller-visible projection of an Account. Role is omitted
// from the JSON encoding when empty, which is how the user-level redaction
// strips it.
type AccountView struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// ViewAccount projects acct for the given accessor role. Accessors with role
// user see only the username and password hash; admins get the full account.
func ViewAccount(acct Account, accessorRole string) AccountView {
	view := AccountView{Username: acct.Username, Password: acct.Password}
	if accessorRole == RoleAdmin {
		view.Role = acct.Role
	}
	return view
}

// VendorView is the wire shape of a vendor record with role-based redaction
// applied to the account sub-object. Every response path that returns a
// vendor must go through ViewVendor.
type VendorView struct {
	ID            string      `json:"_id"`
	Account       AccountView `json:"account"`
	Contact       Contact     `json:"contact"`
	Products      []string    `json:"products"`
	Announcements []string    `json:"announcements"`
	Requests      []string    `json:"requests"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func ViewVendor(v *Vendor, accessorRole string) VendorView {
	return VendorView{
		ID:            v.ID,
		Account:       ViewAccount(v.Account, accessorRole),
		Contact:       v.Contact,
		Products:      v.Products,
		Announcements: v.Announcements,
		Requests:      v.Requests,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
