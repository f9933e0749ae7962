package handler

import (
	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// --- Request types ---

type createVendorRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=admin user"`
}

type updateAccountRequest struct {
	Password string  `json:"password" validate:"required,min=6"`
	Role     *string `json:"role"     validate:"omitempty,oneof=admin user"`
}

type contactRequest struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Shopname string `json:"shopname"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
	Email    string `json:"email" validate:"omitempty,email"`
	Site     string `json:"site"`
}

type mailboxRequest struct {
	Name     string `json:"name"     validate:"required"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"`
	Text     string `json:"text"     validate:"required"`
}

// --- Response types ---

type createdResponse struct {
	ID string `json:"_id"`
}

type listVendorsResponse struct {
	Docs   []domain.VendorView `json:"docs"`
	Total  int64               `json:"total"`
	Limit  int64               `json:"limit"`
	Offset int64               `json:"offset"`
}

type accountResponse struct {
	Account domain.AccountView `json:"account"`
}

type contactResponse struct {
	Contact domain.Contact `json:"contact"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- Mappers ---

func toContact(req contactRequest) domain.Contact {
	return domain.Contact{
		Name:     req.Name,
		Lastname: req.Lastname,
		Shopname: req.Shopname,
		Address:  req.Address,
		Phone:    req.Phone,
		City:     req.City,
		State:    req.State,
		Country:  req.Country,
		Postcode: req.Postcode,
		Email:    req.Email,
		Site:     req.Site,
	}
}

func toMailboxInput(req mailboxRequest) ports.MailboxInput {
	return ports.MailboxInput{
		Name:     req.Name,
		Lastname: req.Lastname,
		Email:    req.Email,
		Phone:    req.Phone,
		Text:     req.Text,
	}
}
