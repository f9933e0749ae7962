package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

type requestFixture struct {
	vendors   *stubVendorRepo
	products  *stubProductRepo
	requests  *stubRequestRepo
	svc       *RequestService
	vendorID  string
	productID string
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	f := &requestFixture{
		vendors:  newStubVendorRepo(),
		products: newStubProductRepo(),
		requests: newStubRequestRepo(),
	}
	f.svc = NewRequestService(f.vendors, f.products, f.requests, nopLogger)

	vendorID, err := f.vendors.Insert(context.Background(), &domain.Vendor{
		Account:  domain.Account{Username: "alice", Role: domain.RoleUser},
		Requests: []string{},
	})
	if err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	f.vendorID = vendorID

	productID, err := f.products.Insert(context.Background(), &domain.Product{
		VendorID: vendorID, Category: "bags", Name: "Tote", Price: 49.90,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	f.productID = productID
	return f
}

func (f *requestFixture) create(t *testing.T) string {
	t.Helper()
	id, err := f.svc.Create(context.Background(), f.vendorID, ports.CreateRequestInput{
		ProductID: f.productID, Name: "Bob", Email: "bob@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return id
}

func TestRequestCreate(t *testing.T) {
	f := newRequestFixture(t)
	id := f.create(t)

	request := f.requests.requests[id]
	if request.Status != domain.StatusPending {
		t.Fatalf("new request status %q", request.Status)
	}
	parent := f.vendors.vendors[f.vendorID]
	if len(parent.Requests) != 1 || parent.Requests[0] != id {
		t.Fatalf("parent id list %v", parent.Requests)
	}
}

func TestRequestCreateForeignProduct(t *testing.T) {
	f := newRequestFixture(t)
	otherID, _ := f.vendors.Insert(context.Background(), &domain.Vendor{
		Account: domain.Account{Username: "mallory", Role: domain.RoleUser},
	})
	foreignProduct, _ := f.products.Insert(context.Background(), &domain.Product{
		VendorID: otherID, Category: "bags", Name: "Clutch",
	})

	_, err := f.svc.Create(context.Background(), f.vendorID, ports.CreateRequestInput{
		ProductID: foreignProduct, Name: "Bob", Email: "bob@example.com",
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if len(f.requests.requests) != 0 {
		t.Fatalf("request inserted against foreign product")
	}
}

func TestRequestGetResolvesProductRef(t *testing.T) {
	f := newRequestFixture(t)
	id := f.create(t)

	detail, err := f.svc.Get(context.Background(), f.vendorID, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Product == nil {
		t.Fatalf("product reference not resolved")
	}
	if detail.Product.ID != f.productID || detail.Product.Name != "Tote" || detail.Product.Price != 49.90 {
		t.Fatalf("unexpected product ref %+v", detail.Product)
	}
}

func TestRequestGetDanglingProductRef(t *testing.T) {
	f := newRequestFixture(t)
	id := f.create(t)
	delete(f.products.products, f.productID)

	detail, err := f.svc.Get(context.Background(), f.vendorID, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Product != nil {
		t.Fatalf("dangling reference resolved to %+v", detail.Product)
	}
	if detail.Request == nil || detail.Request.ID != id {
		t.Fatalf("request record missing from detail")
	}
}

func TestRequestUpdateStatus(t *testing.T) {
	f := newRequestFixture(t)
	id := f.create(t)

	upd := ports.RequestUpdate{Name: "Bob", Email: "bob@example.com", Status: domain.StatusSolved}
	if err := f.svc.Update(context.Background(), f.vendorID, id, upd); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := f.requests.requests[id].Status; got != domain.StatusSolved {
		t.Fatalf("status %q", got)
	}
}

func TestRequestDelete(t *testing.T) {
	f := newRequestFixture(t)
	id := f.create(t)

	if err := f.svc.Delete(context.Background(), f.vendorID, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := f.requests.requests[id]; ok {
		t.Fatalf("record survived delete")
	}
	if len(f.vendors.vendors[f.vendorID].Requests) != 0 {
		t.Fatalf("parent id list not cleaned")
	}
}

func TestRequestDeleteAll(t *testing.T) {
	f := newRequestFixture(t)
	f.create(t)
	f.create(t)

	if err := f.svc.DeleteAll(context.Background(), f.vendorID); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if len(f.requests.requests) != 0 {
		t.Fatalf("records survived DeleteAll")
	}
	if len(f.vendors.vendors[f.vendorID].Requests) != 0 {
		t.Fatalf("parent id list not reset")
	}
}
