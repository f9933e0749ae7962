package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// In-memory fakes for the storage ports. Each write path has an injectable
// error so tests can fail a protocol at a chosen step.

type stubVendorRepo struct {
	seq     int
	vendors map[string]*domain.Vendor

	failInsert   error
	failAddChild error
	failRemove   error
	failClear    error
	failDelete   error
}

func newStubVendorRepo() *stubVendorRepo {
	return &stubVendorRepo{vendors: make(map[string]*domain.Vendor)}
}

func (r *stubVendorRepo) Insert(ctx context.Context, v *domain.Vendor) (string, error) {
	if r.failInsert != nil {
		return "", r.failInsert
	}
	r.seq++
	id := fmt.Sprintf("v%d", r.seq)
	cp := *v
	cp.ID = id
	r.vendors[id] = &cp
	return id, nil
}

func (r *stubVendorRepo) FindByID(ctx context.Context, id string) (*domain.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return nil, domain.ErrVendorNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVendorRepo) FindByUsername(ctx context.Context, username string) (*domain.Vendor, error) {
	for _, v := range r.vendors {
		if v.Account.Username == username {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrVendorNotFound
}

func (r *stubVendorRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *stubVendorRepo) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Vendor, int64, error) {
	ids := make([]string, 0, len(r.vendors))
	for id := range r.vendors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*domain.Vendor, 0, len(ids))
	for _, id := range ids {
		cp := *r.vendors[id]
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *stubVendorRepo) Delete(ctx context.Context, id string) error {
	if r.failDelete != nil {
		return r.failDelete
	}
	if _, ok := r.vendors[id]; !ok {
		return domain.ErrVendorNotFound
	}
	delete(r.vendors, id)
	return nil
}

func (r *stubVendorRepo) UpdateAccount(ctx context.Context, id string, acct domain.Account) error {
	v, ok := r.vendors[id]
	if !ok {
		return domain.ErrVendorNotFound
	}
	v.Account = acct
	return nil
}

func (r *stubVendorRepo) UpdateContact(ctx context.Context, id string, contact domain.Contact) error {
	v, ok := r.vendors[id]
	if !ok {
		return domain.ErrVendorNotFound
	}
	v.Contact = contact
	return nil
}

func (r *stubVendorRepo) childList(v *domain.Vendor, kind domain.ChildKind) *[]string {
	switch kind {
	case domain.KindProducts:
		return &v.Products
	case domain.KindAnnouncements:
		return &v.Announcements
	default:
		return &v.Requests
	}
}

func (r *stubVendorRepo) AddChild(ctx context.Context, id string, kind domain.ChildKind, childID string) error {
	if r.failAddChild != nil {
		return r.failAddChild
	}
	v, ok := r.vendors[id]
	if !ok {
		return domain.ErrVendorNotFound
	}
	list := r.childList(v, kind)
	*list = append(*list, childID)
	return nil
}

func (r *stubVendorRepo) RemoveChild(ctx context.Context, id string, kind domain.ChildKind, childID string) error {
	if r.failRemove != nil {
		return r.failRemove
	}
	v, ok := r.vendors[id]
	if !ok {
		return domain.ErrVendorNotFound
	}
	list := r.childList(v, kind)
	kept := (*list)[:0]
	for _, c := range *list {
		if c != childID {
			kept = append(kept, c)
		}
	}
	*list = kept
	return nil
}

func (r *stubVendorRepo) ClearChildren(ctx context.Context, id string, kind domain.ChildKind) error {
	if r.failClear != nil {
		return r.failClear
	}
	v, ok := r.vendors[id]
	if !ok {
		return domain.ErrVendorNotFound
	}
	*r.childList(v, kind) = []string{}
	return nil
}

type stubProductRepo struct {
	seq      int
	products map[string]*domain.Product

	failInsert error
	failDelete error
	failPush   error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) Insert(ctx context.Context, p *domain.Product) (string, error) {
	if r.failInsert != nil {
		return "", r.failInsert
	}
	r.seq++
	id := fmt.Sprintf("p%d", r.seq)
	cp := *p
	cp.ID = id
	r.products[id] = &cp
	return id, nil
}

func (r *stubProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByVendorAndID(ctx context.Context, vendorID, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok || p.VendorID != vendorID {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) ListByVendor(ctx context.Context, vendorID string, opts ports.ListOptions) ([]*domain.Product, int64, error) {
	ids := make([]string, 0, len(r.products))
	for id, p := range r.products {
		if p.VendorID == vendorID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		cp := *r.products[id]
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(ctx context.Context, id string, upd ports.ProductUpdate) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Category = upd.Category
	p.Name = upd.Name
	p.Description = upd.Description
	p.Price = upd.Price
	if upd.Featured != nil {
		p.Featured = *upd.Featured
	}
	if upd.Enabled != nil {
		p.Enabled = *upd.Enabled
	}
	if upd.Sale != nil {
		p.Sale = *upd.Sale
	}
	p.Keywords = upd.Keywords
	return nil
}

func (r *stubProductRepo) SetImage(ctx context.Context, id string, ref domain.AssetRef) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Image = ref
	return nil
}

func (r *stubProductRepo) PushGallery(ctx context.Context, id string, ref domain.AssetRef) error {
	if r.failPush != nil {
		return r.failPush
	}
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Gallery = append(p.Gallery, ref)
	return nil
}

func (r *stubProductRepo) SetGallery(ctx context.Context, id string, refs []domain.AssetRef) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Gallery = refs
	return nil
}

func (r *stubProductRepo) DeleteByVendor(ctx context.Context, id, vendorID string) error {
	if r.failDelete != nil {
		return r.failDelete
	}
	p, ok := r.products[id]
	if !ok || p.VendorID != vendorID {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) DeleteAllByVendor(ctx context.Context, vendorID string) error {
	for id, p := range r.products {
		if p.VendorID == vendorID {
			delete(r.products, id)
		}
	}
	return nil
}

type stubAnnouncementRepo struct {
	seq           int
	announcements map[string]*domain.Announcement
}

func newStubAnnouncementRepo() *stubAnnouncementRepo {
	return &stubAnnouncementRepo{announcements: make(map[string]*domain.Announcement)}
}

func (r *stubAnnouncementRepo) Insert(ctx context.Context, a *domain.Announcement) (string, error) {
	r.seq++
	id := fmt.Sprintf("a%d", r.seq)
	cp := *a
	cp.ID = id
	r.announcements[id] = &cp
	return id, nil
}

func (r *stubAnnouncementRepo) FindByID(ctx context.Context, id string) (*domain.Announcement, error) {
	a, ok := r.announcements[id]
	if !ok {
		return nil, domain.ErrAnnouncementNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubAnnouncementRepo) ListByVendor(ctx context.Context, vendorID string, opts ports.ListOptions) ([]*domain.Announcement, int64, error) {
	ids := make([]string, 0, len(r.announcements))
	for id, a := range r.announcements {
		if a.VendorID == vendorID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]*domain.Announcement, 0, len(ids))
	for _, id := range ids {
		cp := *r.announcements[id]
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *stubAnnouncementRepo) Update(ctx context.Context, id string, upd ports.AnnouncementUpdate) error {
	a, ok := r.announcements[id]
	if !ok {
		return domain.ErrAnnouncementNotFound
	}
	a.Text = upd.Text
	if upd.Featured != nil {
		a.Featured = *upd.Featured
	}
	return nil
}

func (r *stubAnnouncementRepo) SetImage(ctx context.Context, id string, ref domain.AssetRef) error {
	a, ok := r.announcements[id]
	if !ok {
		return domain.ErrAnnouncementNotFound
	}
	a.Image = ref
	return nil
}

func (r *stubAnnouncementRepo) DeleteByVendor(ctx context.Context, id, vendorID string) error {
	a, ok := r.announcements[id]
	if !ok || a.VendorID != vendorID {
		return domain.ErrAnnouncementNotFound
	}
	delete(r.announcements, id)
	return nil
}

func (r *stubAnnouncementRepo) DeleteAllByVendor(ctx context.Context, vendorID string) error {
	for id, a := range r.announcements {
		if a.VendorID == vendorID {
			delete(r.announcements, id)
		}
	}
	return nil
}

type stubRequestRepo struct {
	seq      int
	requests map[string]*domain.Request
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[string]*domain.Request)}
}

func (r *stubRequestRepo) Insert(ctx context.Context, req *domain.Request) (string, error) {
	r.seq++
	id := fmt.Sprintf("r%d", r.seq)
	cp := *req
	cp.ID = id
	r.requests[id] = &cp
	return id, nil
}

func (r *stubRequestRepo) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *stubRequestRepo) ListByVendor(ctx context.Context, vendorID string, opts ports.ListOptions) ([]*domain.Request, int64, error) {
	ids := make([]string, 0, len(r.requests))
	for id, req := range r.requests {
		if req.VendorID == vendorID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]*domain.Request, 0, len(ids))
	for _, id := range ids {
		cp := *r.requests[id]
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *stubRequestRepo) Update(ctx context.Context, id string, upd ports.RequestUpdate) error {
	req, ok := r.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	req.Name = upd.Name
	req.Email = upd.Email
	req.Phone = upd.Phone
	req.Notes = upd.Notes
	if upd.Status != "" {
		req.Status = upd.Status
	}
	return nil
}

func (r *stubRequestRepo) DeleteByVendor(ctx context.Context, id, vendorID string) error {
	req, ok := r.requests[id]
	if !ok || req.VendorID != vendorID {
		return domain.ErrRequestNotFound
	}
	delete(r.requests, id)
	return nil
}

func (r *stubRequestRepo) DeleteAllByVendor(ctx context.Context, vendorID string) error {
	for id, req := range r.requests {
		if req.VendorID == vendorID {
			delete(r.requests, id)
		}
	}
	return nil
}

// stubAssetStore records subtrees and stored files as flat sets.
type stubAssetStore struct {
	seq      int
	subtrees map[string]bool
	files    map[string]bool

	failCreate error
	failRemove error
	failStore  error
	failAsset  error
}

func newStubAssetStore() *stubAssetStore {
	return &stubAssetStore{subtrees: make(map[string]bool), files: make(map[string]bool)}
}

func (s *stubAssetStore) CreateSubtree(ctx context.Context, subtree string) error {
	if s.failCreate != nil {
		return s.failCreate
	}
	s.subtrees[subtree] = true
	return nil
}

func (s *stubAssetStore) RemoveSubtree(ctx context.Context, subtree string) error {
	if s.failRemove != nil {
		return s.failRemove
	}
	delete(s.subtrees, subtree)
	for sub := range s.subtrees {
		if strings.HasPrefix(sub, subtree+"/") {
			delete(s.subtrees, sub)
		}
	}
	for f := range s.files {
		if strings.HasPrefix(f, subtree+"/") {
			delete(s.files, f)
		}
	}
	return nil
}

func (s *stubAssetStore) ResetSubtree(ctx context.Context, subtree string) error {
	if err := s.RemoveSubtree(ctx, subtree); err != nil {
		return err
	}
	return s.CreateSubtree(ctx, subtree)
}

func (s *stubAssetStore) StoreUpload(ctx context.Context, subtree, filename string, r io.Reader) (domain.AssetRef, error) {
	if s.failStore != nil {
		return "", s.failStore
	}
	ref := "uploads/" + subtree + "/" + filename
	s.files[subtree+"/"+filename] = true
	return ref, nil
}

func (s *stubAssetStore) RemoveAsset(ctx context.Context, ref domain.AssetRef) error {
	if s.failAsset != nil {
		return s.failAsset
	}
	return nil
}

type stubContactCache struct {
	contacts    map[string]*domain.Contact
	gets        int
	sets        int
	invalidates int
}

func newStubContactCache() *stubContactCache {
	return &stubContactCache{contacts: make(map[string]*domain.Contact)}
}

func (c *stubContactCache) Get(ctx context.Context, vendorID string) (*domain.Contact, error) {
	c.gets++
	return c.contacts[vendorID], nil
}

func (c *stubContactCache) Set(ctx context.Context, vendorID string, contact domain.Contact) error {
	c.sets++
	cp := contact
	c.contacts[vendorID] = &cp
	return nil
}

func (c *stubContactCache) Invalidate(ctx context.Context, vendorID string) error {
	c.invalidates++
	delete(c.contacts, vendorID)
	return nil
}

type stubMailer struct {
	sent []ports.Mail
	err  error
}

func (m *stubMailer) Send(ctx context.Context, mail ports.Mail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

// plainHasher marks hashes deterministically so tests can assert on them
// without paying for bcrypt.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}
