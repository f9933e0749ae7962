package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

const collectionProducts = "products"

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	VendorID    primitive.ObjectID `bson:"vendor_id"`
	Category    string             `bson:"category"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Image       string             `bson:"image"`
	Gallery     []string           `bson:"gallery"`
	Featured    bool               `bson:"featured"`
	Enabled     bool               `bson:"enabled"`
	Sale        string             `bson:"sale"`
	Keywords    []string           `bson:"keywords"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *productDoc) toDomain() *domain.Product {
	gallery := d.Gallery
	if gallery == nil {
		gallery = []string{}
	}
	return &domain.Product{
		ID:          d.ID.Hex(),
		VendorID:    d.VendorID.Hex(),
		Category:    d.Category,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Gallery:     gallery,
		Featured:    d.Featured,
		Enabled:     d.Enabled,
		Sale:        d.Sale,
		Keywords:    d.Keywords,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) (string, error) {
	vid, err := parseID(p.VendorID, domain.ErrVendorNotFound)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := productDoc{
		VendorID:    vid,
		Category:    p.Category,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Gallery:     []string{},
		Featured:    p.Featured,
		Enabled:     p.Enabled,
		Sale:        p.Sale,
		Keywords:    p.Keywords,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := parseID(id, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// FindByVendorAndID filters on the compound key, so a product that exists
// under a different vendor reads as not found.
func (r *ProductRepository) FindByVendorAndID(ctx context.Context, vendorID, id string) (*domain.Product, error) {
	vid, err := parseID(vendorID, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "vendor_id": vid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) ListByVendor(ctx context.Context, vendorID string, opts ports.ListOptions) ([]*domain.Product, int64, error) {
	vid, err := parseID(vendorID, domain.ErrVendorNotFound)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"vendor_id": vid}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.col.Find(ctx, filter, findOptions(opts.Sort, opts.Limit, opts.Offset))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var products []*domain.Product
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		products = append(products, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, upd ports.ProductUpdate) error {
	oid, err := parseID(id, domain.ErrProductNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"category":    upd.Category,
		"name":        upd.Name,
		"description": upd.Description,
		"price":       upd.Price,
		"keywords":    upd.Keywords,
		"updated_at":  time.Now().UTC(),
	}
	if upd.Featured != nil {
		set["featured"] = *upd.Featured
	}
	if upd.Enabled != nil {
		set["enabled"] = *upd.Enabled
	}
	if upd.Sale != nil {
		set["sale"] = *upd.Sale
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) SetImage(ctx context.Context, id string, ref domain.AssetRef) error {
	oid, err := parseID(id, domain.ErrProductNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"image": ref, "updated_at": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) PushGallery(ctx context.Context, id string, ref domain.AssetRef) error {
	oid, err := parseID(id, domain.ErrProductNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"gallery": ref},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) SetGallery(ctx context.Context, id string, refs []domain.AssetRef) error {
	oid, err := parseID(id, domain.ErrProductNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if refs == nil {
		refs = []domain.AssetRef{}
	}
	update := bson.M{"$set": bson.M{"gallery": refs, "updated_at": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteByVendor(ctx context.Context, id, vendorID string) error {
	oid, err := parseID(id, domain.ErrProductNotFound)
	if err != nil {
		return err
	}
	vid, err := parseID(vendorID, domain.ErrProductNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "vendor_id": vid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteAllByVendor(ctx context.Context, vendorID string) error {
	vid, err := parseID(vendorID, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.DeleteMany(ctx, bson.M{"vendor_id": vid})
	return err
}

// EnsureIndexes creates necessary indexes on the products collection.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "vendor_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
