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

const collectionRequests = "requests"

type requestDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	VendorID  primitive.ObjectID `bson:"vendor_id"`
	ProductID primitive.ObjectID `bson:"product_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	Notes     string             `bson:"notes"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *requestDoc) toDomain() *domain.Request {
	return &domain.Request{
		ID:        d.ID.Hex(),
		VendorID:  d.VendorID.Hex(),
		ProductID: d.ProductID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Notes:     d.Notes,
		Status:    domain.RequestStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

var _ ports.RequestRepository = (*RequestRepository)(nil)

func (r *RequestRepository) Insert(ctx context.Context, req *domain.Request) (string, error) {
	vid, err := parseID(req.VendorID, domain.ErrVendorNotFound)
	if err != nil {
		return "", err
	}
	pid, err := parseID(req.ProductID, domain.ErrProductNotFound)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := requestDoc{
		VendorID:  vid,
		ProductID: pid,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	oid, err := parseID(id, domain.ErrRequestNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc requestDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *RequestRepository) ListByVendor(ctx context.Context, vendorID string, opts ports.ListOptions) ([]*domain.Request, int64, error) {
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

	var requests []*domain.Request
	for cur.Next(ctx) {
		var doc requestDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		requests = append(requests, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *RequestRepository) Update(ctx context.Context, id string, upd ports.RequestUpdate) error {
	oid, err := parseID(id, domain.ErrRequestNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"name":       upd.Name,
		"email":      upd.Email,
		"phone":      upd.Phone,
		"notes":      upd.Notes,
		"updated_at": time.Now().UTC(),
	}
	if upd.Status != "" {
		set["status"] = string(upd.Status)
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) DeleteByVendor(ctx context.Context, id, vendorID string) error {
	oid, err := parseID(id, domain.ErrRequestNotFound)
	if err != nil {
		return err
	}
	vid, err := parseID(vendorID, domain.ErrRequestNotFound)
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
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) DeleteAllByVendor(ctx context.Context, vendorID string) error {
	vid, err := parseID(vendorID, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.DeleteMany(ctx, bson.M{"vendor_id": vid})
	return err
}

// EnsureIndexes creates necessary indexes on the requests collection.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "vendor_id", Value: 1}}},
		{Keys: bson.D{{Key: "product_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
