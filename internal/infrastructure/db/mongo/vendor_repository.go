package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

const collectionVendors = "vendors"

// vendorDoc is the persisted shape of the vendor aggregate. Child ids are
// stored as ObjectIDs to match the documents they reference.
type vendorDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Account       accountDoc           `bson:"account"`
	Contact       domain.Contact       `bson:"contact"`
	Products      []primitive.ObjectID `bson:"products"`
	Announcements []primitive.ObjectID `bson:"announcements"`
	Requests      []primitive.ObjectID `bson:"requests"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

type accountDoc struct {
	Username string `bson:"username"`
	Password string `bson:"password"`
	Role     string `bson:"role"`
}

func (d *vendorDoc) toDomain() *domain.Vendor {
	return &domain.Vendor{
		ID: d.ID.Hex(),
		Account: domain.Account{
			Username: d.Account.Username,
			Password: d.Account.Password,
			Role:     d.Account.Role,
		},
		Contact:       d.Contact,
		Products:      hexList(d.Products),
		Announcements: hexList(d.Announcements),
		Requests:      hexList(d.Requests),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type VendorRepository struct {
	col *mongo.Collection
}

func NewVendorRepository(db *mongo.Database) *VendorRepository {
	return &VendorRepository{col: db.Collection(collectionVendors)}
}

var _ ports.VendorRepository = (*VendorRepository)(nil)

// Insert creates the vendor document. The unique username index backs the
// service-level existence check against concurrent registrations.
func (r *VendorRepository) Insert(ctx context.Context, v *domain.Vendor) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := vendorDoc{
		Account: accountDoc{
			Username: v.Account.Username,
			Password: v.Account.Password,
			Role:     v.Account.Role,
		},
		Contact:       v.Contact,
		Products:      []primitive.ObjectID{},
		Announcements: []primitive.ObjectID{},
		Requests:      []primitive.ObjectID{},
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUsernameTaken
		}
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *VendorRepository) FindByID(ctx context.Context, id string) (*domain.Vendor, error) {
	oid, err := parseID(id, domain.ErrVendorNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc vendorDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *VendorRepository) FindByUsername(ctx context.Context, username string) (*domain.Vendor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc vendorDoc
	if err := r.col.FindOne(ctx, bson.M{"account.username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *VendorRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"account.username": username})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *VendorRepository) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Vendor, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.col.Find(ctx, bson.M{}, findOptions(opts.Sort, opts.Limit, opts.Offset))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var vendors []*domain.Vendor
	for cur.Next(ctx) {
		var doc vendorDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		vendors = append(vendors, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

func (r *VendorRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepository) UpdateAccount(ctx context.Context, id string, acct domain.Account) error {
	oid, err := parseID(id, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"account.password": acct.Password,
		"account.role":     acct.Role,
		"updated_at":       time.Now().UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepository) UpdateContact(ctx context.Context, id string, contact domain.Contact) error {
	oid, err := parseID(id, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"contact":    contact,
		"updated_at": time.Now().UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

// AddChild appends the child id to the kind's ordered list.
func (r *VendorRepository) AddChild(ctx context.Context, id string, kind domain.ChildKind, childID string) error {
	oid, err := parseID(id, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}
	cid, err := parseID(childID, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{kind.String(): cid},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepository) RemoveChild(ctx context.Context, id string, kind domain.ChildKind, childID string) error {
	oid, err := parseID(id, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}
	cid, err := parseID(childID, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{kind.String(): cid},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepository) ClearChildren(ctx context.Context, id string, kind domain.ChildKind) error {
	oid, err := parseID(id, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		kind.String(): []primitive.ObjectID{},
		"updated_at":  time.Now().UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the vendors collection.
func (r *VendorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account.username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
