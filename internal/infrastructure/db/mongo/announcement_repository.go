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

const collectionAnnouncements = "announcements"

type announcementDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	VendorID  primitive.ObjectID `bson:"vendor_id"`
	Text      string             `bson:"text"`
	Image     string             `bson:"image"`
	Featured  bool               `bson:"featured"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *announcementDoc) toDomain() *domain.Announcement {
	return &domain.Announcement{
		ID:        d.ID.Hex(),
		VendorID:  d.VendorID.Hex(),
		Text:      d.Text,
		Image:     d.Image,
		Featured:  d.Featured,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type AnnouncementRepository struct {
	col *mongo.Collection
}

func NewAnnouncementRepository(db *mongo.Database) *AnnouncementRepository {
	return &AnnouncementRepository{col: db.Collection(collectionAnnouncements)}
}

var _ ports.AnnouncementRepository = (*AnnouncementRepository)(nil)

func (r *AnnouncementRepository) Insert(ctx context.Context, a *domain.Announcement) (string, error) {
	vid, err := parseID(a.VendorID, domain.ErrVendorNotFound)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := announcementDoc{
		VendorID:  vid,
		Text:      a.Text,
		Image:     a.Image,
		Featured:  a.Featured,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *AnnouncementRepository) FindByID(ctx context.Context, id string) (*domain.Announcement, error) {
	oid, err := parseID(id, domain.ErrAnnouncementNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc announcementDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnnouncementNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AnnouncementRepository) ListByVendor(ctx context.Context, vendorID string, opts ports.ListOptions) ([]*domain.Announcement, int64, error) {
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

	var announcements []*domain.Announcement
	for cur.Next(ctx) {
		var doc announcementDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		announcements = append(announcements, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return announcements, total, nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, id string, upd ports.AnnouncementUpdate) error {
	oid, err := parseID(id, domain.ErrAnnouncementNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"text":       upd.Text,
		"updated_at": time.Now().UTC(),
	}
	if upd.Featured != nil {
		set["featured"] = *upd.Featured
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementRepository) SetImage(ctx context.Context, id string, ref domain.AssetRef) error {
	oid, err := parseID(id, domain.ErrAnnouncementNotFound)
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
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementRepository) DeleteByVendor(ctx context.Context, id, vendorID string) error {
	oid, err := parseID(id, domain.ErrAnnouncementNotFound)
	if err != nil {
		return err
	}
	vid, err := parseID(vendorID, domain.ErrAnnouncementNotFound)
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
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementRepository) DeleteAllByVendor(ctx context.Context, vendorID string) error {
	vid, err := parseID(vendorID, domain.ErrVendorNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.DeleteMany(ctx, bson.M{"vendor_id": vid})
	return err
}

// EnsureIndexes creates necessary indexes on the announcements collection.
func (r *AnnouncementRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "vendor_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
