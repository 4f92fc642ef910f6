package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository. Email uniqueness is
// enforced by a unique index, so concurrent inserts of one email resolve in
// the database.
type UserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col: db.Collection(collectionUsers),
		now: func() time.Time { return time.Now().UTC() },
	}
}

type vendorDoc struct {
	StoreName        string  `bson:"store_name"`
	StoreDescription string  `bson:"store_description"`
	StoreSlug        string  `bson:"store_slug"`
	IsApproved       bool    `bson:"is_approved"`
	CommissionRate   float64 `bson:"commission_rate"`
	TotalSales       float64 `bson:"total_sales"`
	Rating           float64 `bson:"rating"`
	ReviewCount      int     `bson:"review_count"`
}

type userDoc struct {
	ID           string     `bson:"_id"`
	Email        string     `bson:"email"`
	Name         string     `bson:"name"`
	Role         string     `bson:"role"`
	Avatar       string     `bson:"avatar,omitempty"`
	PasswordHash string     `bson:"password_hash"`
	Vendor       *vendorDoc `bson:"vendor,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	doc := userDoc{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Avatar:       u.Avatar,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if vp := u.VendorProfile; vp != nil {
		doc.Vendor = &vendorDoc{
			StoreName:        vp.StoreName,
			StoreDescription: vp.StoreDescription,
			StoreSlug:        vp.StoreSlug,
			IsApproved:       vp.IsApproved,
			CommissionRate:   vp.CommissionRate,
			TotalSales:       vp.TotalSales,
			Rating:           vp.Rating,
			ReviewCount:      vp.ReviewCount,
		}
	}
	return doc
}

func (d userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:           d.ID,
		Email:        d.Email,
		Name:         d.Name,
		Role:         d.Role,
		Avatar:       d.Avatar,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if v := d.Vendor; v != nil {
		u.VendorProfile = &domain.VendorProfile{
			StoreName:        v.StoreName,
			StoreDescription: v.StoreDescription,
			StoreSlug:        v.StoreSlug,
			IsApproved:       v.IsApproved,
			CommissionRate:   v.CommissionRate,
			TotalSales:       v.TotalSales,
			Rating:           v.Rating,
			ReviewCount:      v.ReviewCount,
		}
	}
	return u
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	u := user.Clone()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now

	if _, err := r.col.InsertOne(ctx, toUserDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByRole(ctx context.Context, role string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"role": role}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users by role: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	set := userUpdateSet(upd)
	if vendorFieldsSet(upd) {
		// Vendor fields only apply to documents that carry a vendor profile.
		current, err := r.findOne(ctx, filter)
		if err != nil {
			return nil, err
		}
		if current.VendorProfile == nil {
			delete(set, "vendor.store_description")
			delete(set, "vendor.is_approved")
			delete(set, "vendor.commission_rate")
		}
	}
	set["updated_at"] = r.now()

	var doc userDoc
	err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

// userUpdateSet builds the $set document for a partial update.
func userUpdateSet(upd ports.UserUpdate) bson.M {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Avatar != nil {
		set["avatar"] = *upd.Avatar
	}
	if upd.StoreDescription != nil {
		set["vendor.store_description"] = *upd.StoreDescription
	}
	if upd.IsApproved != nil {
		set["vendor.is_approved"] = *upd.IsApproved
	}
	if upd.CommissionRate != nil {
		set["vendor.commission_rate"] = *upd.CommissionRate
	}
	return set
}

func vendorFieldsSet(upd ports.UserUpdate) bool {
	return upd.StoreDescription != nil || upd.IsApproved != nil || upd.CommissionRate != nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique email index and the role lookup index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
