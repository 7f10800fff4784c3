package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadpoint/site-api/internal/core/domain"
)

const collectionAdmins = "admins"

type AdminRepository struct {
	db DatabaseProvider
}

func NewAdminRepository(db DatabaseProvider) *AdminRepository {
	return &AdminRepository{db: db}
}

type adminDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Email              string             `bson:"email"`
	PasswordHash       string             `bson:"passwordHash"`
	Name               string             `bson:"name"`
	Role               string             `bson:"role"`
	MustChangePassword bool               `bson:"mustChangePassword"`
	CreatedAt          time.Time          `bson:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt"`
}

func (d adminDoc) toDomain() *domain.Admin {
	return &domain.Admin{
		ID:                 d.ID.Hex(),
		Email:              d.Email,
		PasswordHash:       d.PasswordHash,
		Name:               d.Name,
		Role:               domain.Role(d.Role),
		MustChangePassword: d.MustChangePassword,
		CreatedAt:          d.CreatedAt.UTC(),
		UpdatedAt:          d.UpdatedAt.UTC(),
	}
}

func (r *AdminRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(collectionAdmins), nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AdminRepository) FindByID(ctx context.Context, id string) (*domain.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAdminNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AdminRepository) findOne(ctx context.Context, filter bson.M) (*domain.Admin, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc adminDoc
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, wrapErr("find admin", err)
	}
	return doc.toDomain(), nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := adminDoc{
		ID:                 primitive.NewObjectID(),
		Email:              admin.Email,
		PasswordHash:       admin.PasswordHash,
		Name:               admin.Name,
		Role:               string(admin.Role),
		MustChangePassword: admin.MustChangePassword,
		CreatedAt:          admin.CreatedAt,
		UpdatedAt:          admin.UpdatedAt,
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return wrapErr("insert admin", err)
	}
	admin.ID = doc.ID.Hex()
	return nil
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string, mustChange bool, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAdminNotFound
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"passwordHash":       passwordHash,
		"mustChangePassword": mustChange,
		"updatedAt":          at,
	}})
	if err != nil {
		return wrapErr("update admin password", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}
