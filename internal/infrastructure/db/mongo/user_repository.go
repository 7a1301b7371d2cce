package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/portal-users/internal/core/domain"
	"github.com/99minutos/portal-users/internal/core/ports"
)

const (
	collectionUsers = "users"

	// maxRoleUpdateAttempts bounds the compare-and-swap loop in UpdateRoles.
	maxRoleUpdateAttempts = 5
)

var errRoleUpdateContention = errors.New("roles changed concurrently")

// UserRepository implements ports.UserRepository on MongoDB. The user id is
// the document _id; emails carry a unique index.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	Surname        string    `bson:"surname"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashed_password"`
	IsActive       bool      `bson:"is_active"`
	Roles          []string  `bson:"roles"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		ID:             u.ID,
		Name:           u.Name,
		Surname:        u.Surname,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		IsActive:       u.IsActive,
		Roles:          u.Roles.Strings(),
		CreatedAt:      u.CreatedAt.UTC(),
		UpdatedAt:      u.UpdatedAt.UTC(),
	}
}

func (d userDocument) toDomain() (*domain.User, error) {
	roles, err := domain.ParseRoleSet(d.Roles)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", d.ID, err)
	}
	return &domain.User{
		ID:             d.ID,
		Name:           d.Name,
		Surname:        d.Surname,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		IsActive:       d.IsActive,
		Roles:          roles,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain()
}

// UpdateProfile sets the given fields on an active user and returns the
// updated document.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Surname != nil {
		set["surname"] = *update.Surname
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}

	var doc userDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "is_active": true},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain()
}

// Deactivate flips is_active on an active user.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateRoles applies transition with a compare-and-swap on the stored role
// array. Roles are always written in canonical order, so an exact array match
// proves nobody changed them since they were read. A lost race re-reads and
// retries.
func (r *UserRepository) UpdateRoles(ctx context.Context, id string, transition ports.RoleTransition) (*domain.User, error) {
	for attempt := 0; attempt < maxRoleUpdateAttempts; attempt++ {
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !current.IsActive {
			return nil, domain.ErrUserNotFound
		}

		next := transition(current.Roles)
		now := time.Now().UTC()

		updated, err := r.swapRoles(ctx, id, current.Roles, next, now)
		if errors.Is(err, errRoleUpdateContention) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("update roles of %s: %w", id, errRoleUpdateContention)
}

func (r *UserRepository) swapRoles(ctx context.Context, id string, expected, next domain.RoleSet, now time.Time) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "is_active": true, "roles": expected.Strings()},
		bson.M{"$set": bson.M{"roles": next.Strings(), "updated_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errRoleUpdateContention
		}
		return nil, fmt.Errorf("update roles: %w", err)
	}
	return doc.toDomain()
}

// EnsureIndexes creates the unique email index on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
