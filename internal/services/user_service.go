package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
)

type UserServiceInterface interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type UserService struct {
	conf  *structures.Config
	store providers.StoreInterface
}

func NewUserService(conf *structures.Config, store providers.StoreInterface) UserServiceInterface {
	return &UserService{conf: conf, store: store}
}

// HashPassword produces the salted digest stored in the users collection.
// Existing records are hashed this way; changing the scheme would orphan
// every stored credential.
func HashPassword(salt, password string) string {
	digest := sha256.Sum256([]byte(salt + password))
	return base64.StdEncoding.EncodeToString(digest[:])
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	hash := HashPassword(s.conf.Auth.PasswordSalt, password)
	doc, err := s.store.FindOne(ctx, providers.CollectionUsers,
		providers.Doc{"email": email, "password_hash": hash}, nil)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	userEmail, _ := doc["email"].(string)
	return &models.User{Email: userEmail, PasswordHash: hash}, nil
}
