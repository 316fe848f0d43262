package services

import (
	"context"
	"testing"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userTestConf() *structures.Config {
	conf := &structures.Config{}
	conf.Auth.PasswordSalt = "pepper"
	return conf
}

func TestHashPassword_Deterministic(t *testing.T) {
	a := HashPassword("pepper", "hunter2")
	b := HashPassword("pepper", "hunter2")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, HashPassword("salt", "hunter2"))
	assert.NotEqual(t, a, HashPassword("pepper", "hunter3"))
}

func TestAuthenticate_Success(t *testing.T) {
	store := testutil.NewMockStore()
	_, err := store.InsertOne(context.Background(), providers.CollectionUsers, providers.Doc{
		"email":         "researcher@example.org",
		"password_hash": HashPassword("pepper", "hunter2"),
	})
	require.NoError(t, err)
	svc := NewUserService(userTestConf(), store)

	user, err := svc.Authenticate(context.Background(), "researcher@example.org", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "researcher@example.org", user.Email)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	store := testutil.NewMockStore()
	_, err := store.InsertOne(context.Background(), providers.CollectionUsers, providers.Doc{
		"email":         "researcher@example.org",
		"password_hash": HashPassword("pepper", "hunter2"),
	})
	require.NoError(t, err)
	svc := NewUserService(userTestConf(), store)

	_, err = svc.Authenticate(context.Background(), "researcher@example.org", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	svc := NewUserService(userTestConf(), testutil.NewMockStore())

	_, err := svc.Authenticate(context.Background(), "nobody@example.org", "hunter2")
	assert.ErrorIs(t, err, ErrNotFound)
}
