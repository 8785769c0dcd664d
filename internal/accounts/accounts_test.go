package accounts

import (
	"context"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
	"trendnest_backend/internal/utils"
)

type mockUsers struct {
	byID map[gocql.UUID]*models.User
}

func newMockUsers() *mockUsers {
	return &mockUsers{byID: make(map[gocql.UUID]*models.User)}
}

func (m *mockUsers) Create(_ context.Context, u *models.User) error {
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *mockUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockUsers) ByID(_ context.Context, id gocql.UUID) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUsers) EmailTaken(_ context.Context, email string) (bool, error) {
	_, err := m.ByEmail(context.Background(), email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

type mockActivity struct {
	actions []string
}

func (m *mockActivity) Record(_ context.Context, _ gocql.UUID, action string) error {
	m.actions = append(m.actions, action)
	return nil
}

func TestRegister(t *testing.T) {
	users := newMockUsers()
	svc := NewService(users, &mockActivity{})

	user, err := svc.Register(context.Background(), "alice", "alice@trendnest.shop", "s3cret!")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)
	assert.Equal(t, "customer", user.Role)
	// le mot de passe est stocké hashé, jamais en clair
	assert.True(t, utils.IsArgon2Hash(user.Password))
	assert.NotEqual(t, "s3cret!", user.Password)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newMockUsers(), &mockActivity{})

	_, err := svc.Register(context.Background(), "", "a@b.c", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(context.Background(), "alice", "", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(context.Background(), "alice", "a@b.c", "")
	assert.ErrorIs(t, err, ErrMissingFields)

	for _, email := range []string{"pas-un-email", "a@b", "@b.c", "a b@c.d"} {
		_, err = svc.Register(context.Background(), "alice", email, "pw")
		assert.ErrorIs(t, err, ErrInvalidEmail, email)
	}

	for _, email := range []string{"a@b.c", "user.name+tag@sub-domain.example.com"} {
		_, err = svc.Register(context.Background(), "alice", email, "pw")
		assert.NoError(t, err, email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newMockUsers(), &mockActivity{})

	_, err := svc.Register(context.Background(), "alice", "alice@trendnest.shop", "pw")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice2", "alice@trendnest.shop", "pw2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	users := newMockUsers()
	activity := &mockActivity{}
	svc := NewService(users, activity)

	_, err := svc.Register(context.Background(), "alice", "alice@trendnest.shop", "s3cret!")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "alice@trendnest.shop", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	// la connexion laisse une trace d'activité
	assert.Equal(t, []string{"login"}, activity.actions)
}

func TestAuthenticateFailures(t *testing.T) {
	users := newMockUsers()
	activity := &mockActivity{}
	svc := NewService(users, activity)

	_, err := svc.Register(context.Background(), "alice", "alice@trendnest.shop", "s3cret!")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "alice@trendnest.shop", "mauvais")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "inconnu@trendnest.shop", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// aucun verrouillage : après plusieurs échecs, le bon mot de passe passe toujours
	for i := 0; i < 10; i++ {
		_, _ = svc.Authenticate(context.Background(), "alice@trendnest.shop", "mauvais")
	}
	_, err = svc.Authenticate(context.Background(), "alice@trendnest.shop", "s3cret!")
	assert.NoError(t, err)

	// les échecs ne laissent pas de trace login
	assert.Equal(t, []string{"login"}, activity.actions)
}

func TestAuthenticateUnverifiedAccount(t *testing.T) {
	users := newMockUsers()
	svc := NewService(users, &mockActivity{})

	user, err := svc.Register(context.Background(), "alice", "alice@trendnest.shop", "s3cret!")
	require.NoError(t, err)

	users.byID[user.ID].IsVerified = false

	_, err = svc.Authenticate(context.Background(), "alice@trendnest.shop", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
