package usecase

import (
	"testing"
	"time"

	authdomain "localmart-backend/internal/auth/domain"
	authdto "localmart-backend/internal/auth/dto"
	"localmart-backend/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// memUserRepo is an in-memory UserRepository for exercising the auth flows
// without a database.
type memUserRepo struct {
	users         map[string]*authdomain.User // by id
	refreshTokens map[string]*authdomain.RefreshToken
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:         make(map[string]*authdomain.User),
		refreshTokens: make(map[string]*authdomain.RefreshToken),
	}
}

func (r *memUserRepo) Create(user *authdomain.User) error {
	user.ID = uuid.New().String()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(id string) (*authdomain.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) Update(user *authdomain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error {
	r.refreshTokens[token.Token] = token
	return nil
}

func (r *memUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return r.refreshTokens[token], nil
}

func (r *memUserRepo) DeleteRefreshToken(token string) error {
	delete(r.refreshTokens, token)
	return nil
}

func (r *memUserRepo) DeleteRefreshTokensByUser(userID string) error {
	for k, v := range r.refreshTokens {
		if v.UserID == userID {
			delete(r.refreshTokens, k)
		}
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
}

func TestRegisterLoginValidateRoundtrip(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	registered, err := uc.Register(&authdto.RegisterRequest{
		Email:    "a@example.com",
		Password: "secret123",
		Name:     "Alice",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)

	loggedIn, err := uc.Login(&authdto.LoginRequest{Email: "a@example.com", Password: "secret123"})
	assert.NoError(t, err)

	user, err := uc.ValidateToken(loggedIn.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	_, err := uc.Register(&authdto.RegisterRequest{
		Email:    "a@example.com",
		Password: "secret123",
		Name:     "Alice",
	})
	assert.NoError(t, err)

	_, err = uc.Login(&authdto.LoginRequest{Email: "a@example.com", Password: "wrong-pass"})
	assert.Error(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	_, err := uc.Register(&authdto.RegisterRequest{Email: "a@example.com", Password: "secret123", Name: "Alice"})
	assert.NoError(t, err)

	_, err = uc.Register(&authdto.RegisterRequest{Email: "a@example.com", Password: "other-pass", Name: "Imposter"})
	assert.Error(t, err)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	resp, err := uc.Register(&authdto.RegisterRequest{Email: "a@example.com", Password: "secret123", Name: "Alice"})
	assert.NoError(t, err)

	assert.NoError(t, uc.Logout(resp.RefreshToken))

	_, err = uc.RefreshToken(resp.RefreshToken)
	assert.Error(t, err, "a revoked refresh token must not mint new sessions")
}

func TestValidateToken_Garbage(t *testing.T) {
	uc := NewAuthUsecase(newMemUserRepo(), testConfig())

	_, err := uc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
