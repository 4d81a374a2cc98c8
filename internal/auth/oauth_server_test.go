package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-jwt-secret-key-32-characters"

type dbAuthenticator struct {
	db *gorm.DB
}

func (a dbAuthenticator) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, models.ErrBadCredentials
	}
	if !user.CheckPassword(password) {
		return nil, models.ErrBadCredentials
	}
	return &user, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	user := &models.User{Email: email, Username: email[:4], Password: "correct-horse", Role: role}
	require.NoError(t, user.HashPassword())
	require.NoError(t, db.Create(user).Error)
	return user
}

func createClient(t *testing.T, db *gorm.DB, id, secret string, owner uint) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.OAuthClient{
		ID:         id,
		Secret:     string(hash),
		Domain:     "http://localhost",
		UserID:     owner,
		GrantTypes: "password client_credentials",
	}).Error)
}

func setupService(t *testing.T) (*OAuthService, *gorm.DB) {
	db := setupTestDB(t)
	createClient(t, db, "foodgram-web", "web-secret", 0)
	svc := NewOAuthService(db, dbAuthenticator{db: db}, Options{
		JWTSecret:    testSecret,
		TokenTTL:     time.Hour,
		ClientID:     "foodgram-web",
		ClientSecret: "web-secret",
	})
	return svc, db
}

func parseClaims(t *testing.T, access string) jwt.MapClaims {
	token, err := jwt.Parse(access, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestOAuthServerInitialization(t *testing.T) {
	svc, _ := setupService(t)
	assert.NotNil(t, svc)
	assert.NotNil(t, svc.GetServer())
}

func TestLoginIssuesJWTWithUserClaims(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "chef@example.com", models.RoleAdmin)

	access, err := svc.Login(context.Background(), "chef@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, access)

	claims := parseClaims(t, access)
	assert.Equal(t, strconv.FormatUint(uint64(user.ID), 10), claims["uid"])
	assert.Equal(t, models.RoleAdmin, claims["role"])
	assert.Equal(t, "foodgram-web", claims["aud"])
	assert.NotEmpty(t, claims["jti"])
	assert.True(t, svc.Active(context.Background(), access))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := setupService(t)
	createUser(t, db, "chef@example.com", models.RoleUser)

	_, err := svc.Login(context.Background(), "chef@example.com", "wrong-password")
	assert.ErrorIs(t, err, models.ErrBadCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, models.ErrBadCredentials)
}

func TestRepeatedLoginsIssueDistinctTokens(t *testing.T) {
	svc, db := setupService(t)
	createUser(t, db, "chef@example.com", models.RoleUser)

	first, err := svc.Login(context.Background(), "chef@example.com", "correct-horse")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "chef@example.com", "correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, svc.Active(context.Background(), first))
	assert.True(t, svc.Active(context.Background(), second))
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, db := setupService(t)
	createUser(t, db, "chef@example.com", models.RoleUser)
	ctx := context.Background()

	access, err := svc.Login(ctx, "chef@example.com", "correct-horse")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, access))

	assert.False(t, svc.Active(ctx, access))

	var count int64
	require.NoError(t, db.Model(&models.OAuthToken{}).Where("access_token = ?", access).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnknownTokenIsInactive(t *testing.T) {
	svc, _ := setupService(t)
	assert.False(t, svc.Active(context.Background(), "never-issued"))
}

func TestClientCredentialsTokenCarriesOwner(t *testing.T) {
	svc, db := setupService(t)
	owner := createUser(t, db, "bot@example.com", models.RoleUser)
	createClient(t, db, "importer", "importer-secret", owner.ID)

	ti, err := svc.GetServer().Manager.GenerateAccessToken(context.Background(), oauth2.ClientCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     "importer",
		ClientSecret: "importer-secret",
		Scope:        "read",
	})
	require.NoError(t, err)

	claims := parseClaims(t, ti.GetAccess())
	assert.Equal(t, strconv.FormatUint(uint64(owner.ID), 10), claims["uid"])
	assert.Equal(t, models.RoleUser, claims["role"])
	assert.Equal(t, "read", claims["scope"])
}

func TestClientCredentialsWithoutOwnerFails(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.GetServer().Manager.GenerateAccessToken(context.Background(), oauth2.ClientCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     "foodgram-web",
		ClientSecret: "web-secret",
	})
	assert.Error(t, err)
}

func TestPurgeExpired(t *testing.T) {
	svc, db := setupService(t)
	now := time.Now()
	require.NoError(t, db.Create(&models.OAuthToken{
		ClientID: "foodgram-web", UserID: "1", AccessToken: "stale",
		IssuedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.OAuthToken{
		ClientID: "foodgram-web", UserID: "1", AccessToken: "fresh",
		IssuedAt: now, ExpiresAt: now.Add(time.Hour),
	}).Error)

	removed, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.False(t, svc.Active(context.Background(), "stale"))
	assert.True(t, svc.Active(context.Background(), "fresh"))
}
