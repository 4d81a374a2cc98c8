package auth

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/go-oauth2/oauth2/v4/server"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(os.Getenv("APP_ENV")))
}

// SetLogLevel aligns this package's logger with the application level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Authenticator checks a user's login credentials
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// Options configures token issuance. ClientID and ClientSecret identify the
// first-party client the web front end logs in through.
type Options struct {
	JWTSecret    string
	TokenTTL     time.Duration
	ClientID     string
	ClientSecret string
}

type OAuthService struct {
	server  *server.Server
	manager *manage.Manager
	tokens  *GormTokenStore
	users   Authenticator
	opts    Options
}

func NewOAuthService(db *gorm.DB, users Authenticator, opts Options) *OAuthService {
	manager := manage.NewDefaultManager()
	tokenCfg := &manage.Config{AccessTokenExp: opts.TokenTTL, IsGenerateRefresh: false}
	manager.SetPasswordTokenCfg(tokenCfg)
	manager.SetClientTokenCfg(tokenCfg)

	// Use JWT for access tokens
	manager.MapAccessGenerate(NewCustomJWTAccessGenerate([]byte(opts.JWTSecret), jwt.SigningMethodHS512, db))

	tokenStore := NewGormTokenStore(db)
	manager.MustTokenStorage(tokenStore, nil)
	manager.MapClientStorage(NewGormClientStore(db))

	o := &OAuthService{manager: manager, tokens: tokenStore, users: users, opts: opts}

	srv := server.NewDefaultServer(manager)
	srv.SetAllowedGrantType(oauth2.PasswordCredentials, oauth2.ClientCredentials)
	srv.SetClientInfoHandler(server.ClientFormHandler)
	srv.SetPasswordAuthorizationHandler(o.passwordAuthorization)
	o.server = srv
	return o
}

func (o *OAuthService) GetServer() *server.Server {
	return o.server
}

// passwordAuthorization resolves the password grant, where username is the email
func (o *OAuthService) passwordAuthorization(ctx context.Context, clientID, username, password string) (string, error) {
	user, err := o.users.Authenticate(ctx, username, password)
	if err != nil {
		log.WithField("client_id", clientID).Debug("Password grant rejected")
		// an empty user id makes the server answer invalid_grant
		return "", nil
	}
	return strconv.FormatUint(uint64(user.ID), 10), nil
}

// Login checks the credentials and issues an access token through the
// first-party client
func (o *OAuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := o.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	ti, err := o.manager.GenerateAccessToken(ctx, oauth2.PasswordCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     o.opts.ClientID,
		ClientSecret: o.opts.ClientSecret,
		UserID:       strconv.FormatUint(uint64(user.ID), 10),
		Scope:        "read write",
	})
	if err != nil {
		return "", err
	}
	log.WithField("user_id", user.ID).Info("Token issued")
	return ti.GetAccess(), nil
}

// Logout revokes an access token
func (o *OAuthService) Logout(ctx context.Context, access string) error {
	return o.manager.RemoveAccessToken(ctx, access)
}

// Active reports whether an access token was issued here and is neither
// revoked nor expired
func (o *OAuthService) Active(ctx context.Context, access string) bool {
	_, err := o.manager.LoadAccessToken(ctx, access)
	return err == nil
}

// PurgeExpired removes expired tokens from the store
func (o *OAuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return o.tokens.PurgeExpired(ctx)
}
