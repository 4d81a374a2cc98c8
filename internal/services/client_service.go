package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrClientMissing is returned for clients that do not exist or belong to someone else
var ErrClientMissing = &models.DomainError{Kind: models.KindNotFound, Code: models.ErrNotFound, Message: "client not found"}

// ClientRegistration describes an integration client owned by a user
type ClientRegistration struct {
	Name   string `json:"name" validate:"required,max=100"`
	Domain string `json:"domain" validate:"omitempty,url"`
	Scopes string `json:"scopes"`
}

// ClientService manages the OAuth clients tokens are issued through
type ClientService interface {
	// EnsureClient returns the client with the given id, creating it with a
	// bcrypt hash of secret when it does not exist yet
	EnsureClient(ctx context.Context, client models.OAuthClient, secret string) (*models.OAuthClient, bool, error)
	// CreateClient registers a client_credentials client owned by the caller.
	// The plain secret is returned once and only its hash is stored.
	CreateClient(ctx context.Context, caller models.Caller, in ClientRegistration) (*models.OAuthClient, string, error)
	ListClients(ctx context.Context, caller models.Caller) ([]models.OAuthClient, error)
	GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error)
	// DeleteClient removes one of the caller's clients
	DeleteClient(ctx context.Context, caller models.Caller, id string) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) EnsureClient(ctx context.Context, client models.OAuthClient, secret string) (*models.OAuthClient, bool, error) {
	existing, err := s.GetClientByID(ctx, client.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := s.create(ctx, &client, secret); err != nil {
		return nil, false, err
	}
	return &client, true, nil
}

func (s *clientService) CreateClient(ctx context.Context, caller models.Caller, in ClientRegistration) (*models.OAuthClient, string, error) {
	if err := requireCaller(caller); err != nil {
		return nil, "", err
	}
	if err := structErrors(in); err != nil {
		return nil, "", err
	}

	secret := uuid.New().String()
	client := &models.OAuthClient{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Domain:     in.Domain,
		Scopes:     in.Scopes,
		UserID:     caller.UserID,
		GrantTypes: "client_credentials",
	}
	if err := s.create(ctx, client, secret); err != nil {
		return nil, "", err
	}
	return client, secret, nil
}

func (s *clientService) create(ctx context.Context, client *models.OAuthClient, secret string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash client secret: %w", err)
	}
	client.Secret = string(hash)
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("create client %s: %w", client.ID, err)
	}
	log.WithField("client_id", client.ID).Info("OAuth client created")
	return nil
}

func (s *clientService) ListClients(ctx context.Context, caller models.Caller) ([]models.OAuthClient, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	var clients []models.OAuthClient
	if err := s.db.WithContext(ctx).Where("user_id = ?", caller.UserID).Order("created_at").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, caller models.Caller, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, caller.UserID).Delete(&models.OAuthClient{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClientMissing
	}
	return nil
}
