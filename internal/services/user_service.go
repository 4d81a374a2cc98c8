package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/media"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/presenter"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
	"gorm.io/gorm"
)

// Registration is a sign-up request
type Registration struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,max=128,password"`
}

// UserService provides account and profile use cases
type UserService interface {
	// Register creates an account with the user role
	Register(ctx context.Context, in Registration) (*presenter.UserCreated, error)
	// Authenticate returns the user owning email if password matches
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Get(ctx context.Context, caller models.Caller, id uint) (*presenter.UserProfile, error)
	Me(ctx context.Context, caller models.Caller) (*presenter.UserProfile, error)
	List(ctx context.Context, caller models.Caller, page PageRequest) (ListResult[presenter.UserProfile], error)
	SetPassword(ctx context.Context, caller models.Caller, current, next string) error
	// SetAvatar stores a data URI image as the caller's avatar and returns its URL
	SetAvatar(ctx context.Context, caller models.Caller, dataURI string) (string, error)
	DeleteAvatar(ctx context.Context, caller models.Caller) error
}

type userService struct {
	users     repository.UserRepository
	relations relationLoader
	media     media.Store
}

func NewUserService(repos *repository.Repositories, store media.Store) UserService {
	return &userService{
		users:     repos.Users,
		relations: newRelationLoader(repos),
		media:     store,
	}
}

func (s *userService) Register(ctx context.Context, in Registration) (*presenter.UserCreated, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := structErrors(in); err != nil {
		return nil, err
	}

	emailTaken, usernameTaken, err := s.users.Taken(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	fields := fieldErrors{}
	if emailTaken {
		fields.add("email", "a user with that email already exists")
	}
	if usernameTaken {
		fields.add("username", "a user with that username already exists")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
		Role:      models.RoleUser,
	}
	if err := user.HashPassword(); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewValidationError(map[string][]string{
				"email": {"a user with that email or username already exists"},
			})
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.WithField("user_id", user.ID).Info("User registered")
	created := presenter.Created(*user)
	return &created, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, notFound(err, models.ErrBadCredentials)
	}
	if !user.CheckPassword(password) {
		return nil, models.ErrBadCredentials
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, caller models.Caller, id uint) (*presenter.UserProfile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, models.ErrUserMissing)
	}
	rel, err := s.relations.forUsers(ctx, caller, []models.User{*user})
	if err != nil {
		return nil, err
	}
	profile := presenter.Profile(caller, *user, rel)
	return &profile, nil
}

func (s *userService) Me(ctx context.Context, caller models.Caller) (*presenter.UserProfile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.Get(ctx, caller, caller.UserID)
}

func (s *userService) List(ctx context.Context, caller models.Caller, page PageRequest) (ListResult[presenter.UserProfile], error) {
	users, total, err := s.users.List(ctx, page.repository())
	if err != nil {
		return ListResult[presenter.UserProfile]{}, fmt.Errorf("list users: %w", err)
	}
	rel, err := s.relations.forUsers(ctx, caller, users)
	if err != nil {
		return ListResult[presenter.UserProfile]{}, err
	}
	return ListResult[presenter.UserProfile]{Count: total, Results: presenter.Profiles(caller, users, rel)}, nil
}

func (s *userService) SetPassword(ctx context.Context, caller models.Caller, current, next string) error {
	user, err := s.current(ctx, caller)
	if err != nil {
		return err
	}
	fields := fieldErrors{}
	if !user.CheckPassword(current) {
		fields.add("current_password", "wrong password")
	}
	if problem := passwordProblem(next); problem != "" {
		fields.add("new_password", "password "+problem)
	}
	if err := fields.err(); err != nil {
		return err
	}
	user.Password = next
	if err := user.HashPassword(); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Update(ctx, user, "password"); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	log.WithField("user_id", user.ID).Info("Password changed")
	return nil
}

func (s *userService) SetAvatar(ctx context.Context, caller models.Caller, dataURI string) (string, error) {
	user, err := s.current(ctx, caller)
	if err != nil {
		return "", err
	}
	if dataURI == "" {
		return "", models.NewValidationError(map[string][]string{"avatar": {"this field is required"}})
	}
	url, err := saveImage(ctx, s.media, media.Avatars, "avatar", dataURI)
	if err != nil {
		return "", err
	}
	previous := user.Avatar
	user.Avatar = url
	if err := s.users.Update(ctx, user, "avatar"); err != nil {
		s.removeImage(ctx, url)
		return "", fmt.Errorf("update avatar: %w", err)
	}
	s.removeImage(ctx, previous)
	return url, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, caller models.Caller) error {
	user, err := s.current(ctx, caller)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return models.ErrNoAvatar
	}
	previous := user.Avatar
	user.Avatar = ""
	if err := s.users.Update(ctx, user, "avatar"); err != nil {
		return fmt.Errorf("clear avatar: %w", err)
	}
	s.removeImage(ctx, previous)
	return nil
}

func (s *userService) current(ctx context.Context, caller models.Caller) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		// a token outliving its user
		return nil, notFound(err, models.ErrNotAuthenticated)
	}
	return user, nil
}

func (s *userService) removeImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.media.Delete(ctx, url); err != nil {
		log.WithError(err).WithField("url", url).Warn("Failed to remove avatar")
	}
}
