package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"livwell/models"
	"livwell/utils"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrUnknownUser        = errors.New("unknown user")
)

// Service implements signup, login and profile editing
type Service struct {
	store *Store
	log   *logrus.Logger
}

func NewService(store *Store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// Signup checks the email is free, hashes the password and creates the user
func (s *Service) Signup(ctx context.Context, in models.NewUser) (models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return models.User{}, ErrMissingFields
	}

	existing, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	in.Password = string(hashed)

	u, err := s.store.Create(ctx, in)
	if err != nil {
		return models.User{}, err
	}
	s.log.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Login returns the user and a signed token
func (s *Service) Login(ctx context.Context, email, password string) (models.User, string, error) {
	u, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return models.User{}, "", err
	}
	if u == nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(u.ID, u.Email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("generate token: %w", err)
	}
	return *u, token, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (models.User, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, ErrUnknownUser
	}
	return *u, nil
}

// UpdateProfile edits name, phone and address. Email and password changes
// are not accepted here.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (models.User, error) {
	update.Email = nil
	update.Password = nil

	u, err := s.store.UpdateProfile(ctx, userID, update)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, ErrUnknownUser
	}
	return *u, nil
}
