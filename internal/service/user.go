// internal/service/user.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/jerent/carfleet/internal/auth"
	"github.com/jerent/carfleet/internal/config"
	"github.com/jerent/carfleet/internal/domain"
	"github.com/jerent/carfleet/internal/model"
	"github.com/jerent/carfleet/internal/repository"
	"github.com/jerent/carfleet/internal/session"
)

// ConfirmationSender delivers the account confirmation email.
type ConfirmationSender interface {
	SendConfirmation(to, fullName, confirmationLink string) error
}

type UserService struct {
	repo           repository.UserRepositoryIface
	orgRepo        repository.OrganizationRepositoryIface
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	mailSender     ConfirmationSender
	cacheService   *CacheService
	sessions       *session.Manager
	config         *config.Config
	validate       *validator.Validate
	logger         *slog.Logger
}

func NewUserService(
	repo repository.UserRepositoryIface,
	orgRepo repository.OrganizationRepositoryIface,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
	mailSender ConfirmationSender,
	cacheService *CacheService,
	sessions *session.Manager,
	config *config.Config,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		repo:           repo,
		orgRepo:        orgRepo,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		mailSender:     mailSender,
		cacheService:   cacheService,
		sessions:       sessions,
		config:         config,
		validate:       validator.New(),
		logger:         logger,
	}
}

type SignupInput struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	FullName         string `json:"full_name" validate:"required"`
	Phone            string `json:"phone"`
	OrganizationName string `json:"organization_name" validate:"required"`
	IsDriver         bool   `json:"is_driver"`
}

type SignupOutput struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Signup registers the account, provisions its organization, and sends the
// confirmation email. Organization provisioning failing after the identity
// was created would strand a half-provisioned account, so the identity is
// deleted again before the error is surfaced.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*SignupOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	hashedPassword, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Email:            input.Email,
		PasswordHash:     hashedPassword,
		Role:             model.RoleOwner,
		Status:           model.StatusPending,
		ConfirmationCode: generateConfirmationCode(),
		Metadata: datatypes.JSONMap{
			"full_name": input.FullName,
			"phone":     input.Phone,
			"is_driver": input.IsDriver,
		},
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	org := &model.Organization{
		Name:        input.OrganizationName,
		CreatedByID: user.ID,
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		// Roll the identity back so the email can be reused on retry.
		if delErr := s.repo.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("compensating user delete failed",
				"user_id", user.ID, "error", delErr)
		}
		return nil, fmt.Errorf("provisioning organization: %w", err)
	}

	user.OrganizationID = &org.ID
	if err := s.repo.Update(ctx, user); err != nil {
		if delErr := s.repo.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("compensating user delete failed",
				"user_id", user.ID, "error", delErr)
		}
		return nil, fmt.Errorf("linking user to organization: %w", err)
	}

	confirmationLink := fmt.Sprintf(
		"%s/api/auth/signup/confirm?code=%s&user=%s",
		s.config.BaseURL,
		user.ConfirmationCode,
		user.ID.String(),
	)

	if err := s.mailSender.SendConfirmation(user.Email, input.FullName, confirmationLink); err != nil {
		return nil, fmt.Errorf("sending confirmation email: %w", err)
	}

	token, err := s.tokenManager.Generate(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &SignupOutput{User: user, Token: token}, nil
}

type ConfirmInput struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

// ConfirmEmail activates a pending account when the confirmation code matches.
func (s *UserService) ConfirmEmail(ctx context.Context, input ConfirmInput) error {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return fmt.Errorf("%w: invalid user ID", domain.ErrInvalidInput)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Status == model.StatusActive {
		return domain.ErrAlreadyConfirmed
	}

	if user.ConfirmationCode == "" || user.ConfirmationCode != input.Code {
		return domain.ErrInvalidConfirmationCode
	}

	user.Status = model.StatusActive
	user.ConfirmationCode = ""
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	verified, err := s.passwordHasher.Verify(input.Password, user.PasswordHash)
	if err != nil || !verified {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenManager.Generate(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	s.sessions.Announce(session.Event{
		Kind:   session.EventSignedIn,
		UserID: user.ID,
		Email:  user.Email,
	})

	return &LoginOutput{User: user, Token: token}, nil
}

type LogoutInput struct {
	UserID uuid.UUID
}

func (s *UserService) Logout(ctx context.Context, input LogoutInput) error {
	if err := s.cacheService.Delete(ctx, orgCacheKey(input.UserID)); err != nil && !errors.Is(err, domain.ErrInvalidInput) {
		return fmt.Errorf("clearing cached organization: %w", err)
	}

	s.sessions.Announce(session.Event{
		Kind:   session.EventSignedOut,
		UserID: input.UserID,
	})
	return nil
}

// Profile returns the account for the given user id.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile merges the given metadata fields into the user's profile.
// Absent keys keep their stored values.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Metadata == nil {
		user.Metadata = datatypes.JSONMap{}
	}
	for k, v := range fields {
		user.Metadata[k] = v
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

// OrganizationFor resolves the tenant id for a user, caching the lookup.
// Accounts that finished signup before organization provisioning existed can
// have no organization; those are reported rather than defaulted.
func (s *UserService) OrganizationFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var orgID uuid.UUID
	err := s.cacheService.GetOrSet(ctx, orgCacheKey(userID), &orgID, func() (interface{}, error) {
		user, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user.OrganizationID == nil {
			return nil, domain.ErrOrganizationUnresolved
		}
		return *user.OrganizationID, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationUnresolved) {
			return uuid.Nil, domain.ErrOrganizationUnresolved
		}
		return uuid.Nil, fmt.Errorf("resolving organization: %w", err)
	}
	return orgID, nil
}

func orgCacheKey(userID uuid.UUID) string {
	return "user_org:" + userID.String()
}

// generateConfirmationCode creates a secure random confirmation code
func generateConfirmationCode() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic(err) // This should never happen
	}
	return hex.EncodeToString(bytes)
}
