package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"
	"salonsmart-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const demoEmail = "demo@salonsmart.app"

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthConfig struct {
	// DemoMode accepts any credentials and lets users switch role.
	DemoMode   bool
	DemoRole   models.Role
	BcryptCost int
	Now        func() time.Time
}

type AuthService struct {
	users    repository.UserRepository
	tokens   *utils.TokenManager
	validate *validator.Validate
	logger   *zap.Logger
	cfg      AuthConfig
}

func NewAuthService(users repository.UserRepository, tokens *utils.TokenManager, validate *validator.Validate, logger *zap.Logger, cfg AuthConfig) *AuthService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if !models.ValidRole(cfg.DemoRole) {
		cfg.DemoRole = models.RoleAdmin
	}
	return &AuthService{users: users, tokens: tokens, validate: validate, logger: logger.Named("auth"), cfg: cfg}
}

func (s *AuthService) DemoMode() bool { return s.cfg.DemoMode }

// Register creates a customer account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := checkStruct(s.validate, in); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:       uuid.New(),
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
		Phone:    in.Phone,
		Role:     models.RoleCustomer,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.String("id", user.ID.String()))
	return s.issue(ctx, user)
}

// Login checks credentials. In demo mode any credentials succeed and an
// unknown email gets an account with the demo role.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if s.cfg.DemoMode {
		return s.demoLogin(ctx, email)
	}
	if email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(in.Password, user.Password) {
		s.logger.Info("failed login", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}
	return s.issue(ctx, user)
}

func (s *AuthService) demoLogin(ctx context.Context, email string) (*AuthResult, error) {
	if email == "" {
		email = demoEmail
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return s.issue(ctx, user)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(utils.GenerateRandomString(16), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}
	user = &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     s.cfg.DemoRole,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("demo user created", zap.String("email", email), zap.String("role", string(user.Role)))
	return s.issue(ctx, user)
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	now := s.cfg.Now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("record last login failed", zap.String("id", user.ID.String()), zap.Error(err))
	}
	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, actor Actor) (*models.User, error) {
	return s.users.Get(ctx, actor.UserID)
}

// SwitchRole changes the actor's role. Only available in demo mode.
func (s *AuthService) SwitchRole(ctx context.Context, actor Actor, role models.Role) (*AuthResult, error) {
	if !s.cfg.DemoMode {
		return nil, ErrForbidden
	}
	if !models.ValidRole(role) {
		return nil, NewValidationError("role", "must be one of: admin customer")
	}
	user, err := s.users.Get(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	return s.issue(ctx, user)
}
