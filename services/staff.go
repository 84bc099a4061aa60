package services

import (
	"context"
	"strings"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StylistFields struct {
	Name        *string   `json:"name"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Role        *string   `json:"role"`
	Specialties *[]string `json:"specialties"`
	IsAvailable *bool     `json:"is_available"`
	Rating      *float64  `json:"rating"`
	AvatarURL   *string   `json:"avatar_url"`
}

func (f StylistFields) apply(s *models.Stylist) {
	if f.Name != nil {
		s.Name = strings.TrimSpace(*f.Name)
	}
	if f.Email != nil {
		s.Email = trimmed(f.Email)
	}
	if f.Phone != nil {
		s.Phone = trimmed(f.Phone)
	}
	if f.Role != nil {
		s.Role = strings.TrimSpace(*f.Role)
		if s.Role == "" {
			s.Role = models.DefaultStylistRole
		}
	}
	if f.Specialties != nil {
		s.Specialties = cleanTags(*f.Specialties)
	}
	if f.IsAvailable != nil {
		s.IsAvailable = *f.IsAvailable
	}
	if f.Rating != nil {
		s.Rating = *f.Rating
	}
	if f.AvatarURL != nil {
		s.AvatarURL = trimmed(f.AvatarURL)
	}
}

// cleanTags trims tags and drops blanks and repeats, keeping first-seen order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// StaffService manages stylists.
type StaffService struct {
	repo     repository.StylistRepository
	validate *validator.Validate
	logger   *zap.Logger
}

func NewStaffService(repo repository.StylistRepository, validate *validator.Validate, logger *zap.Logger) *StaffService {
	return &StaffService{repo: repo, validate: validate, logger: logger.Named("staff")}
}

// List returns every stylist to operators and only available ones to customers.
func (s *StaffService) List(ctx context.Context, actor Actor) ([]models.Stylist, error) {
	return s.repo.List(ctx, repository.StylistFilter{AvailableOnly: !actor.IsOperator()})
}

func (s *StaffService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Stylist, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.IsAvailable && !actor.IsOperator() {
		return nil, repository.ErrNotFound
	}
	return st, nil
}

func (s *StaffService) Create(ctx context.Context, actor Actor, fields StylistFields) (*models.Stylist, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	st := &models.Stylist{
		ID:          uuid.New(),
		Role:        models.DefaultStylistRole,
		Specialties: []string{},
		IsAvailable: true,
		Rating:      models.DefaultStylistRating,
	}
	fields.apply(st)
	if err := checkStruct(s.validate, st); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, st); err != nil {
		s.logger.Error("create stylist failed", zap.String("name", st.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("stylist created", zap.String("id", st.ID.String()), zap.String("name", st.Name))
	return st, nil
}

func (s *StaffService) Update(ctx context.Context, actor Actor, id uuid.UUID, fields StylistFields) (*models.Stylist, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields.apply(st)
	if err := checkStruct(s.validate, st); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StaffService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireOperator(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("stylist deleted", zap.String("id", id.String()))
	return nil
}
