package services

import (
	"context"
	"errors"
	"strings"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceFields is the partial shape accepted by create and update. Unset
// fields keep their current (or default) value.
type ServiceFields struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Duration    *int     `json:"duration"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"image_url"`
	IsActive    *bool    `json:"is_active"`
}

func (f ServiceFields) apply(s *models.Service) {
	if f.Name != nil {
		s.Name = strings.TrimSpace(*f.Name)
	}
	if f.Description != nil {
		s.Description = trimmed(f.Description)
	}
	if f.Price != nil {
		s.Price = *f.Price
	}
	if f.Duration != nil {
		s.Duration = *f.Duration
	}
	if f.Category != nil {
		s.Category = *f.Category
	}
	if f.ImageURL != nil {
		s.ImageURL = trimmed(f.ImageURL)
	}
	if f.IsActive != nil {
		s.IsActive = *f.IsActive
	}
}

// CatalogService manages the menu of salon services. Customers only ever see
// active services.
type CatalogService struct {
	repo     repository.ServiceRepository
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCatalogService(repo repository.ServiceRepository, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, validate: validate, logger: logger.Named("catalog")}
}

func (s *CatalogService) List(ctx context.Context, actor Actor, category string) ([]models.Service, error) {
	return s.repo.List(ctx, repository.ServiceFilter{
		ActiveOnly: !actor.IsOperator(),
		Category:   category,
	})
}

func (s *CatalogService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Service, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive && !actor.IsOperator() {
		return nil, repository.ErrNotFound
	}
	return svc, nil
}

func (s *CatalogService) Create(ctx context.Context, actor Actor, fields ServiceFields) (*models.Service, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	svc := &models.Service{
		ID:       uuid.New(),
		Category: models.CategoryHair,
		IsActive: true,
	}
	fields.apply(svc)
	if err := checkStruct(s.validate, svc); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		s.logger.Error("create service failed", zap.String("name", svc.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("service created", zap.String("id", svc.ID.String()), zap.String("name", svc.Name))
	return svc, nil
}

func (s *CatalogService) Update(ctx context.Context, actor Actor, id uuid.UUID, fields ServiceFields) (*models.Service, error) {
	if err := requireOperator(actor); err != nil {
		return nil, err
	}
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields.apply(svc)
	if err := checkStruct(s.validate, svc); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, svc); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("update service failed", zap.String("id", id.String()), zap.Error(err))
		}
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireOperator(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("service deleted", zap.String("id", id.String()))
	return nil
}
