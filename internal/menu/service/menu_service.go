package service

import (
	"context"

	"brewline/internal/domain"
	"brewline/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	FindByID(ctx context.Context, id string) (*domain.MenuItem, error)
	Insert(ctx context.Context, item domain.MenuItem) error
	Update(ctx context.Context, item domain.MenuItem) error
	Delete(ctx context.Context, id string) error
}

type MenuService struct {
	repo   Repository
	logger *zap.Logger
}

func NewMenuService(repo Repository, logger *zap.Logger) *MenuService {
	return &MenuService{
		repo:   repo,
		logger: logger,
	}
}

func (s *MenuService) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.List(ctx)
}

func (s *MenuService) CreateItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	item.Options = pruneOptions(item.Options)

	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu item created",
		zap.String("itemId", item.ID),
		zap.String("name", item.Name),
	)
	return &item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	if item.ID == "" {
		return nil, errors.NewValidationError("item id is required", errors.ValidationDetail{
			Field:   "id",
			Message: "id is required",
		})
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	item.Options = pruneOptions(item.Options)

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu item updated", zap.String("itemId", item.ID))
	return &item, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("menu item deleted", zap.String("itemId", id))
	return nil
}

func validateItem(item domain.MenuItem) error {
	var details []errors.ValidationDetail

	if item.Name == "" {
		details = append(details, errors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}
	if item.Price < 0 {
		details = append(details, errors.ValidationDetail{
			Field:   "price",
			Message: "price must be non-negative",
		})
	}

	if len(details) > 0 {
		return errors.NewValidationError("validation failed", details...)
	}
	return nil
}

// pruneOptions removes option keys with no remaining values; a key with an
// empty list is absent, not empty.
func pruneOptions(options map[string][]string) map[string][]string {
	if options == nil {
		return nil
	}
	pruned := make(map[string][]string, len(options))
	for key, values := range options {
		if len(values) > 0 {
			pruned[key] = values
		}
	}
	if len(pruned) == 0 {
		return nil
	}
	return pruned
}
