package menu

import (
	"context"

	"brewline/internal/domain"
)

type Service interface {
	ListItems(ctx context.Context) ([]domain.MenuItem, error)
	CreateItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, id string) error
}
