package service

import (
	"context"

	"gourmet-ordering/menu-svc/internal/domain"
	"gourmet-ordering/menu-svc/internal/normalizer"
	"gourmet-ordering/menu-svc/internal/storage"
)

type MenuSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type MenuParser interface {
	Parse(raw []byte) ([]domain.Category, error)
}

type MenuCache interface {
	Load(ctx context.Context) ([]domain.Category, error)
	Store(ctx context.Context, categories []domain.Category) error
}

type PopularityReader interface {
	TopItemIDs(ctx context.Context, limit int) ([]string, error)
}

type MenuServiceInterface interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Refresh(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, key string, selected []string) (*domain.CategoryDetail, error)
	Popular(ctx context.Context, limit int) ([]domain.MenuItem, error)
}

var (
	_ MenuServiceInterface = (*MenuService)(nil)
	_ MenuSource           = (*storage.POSSource)(nil)
	_ MenuParser           = (*normalizer.Normalizer)(nil)
	_ MenuCache            = (*storage.RedisMenuCache)(nil)
	_ PopularityReader     = (*storage.RedisPopularity)(nil)
)
