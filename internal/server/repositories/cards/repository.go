package cards

import (
	"context"

	"github.com/dmitrijs2005/cardtrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, card *models.Card) (*models.Card, error)
	List(ctx context.Context) ([]*models.Card, error)
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Card, error)
	Update(ctx context.Context, id int64, patch models.CardPatch) (*models.Card, error)
	Delete(ctx context.Context, id int64) error
}
