package comments

import (
	"context"

	"github.com/dmitrijs2005/cardtrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListByCard(ctx context.Context, cardID int64) ([]*models.Comment, error)
	GetByID(ctx context.Context, cardID, id int64) (*models.Comment, error)
	GetForUpdate(ctx context.Context, cardID, id int64) (*models.Comment, error)
	Update(ctx context.Context, id int64, message string) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}
