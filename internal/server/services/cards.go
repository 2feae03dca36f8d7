package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/dmitrijs2005/cardtrack/internal/dbx"
	"github.com/dmitrijs2005/cardtrack/internal/server/models"
	"github.com/dmitrijs2005/cardtrack/internal/server/repositories/repomanager"
)

// CardInput carries the fields of a new card. Title is required.
type CardInput struct {
	Title       string
	Description *string
	Status      *string
	Priority    *string
}

// CardService manages cards. Update and Delete are restricted to the owner
// and administrators.
type CardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *Guard
}

func NewCardService(db *sql.DB, m repomanager.RepositoryManager, guard *Guard) *CardService {
	return &CardService{db: db, repomanager: m, guard: guard}
}

func (s *CardService) List(ctx context.Context) ([]*models.Card, error) {
	return s.repomanager.Cards(s.db).List(ctx)
}

// Get returns the card with its owner and comments.
func (s *CardService) Get(ctx context.Context, id int64) (*models.Card, error) {
	card, err := s.repomanager.Cards(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	card.Comments, err = s.repomanager.Comments(s.db).ListByCard(ctx, id)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Create stores a card owned by the caller.
func (s *CardService) Create(ctx context.Context, callerID int64, in CardInput) (*models.Card, error) {
	card := &models.Card{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		UserID:      callerID,
	}

	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Card, error) {
		created, err := s.repomanager.Cards(tx).Create(ctx, card)
		if err != nil {
			return nil, err
		}
		created.User, err = ownerSummary(ctx, s.repomanager, tx, callerID)
		if err != nil {
			return nil, err
		}
		created.Comments = []*models.Comment{}
		return created, nil
	})
}

// Update applies a partial update. The card row stays locked from the
// ownership check until commit.
func (s *CardService) Update(ctx context.Context, callerID, id int64, patch models.CardPatch) (*models.Card, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, &common.ValidationError{Field: "title", Message: "The column title is required"}
		}
		patch.Title = &title
	}

	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Card, error) {
		repo := s.repomanager.Cards(tx)

		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if !s.guard.Bind(tx).Authorize(ctx, callerID, current.UserID) {
			return nil, &common.ForbiddenError{Action: "update this card"}
		}

		updated, err := repo.Update(ctx, id, patch)
		if err != nil {
			return nil, err
		}
		updated.User, err = ownerSummary(ctx, s.repomanager, tx, updated.UserID)
		if err != nil {
			return nil, err
		}
		return updated, nil
	})
}

// Delete removes the card and, in the same transaction, its comments.
// The deleted card is returned so callers can report its title.
func (s *CardService) Delete(ctx context.Context, callerID, id int64) (*models.Card, error) {
	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Card, error) {
		repo := s.repomanager.Cards(tx)

		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if !s.guard.Bind(tx).Authorize(ctx, callerID, current.UserID) {
			return nil, &common.ForbiddenError{Action: "delete this card"}
		}
		if err := repo.Delete(ctx, id); err != nil {
			return nil, err
		}
		return current, nil
	})
}

func ownerSummary(ctx context.Context, m repomanager.RepositoryManager, db dbx.DBTX, userID int64) (*models.UserSummary, error) {
	u, err := m.Users(db).GetUserByID(ctx, userID)
	if err != nil {
		return nil, userNotFound(err)
	}
	return &models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}
