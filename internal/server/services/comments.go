package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/dmitrijs2005/cardtrack/internal/dbx"
	"github.com/dmitrijs2005/cardtrack/internal/server/models"
	"github.com/dmitrijs2005/cardtrack/internal/server/repositories/repomanager"
)

// CommentService manages comments on cards. Any authenticated user may
// comment on an existing card; editing and removal are limited to the author
// and administrators.
type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *Guard
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager, guard *Guard) *CommentService {
	return &CommentService{db: db, repomanager: m, guard: guard}
}

// List returns the comments of an existing card.
func (s *CommentService) List(ctx context.Context, cardID int64) ([]*models.Comment, error) {
	if _, err := s.repomanager.Cards(s.db).GetByID(ctx, cardID); err != nil {
		return nil, err
	}
	return s.repomanager.Comments(s.db).ListByCard(ctx, cardID)
}

func (s *CommentService) Get(ctx context.Context, cardID, commentID int64) (*models.Comment, error) {
	return s.repomanager.Comments(s.db).GetByID(ctx, cardID, commentID)
}

func (s *CommentService) Create(ctx context.Context, callerID, cardID int64, message string) (*models.Comment, error) {
	comment := &models.Comment{Message: message, CardID: cardID, UserID: callerID}

	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Comment, error) {
		// No row lock: the FK keeps the card from vanishing under the insert.
		if _, err := s.repomanager.Cards(tx).GetByID(ctx, cardID); err != nil {
			return nil, err
		}
		created, err := s.repomanager.Comments(tx).Create(ctx, comment)
		if err != nil {
			return nil, err
		}
		created.User, err = ownerSummary(ctx, s.repomanager, tx, callerID)
		if err != nil {
			return nil, err
		}
		return created, nil
	})
}

func (s *CommentService) Update(ctx context.Context, callerID, cardID, commentID int64, message string) (*models.Comment, error) {
	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Comment, error) {
		repo := s.repomanager.Comments(tx)

		current, err := repo.GetForUpdate(ctx, cardID, commentID)
		if err != nil {
			return nil, err
		}
		if !s.guard.Bind(tx).Authorize(ctx, callerID, current.UserID) {
			return nil, &common.ForbiddenError{Action: "update this comment"}
		}

		updated, err := repo.Update(ctx, commentID, message)
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

func (s *CommentService) Delete(ctx context.Context, callerID, cardID, commentID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Comments(tx)

		current, err := repo.GetForUpdate(ctx, cardID, commentID)
		if err != nil {
			return err
		}
		if !s.guard.Bind(tx).Authorize(ctx, callerID, current.UserID) {
			return &common.ForbiddenError{Action: "delete this comment"}
		}
		return repo.Delete(ctx, commentID)
	})
}
