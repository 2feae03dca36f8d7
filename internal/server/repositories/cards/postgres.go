// Package cards provides PostgreSQL-backed storage for cards.
package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/dmitrijs2005/cardtrack/internal/dbx"
	"github.com/dmitrijs2005/cardtrack/internal/server/models"
)

const selectWithOwner = `
	SELECT c.id, c.title, c.description, c.date, c.status, c.priority, c.user_id,
	       u.name, u.email
	FROM cards c
	JOIN users u ON u.id = c.user_id
`

// PostgresRepository implements card storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the card owned by card.UserID and fills ID and Date.
// A missing owner is reported as *common.NotFoundError, a blank title as a
// not-null *common.ConflictError.
func (r *PostgresRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	query := `
		INSERT INTO cards (title, description, status, priority, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date
	`
	err := r.db.QueryRowContext(ctx, query,
		dbx.NullIfEmpty(card.Title), card.Description, card.Status, card.Priority, card.UserID,
	).Scan(&card.ID, &card.Date)
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return card, nil
}

// List returns every card with its owner, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, selectWithOwner+` ORDER BY c.date DESC, c.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Card, 0)
	for rows.Next() {
		card, err := scanWithOwner(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	card, err := scanWithOwner(r.db.QueryRowContext(ctx, selectWithOwner+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, notFound(err, id)
	}
	return card, nil
}

// GetForUpdate loads the card and locks its row until the surrounding
// transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id int64) (*models.Card, error) {
	query := `
		SELECT id, title, description, date, status, priority, user_id
		FROM cards WHERE id = $1
		FOR UPDATE
	`
	card := &models.Card{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID, &card.Title, &card.Description, &card.Date, &card.Status, &card.Priority, &card.UserID,
	)
	if err != nil {
		return nil, notFound(err, id)
	}
	return card, nil
}

// Update applies the non-nil fields of patch and returns the stored card.
func (r *PostgresRepository) Update(ctx context.Context, id int64, patch models.CardPatch) (*models.Card, error) {
	query := `
		UPDATE cards SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			priority = COALESCE($5, priority)
		WHERE id = $1
		RETURNING id, title, description, date, status, priority, user_id
	`
	card := &models.Card{}
	err := r.db.QueryRowContext(ctx, query, id, patch.Title, patch.Description, patch.Status, patch.Priority).Scan(
		&card.ID, &card.Title, &card.Description, &card.Date, &card.Status, &card.Priority, &card.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &common.NotFoundError{Entity: "Card", ID: id}
		}
		return nil, dbx.Wrap(err)
	}
	return card, nil
}

// Delete removes the card. Its comments are removed by the cascade in the
// same statement.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return &common.NotFoundError{Entity: "Card", ID: id}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWithOwner(s scanner) (*models.Card, error) {
	card := &models.Card{User: &models.UserSummary{}}
	if err := s.Scan(
		&card.ID, &card.Title, &card.Description, &card.Date, &card.Status, &card.Priority, &card.UserID,
		&card.User.Name, &card.User.Email,
	); err != nil {
		return nil, err
	}
	card.User.ID = card.UserID
	return card, nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &common.NotFoundError{Entity: "Card", ID: id}
	}
	return fmt.Errorf("db error: %w", err)
}
