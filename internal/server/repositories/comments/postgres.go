// Package comments provides PostgreSQL-backed storage for card comments.
package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/dmitrijs2005/cardtrack/internal/dbx"
	"github.com/dmitrijs2005/cardtrack/internal/server/models"
)

const selectWithAuthor = `
	SELECT m.id, m.message, m.date, m.card_id, m.user_id, u.name, u.email
	FROM comments m
	JOIN users u ON u.id = m.user_id
`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the comment and fills ID and Date. A card or author that
// does not exist is reported as *common.NotFoundError.
func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (message, card_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, date
	`
	err := r.db.QueryRowContext(ctx, query,
		dbx.NullIfEmpty(comment.Message), comment.CardID, comment.UserID,
	).Scan(&comment.ID, &comment.Date)
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return comment, nil
}

// ListByCard returns the comments of a card in the order they were written.
func (r *PostgresRepository) ListByCard(ctx context.Context, cardID int64) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, selectWithAuthor+` WHERE m.card_id = $1 ORDER BY m.id`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to select comments: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Comment, 0)
	for rows.Next() {
		c, err := scanWithAuthor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the comment only when it belongs to cardID.
func (r *PostgresRepository) GetByID(ctx context.Context, cardID, id int64) (*models.Comment, error) {
	c, err := scanWithAuthor(r.db.QueryRowContext(ctx, selectWithAuthor+` WHERE m.id = $1 AND m.card_id = $2`, id, cardID))
	if err != nil {
		return nil, notFound(err, id)
	}
	return c, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, cardID, id int64) (*models.Comment, error) {
	query := `
		SELECT id, message, date, card_id, user_id
		FROM comments WHERE id = $1 AND card_id = $2
		FOR UPDATE
	`
	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id, cardID).Scan(&c.ID, &c.Message, &c.Date, &c.CardID, &c.UserID)
	if err != nil {
		return nil, notFound(err, id)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, message string) (*models.Comment, error) {
	query := `
		UPDATE comments SET message = $2
		WHERE id = $1
		RETURNING id, message, date, card_id, user_id
	`
	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id, dbx.NullIfEmpty(message)).Scan(&c.ID, &c.Message, &c.Date, &c.CardID, &c.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &common.NotFoundError{Entity: "Comment", ID: id}
		}
		return nil, dbx.Wrap(err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return &common.NotFoundError{Entity: "Comment", ID: id}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWithAuthor(s scanner) (*models.Comment, error) {
	c := &models.Comment{User: &models.UserSummary{}}
	if err := s.Scan(&c.ID, &c.Message, &c.Date, &c.CardID, &c.UserID, &c.User.Name, &c.User.Email); err != nil {
		return nil, err
	}
	c.User.ID = c.UserID
	return c, nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &common.NotFoundError{Entity: "Comment", ID: id}
	}
	return fmt.Errorf("db error: %w", err)
}
