package models

import "time"

// Card is a task owned by exactly one user.
type Card struct {
	ID          int64
	Title       string
	Description *string
	Date        time.Time
	Status      *string
	Priority    *string
	UserID      int64

	// Read-side joins, filled by the repositories that select them.
	User     *UserSummary
	Comments []*Comment
}

// CardPatch carries a partial update; nil fields are left unchanged.
type CardPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

// Empty reports whether the patch changes nothing.
func (p CardPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil
}
