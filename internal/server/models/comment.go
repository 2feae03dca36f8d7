package models

import "time"

// Comment belongs to a card and is written by a user. Deleting the card
// deletes its comments.
type Comment struct {
	ID      int64
	Message string
	Date    time.Time
	CardID  int64
	UserID  int64

	User *UserSummary
}
