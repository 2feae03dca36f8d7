package httpapi

import (
	"github.com/dmitrijs2005/cardtrack/internal/server/models"
)

const dateLayout = "2006-01-02"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type loginResponse struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Token   string `json:"token"`
}

// cardRequest serves both create and update; for updates absent fields are
// left unchanged.
type cardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

type commentRequest struct {
	Message string `json:"message"`
}

type cardResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Date        string              `json:"date"`
	Status      *string             `json:"status"`
	Priority    *string             `json:"priority"`
	User        *models.UserSummary `json:"user"`
}

type cardDetailResponse struct {
	cardResponse
	Comments []commentResponse `json:"comments"`
}

type commentResponse struct {
	ID      int64               `json:"id"`
	Message string              `json:"message"`
	Date    string              `json:"date"`
	CardID  int64               `json:"card_id"`
	User    *models.UserSummary `json:"user"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

func newCardResponse(c *models.Card) cardResponse {
	return cardResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Date:        c.Date.Format(dateLayout),
		Status:      c.Status,
		Priority:    c.Priority,
		User:        c.User,
	}
}

func newCardDetailResponse(c *models.Card) cardDetailResponse {
	return cardDetailResponse{
		cardResponse: newCardResponse(c),
		Comments:     newCommentResponses(c.Comments),
	}
}

func newCommentResponse(m *models.Comment) commentResponse {
	return commentResponse{
		ID:      m.ID,
		Message: m.Message,
		Date:    m.Date.Format(dateLayout),
		CardID:  m.CardID,
		User:    m.User,
	}
}

func newCommentResponses(ms []*models.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, newCommentResponse(m))
	}
	return out
}
