package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/dmitrijs2005/cardtrack/internal/server/models"
	"github.com/dmitrijs2005/cardtrack/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func pathID(r *http.Request, name, entity string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &common.NotFoundError{Entity: entity}
	}
	return id, nil
}

func (s *HTTPServer) listCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.deps.Cards.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, newCardResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) getCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "card_id", "Card")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	card, err := s.deps.Cards.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCardDetailResponse(card))
}

func (s *HTTPServer) createCard(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerID(r.Context())

	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	in := services.CardInput{
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.Title != nil {
		in.Title = *req.Title
	}

	card, err := s.deps.Cards.Create(r.Context(), caller, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "card created", "card_id", card.ID)
	writeJSON(w, http.StatusCreated, newCardDetailResponse(card))
}

func (s *HTTPServer) updateCard(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerID(r.Context())

	id, err := pathID(r, "card_id", "Card")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	card, err := s.deps.Cards.Update(r.Context(), caller, id, models.CardPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCardResponse(card))
}

func (s *HTTPServer) deleteCard(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerID(r.Context())

	id, err := pathID(r, "card_id", "Card")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	card, err := s.deps.Cards.Delete(r.Context(), caller, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "card deleted", "card_id", id)
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Card '%s' deleted successfully", card.Title),
	})
}
