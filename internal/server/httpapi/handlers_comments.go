package httpapi

import (
	"net/http"
)

func (s *HTTPServer) listComments(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "card_id", "Card")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	comments, err := s.deps.Comments.List(r.Context(), cardID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCommentResponses(comments))
}

func (s *HTTPServer) getComment(w http.ResponseWriter, r *http.Request) {
	cardID, commentID, err := commentPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	comment, err := s.deps.Comments.Get(r.Context(), cardID, commentID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCommentResponse(comment))
}

func (s *HTTPServer) createComment(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerID(r.Context())

	cardID, err := pathID(r, "card_id", "Card")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	comment, err := s.deps.Comments.Create(r.Context(), caller, cardID, req.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCommentResponse(comment))
}

func (s *HTTPServer) updateComment(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerID(r.Context())

	cardID, commentID, err := commentPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	comment, err := s.deps.Comments.Update(r.Context(), caller, cardID, commentID, req.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCommentResponse(comment))
}

func (s *HTTPServer) deleteComment(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerID(r.Context())

	cardID, commentID, err := commentPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.deps.Comments.Delete(r.Context(), caller, cardID, commentID); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Comment deleted successfully"})
}

func commentPath(r *http.Request) (cardID, commentID int64, err error) {
	if cardID, err = pathID(r, "card_id", "Card"); err != nil {
		return 0, 0, err
	}
	if commentID, err = pathID(r, "comment_id", "Comment"); err != nil {
		return 0, 0, err
	}
	return cardID, commentID, nil
}
