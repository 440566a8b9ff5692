package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Barbenshi/HOD/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the core's error taxonomy onto distinguishable HTTP
// responses: fix-your-input (validation) vs retry-later (store) vs
// authoring defect (integrity) stay separate kinds.
func writeErr(w http.ResponseWriter, err error) {
	var (
		ve *quiz.ValidationError
		ie *quiz.IntegrityError
		se *quiz.StoreError
		te *quiz.IllegalTransitionError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "validation", "message": ve.Invariant,
		})
	case errors.Is(err, quiz.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	case errors.Is(err, quiz.ErrIncompleteResponse):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": "incomplete_response",
		})
	case errors.As(err, &ie):
		// Content-authoring defect; never ordinary "incorrect" feedback.
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "content_defect", "question_id": ie.QuestionID, "message": ie.Reason,
		})
	case errors.As(err, &se):
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "store", "message": se.Error(),
		})
	case errors.As(err, &te):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "illegal_transition", "message": te.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
}
