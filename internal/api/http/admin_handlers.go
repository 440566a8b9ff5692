package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Barbenshi/HOD/internal/audit"
	auth "github.com/Barbenshi/HOD/internal/auth/middleware"
	"github.com/Barbenshi/HOD/internal/quiz"
)

// Auditor is the slice of the audit log the authoring handlers need.
type Auditor interface {
	Append(ctx context.Context, e audit.Event) error
}

func logEvent(a Auditor, ctx context.Context, action, key string, data any) {
	if a == nil {
		return
	}
	var raw string
	if data != nil {
		if buf, err := json.Marshal(data); err == nil {
			raw = string(buf)
		}
	}
	e := audit.Event{Actor: auth.SubjectFromContext(ctx), Action: action, Key: key, DataJSON: raw}
	if err := a.Append(ctx, e); err != nil {
		// The write that triggered the event already succeeded; don't fail it.
		log.Printf("audit append failed: %v", err)
	}
}

func CreateCaseHandler(store quiz.Store, a Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c quiz.Case
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		out, err := store.PutCase(r.Context(), c)
		if err != nil {
			writeErr(w, err)
			return
		}
		logEvent(a, r.Context(), "case.insert", out.ID, out)
		writeJSON(w, http.StatusCreated, out)
	}
}

func UpdateCaseHandler(store quiz.Store, a Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c quiz.Case
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		c.ID = chi.URLParam(r, "caseID")
		out, err := store.UpdateCase(r.Context(), c)
		if err != nil {
			writeErr(w, err)
			return
		}
		logEvent(a, r.Context(), "case.update", out.ID, out)
		writeJSON(w, http.StatusOK, out)
	}
}

func DeleteCaseHandler(store quiz.Store, a Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "caseID")
		if err := store.DeleteCase(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		logEvent(a, r.Context(), "case.delete", id, nil)
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
	}
}

// ListQuestionsAdminHandler returns full questions, correctness included.
func ListQuestionsAdminHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID := chi.URLParam(r, "caseID")
		if _, err := store.GetCase(r.Context(), caseID); err != nil {
			writeErr(w, err)
			return
		}
		qs, err := store.ListQuestions(r.Context(), caseID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if qs == nil {
			qs = []quiz.Question{}
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func CreateQuestionHandler(store quiz.Store, a Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q.CaseID = chi.URLParam(r, "caseID")
		out, err := store.InsertQuestion(r.Context(), q)
		if err != nil {
			writeErr(w, err)
			return
		}
		logEvent(a, r.Context(), "question.insert", out.ID, out)
		writeJSON(w, http.StatusCreated, out)
	}
}

func UpdateQuestionHandler(store quiz.Store, a Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q.ID = chi.URLParam(r, "questionID")
		out, err := store.UpdateQuestion(r.Context(), q)
		if err != nil {
			writeErr(w, err)
			return
		}
		logEvent(a, r.Context(), "question.update", out.ID, out)
		writeJSON(w, http.StatusOK, out)
	}
}

func DeleteQuestionHandler(store quiz.Store, a Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		if err := store.DeleteQuestion(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		logEvent(a, r.Context(), "question.delete", id, nil)
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
	}
}

// ReorderHandler applies the full id permutation produced by a completed
// drag-and-drop. Partial lists are rejected and the prior order kept.
func ReorderHandler(store quiz.Store, a Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID := chi.URLParam(r, "caseID")
		var req struct {
			QuestionIDs []string `json:"question_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := store.Reorder(r.Context(), caseID, req.QuestionIDs); err != nil {
			writeErr(w, err)
			return
		}
		logEvent(a, r.Context(), "case.reorder", caseID, req)
		qs, err := store.ListQuestions(r.Context(), caseID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

// RecentEventsHandler exposes the authoring audit trail.
func RecentEventsHandler(repo *audit.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := repo.Recent(r.Context(), 100)
		if err != nil {
			writeErr(w, err)
			return
		}
		if events == nil {
			events = []audit.Event{}
		}
		writeJSON(w, http.StatusOK, events)
	}
}
