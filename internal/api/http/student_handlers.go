package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Barbenshi/HOD/internal/quiz"
)

func ListCasesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := store.ListCases(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		if cases == nil {
			cases = []quiz.Case{}
		}
		writeJSON(w, http.StatusOK, cases)
	}
}

// ListQuestionsHandler serves a case's questions in presentation order with
// correctness fields stripped; evaluation happens server-side only.
func ListQuestionsHandler(store quiz.Store) http.HandlerFunc {
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
		out := make([]quiz.Question, 0, len(qs))
		for _, q := range qs {
			out = append(out, q.Stripped())
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type sessionView struct {
	ID       string            `json:"id"`
	State    quiz.SessionState `json:"state"`
	Cursor   int               `json:"cursor"`
	Total    int               `json:"total"`
	Question *quiz.Question    `json:"question,omitempty"`
}

func viewOf(id string, s *quiz.Session) sessionView {
	v := sessionView{ID: id, State: s.State(), Cursor: s.Cursor(), Total: s.Len()}
	if q, ok := s.Current(); ok {
		stripped := q.Stripped()
		v.Question = &stripped
	}
	return v
}

// CreateSessionHandler snapshots the case's current ordering into a new
// session. Authoring edits after this point do not reach the session.
func CreateSessionHandler(store quiz.Store, reg *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CaseID string `json:"case_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.CaseID == "" {
			http.Error(w, "case_id required", http.StatusBadRequest)
			return
		}
		if _, err := store.GetCase(r.Context(), req.CaseID); err != nil {
			writeErr(w, err)
			return
		}
		qs, err := store.ListQuestions(r.Context(), req.CaseID)
		if err != nil {
			writeErr(w, err)
			return
		}
		s := quiz.NewSession(qs)
		id := reg.Add(s)
		writeJSON(w, http.StatusCreated, viewOf(id, s))
	}
}

type submitResult struct {
	sessionView
	Verdict     quiz.Verdict `json:"verdict"`
	Explanation string       `json:"explanation,omitempty"`
}

func SubmitHandler(reg *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, ok := reg.Get(id)
		if !ok {
			writeErr(w, quiz.ErrNotFound)
			return
		}
		var resp quiz.Response
		if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q, _ := s.Current()
		v, err := s.Submit(resp)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, submitResult{
			sessionView: viewOf(id, s),
			Verdict:     v,
			Explanation: q.Explanation,
		})
	}
}

func AdvanceHandler(reg *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, ok := reg.Get(id)
		if !ok {
			writeErr(w, quiz.ErrNotFound)
			return
		}
		if err := s.Advance(); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(id, s))
	}
}

func RetreatHandler(reg *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, ok := reg.Get(id)
		if !ok {
			writeErr(w, quiz.ErrNotFound)
			return
		}
		if err := s.Retreat(); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(id, s))
	}
}

func SummaryHandler(reg *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, ok := reg.Get(id)
		if !ok {
			writeErr(w, quiz.ErrNotFound)
			return
		}
		sum, err := s.Summary()
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}
