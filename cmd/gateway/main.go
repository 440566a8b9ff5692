package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/Barbenshi/HOD/internal/api/http"
	"github.com/Barbenshi/HOD/internal/audit"
	auth "github.com/Barbenshi/HOD/internal/auth/middleware"
	"github.com/Barbenshi/HOD/internal/config"
	"github.com/Barbenshi/HOD/internal/db"
	"github.com/Barbenshi/HOD/internal/quiz"
	"github.com/Barbenshi/HOD/internal/rbac"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh, cfg.DBDriver)
	events := audit.NewEventRepo(dbh)
	sessions := api.NewSessionRegistry()

	// --- Auth (local HMAC JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, auth.LoginOptions{
		AdminUser:     cfg.AdminUser,
		AdminPassHash: cfg.AdminPassHash,
		AllowGuests:   cfg.AllowGuestLearners,
	}))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Learner flow
		pr.With(rbac.Require("case:view")).
			Get("/cases", api.ListCasesHandler(store))
		pr.With(rbac.Require("question:view")).
			Get("/cases/{caseID}/questions", api.ListQuestionsHandler(store))
		pr.With(rbac.Require("session:create")).
			Post("/sessions", api.CreateSessionHandler(store, sessions))
		pr.With(rbac.Require("session:submit")).
			Post("/sessions/{sessionID}/submit", api.SubmitHandler(sessions))
		pr.With(rbac.Require("session:advance")).
			Post("/sessions/{sessionID}/advance", api.AdvanceHandler(sessions))
		pr.With(rbac.Require("session:retreat")).
			Post("/sessions/{sessionID}/retreat", api.RetreatHandler(sessions))
		pr.With(rbac.Require("session:summary")).
			Get("/sessions/{sessionID}/summary", api.SummaryHandler(sessions))

		// Authoring surface (admin-only by policy)
		pr.With(rbac.Require("case:create")).
			Post("/cases", api.CreateCaseHandler(store, events))
		pr.With(rbac.Require("case:update")).
			Put("/cases/{caseID}", api.UpdateCaseHandler(store, events))
		pr.With(rbac.Require("case:delete")).
			Delete("/cases/{caseID}", api.DeleteCaseHandler(store, events))

		pr.With(rbac.Require("question:list-full")).
			Get("/admin/cases/{caseID}/questions", api.ListQuestionsAdminHandler(store))
		pr.With(rbac.Require("question:create")).
			Post("/cases/{caseID}/questions", api.CreateQuestionHandler(store, events))
		pr.With(rbac.Require("question:update")).
			Put("/questions/{questionID}", api.UpdateQuestionHandler(store, events))
		pr.With(rbac.Require("question:delete")).
			Delete("/questions/{questionID}", api.DeleteQuestionHandler(store, events))
		pr.With(rbac.Require("case:reorder")).
			Post("/cases/{caseID}/reorder", api.ReorderHandler(store, events))

		pr.With(rbac.Require("audit:view")).
			Get("/admin/events", api.RecentEventsHandler(events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
