package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/auth"
	"logic-quiz-service/internal/domain"
)

// Deps are the use cases and admin settings the router serves.
type Deps struct {
	Quiz        *app.QuizService
	Admin       *app.AdminService
	Credentials auth.Credentials
	Issuer      *auth.Issuer
	Origins     []string
}

// NewRouter mounts the learner API, the websocket play loop and the admin API.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	origins := d.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		live, err := d.Quiz.LiveSessions(r.Context())
		if err != nil {
			log.Printf("count live sessions: %v", err)
			live = -1
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "liveSessions": live})
	})
	r.Get("/ws", NewWSHandler(d.Quiz).ServeWS)

	sessions := &sessionHandlers{service: d.Quiz}
	r.Route("/api/sessions", func(sr chi.Router) {
		sr.Post("/", sessions.create)
		sr.Route("/{sessionID}", func(one chi.Router) {
			one.Get("/", sessions.get)
			one.Delete("/", sessions.close)
			one.Post("/start", sessions.start)
			one.Post("/answer", sessions.answer)
			one.Post("/ack", sessions.ack)
			one.Post("/restart", sessions.restart)
			one.Post("/switch", sessions.switchLearner)
			one.Post("/finalize", sessions.finalize)
		})
	})

	admin := &adminHandlers{service: d.Admin, credentials: d.Credentials, issuer: d.Issuer}
	r.Route("/admin", func(ar chi.Router) {
		ar.Post("/login", admin.login)
		ar.Group(func(pr chi.Router) {
			pr.Use(d.Issuer.Middleware)
			pr.Get("/report", admin.report)
			pr.Get("/progress", admin.progress)
			pr.Get("/export/{set}", admin.export)
			pr.Post("/clear", admin.clear)
		})
	})
	return r
}

type errorPayload struct {
	Message string `json:"message"`
}

var errBadRequest = errors.New("malformed request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNameTooShort),
		errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, domain.ErrQuestionMismatch),
		errors.Is(err, domain.ErrUnknownRecordSet),
		errors.Is(err, domain.ErrClearNotConfirmed),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotStarted),
		errors.Is(err, domain.ErrAwaitingAck),
		errors.Is(err, domain.ErrNoFeedback),
		errors.Is(err, domain.ErrQuizFinished),
		errors.Is(err, domain.ErrNotFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decode reads an optional JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errBadRequest
	}
	return nil
}
