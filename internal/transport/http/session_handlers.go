package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/domain"
)

type sessionHandlers struct {
	service *app.QuizService
}

type nameRequest struct {
	Name string `json:"name"`
}

type answerResponse struct {
	Feedback app.Feedback `json:"feedback"`
	Session  app.View     `json:"session"`
}

func (h *sessionHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.service.Open(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *sessionHandlers) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	respondView(w, view, err)
}

func (h *sessionHandlers) start(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.service.Start(r.Context(), chi.URLParam(r, "sessionID"), req.Name)
	respondView(w, view, err)
}

func (h *sessionHandlers) answer(w http.ResponseWriter, r *http.Request) {
	var req domain.AnswerSubmission
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	fb, view, err := h.service.Submit(r.Context(), chi.URLParam(r, "sessionID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Feedback: fb, Session: view})
}

func (h *sessionHandlers) ack(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Acknowledge(r.Context(), chi.URLParam(r, "sessionID"))
	respondView(w, view, err)
}

func (h *sessionHandlers) restart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Restart(r.Context(), chi.URLParam(r, "sessionID"))
	respondView(w, view, err)
}

func (h *sessionHandlers) switchLearner(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.SwitchLearner(r.Context(), chi.URLParam(r, "sessionID"))
	respondView(w, view, err)
}

func (h *sessionHandlers) finalize(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Finalize(r.Context(), chi.URLParam(r, "sessionID"))
	respondView(w, view, err)
}

func (h *sessionHandlers) close(w http.ResponseWriter, r *http.Request) {
	h.service.Close(r.Context(), chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func respondView(w http.ResponseWriter, view app.View, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
