package http

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/auth"
	"logic-quiz-service/internal/domain"
	"logic-quiz-service/internal/records"
)

type adminHandlers struct {
	service     *app.AdminService
	credentials auth.Credentials
	issuer      *auth.Issuer
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type clearRequest struct {
	Confirm bool `json:"confirm"`
}

// POST /admin/login { "username": "...", "password": "..." }
func (h *adminHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.credentials.Check(req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}
	token, expires, err := h.issuer.Issue(req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, ExpiresAt: expires})
}

// GET /admin/report?top=N
func (h *adminHandlers) report(w http.ResponseWriter, r *http.Request) {
	size := app.DefaultRankingSize
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, errBadRequest)
			return
		}
		size = n
	}
	report, err := h.service.Report(r.Context(), size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *adminHandlers) progress(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Progress(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []domain.ProgressSnapshot{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// GET /admin/export/{attempts|answers|progress}
func (h *adminHandlers) export(w http.ResponseWriter, r *http.Request) {
	set, err := records.ParseSet(chi.URLParam(r, "set"))
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), set, &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+set.FileName()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// POST /admin/clear { "confirm": true }
func (h *adminHandlers) clear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.ClearAll(r.Context(), req.Confirm); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
