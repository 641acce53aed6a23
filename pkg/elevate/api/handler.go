package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-elevate/pkg/dispatch"
	"github.com/tendant/simple-elevate/pkg/elevate"
)

// Handler handles HTTP requests for session elevation
type Handler struct {
	service *elevate.Service
	chain   *dispatch.Chain
}

// NewHandler creates a new elevation handler
func NewHandler(service *elevate.Service, chain *dispatch.Chain) *Handler {
	return &Handler{
		service: service,
		chain:   chain,
	}
}

// RegisterRoutes registers the elevation routes. These routes should be
// mounted under an authenticated route group.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/elevate", h.Elevate)
	r.Post("/revert", h.Revert)
	r.Post("/exec", h.Exec)
	r.Get("/status", h.Status)
}

// ElevateRequest is the body of POST /elevate
type ElevateRequest struct {
	Username string `json:"username"`
}

// ExecRequest is the body of POST /exec
type ExecRequest struct {
	SQL string `json:"sql"`
}

// StatusResponse describes the session's elevation state
type StatusResponse struct {
	Active        bool   `json:"active"`
	EffectiveRole string `json:"effective_role"`
	Superuser     bool   `json:"superuser"`
	OriginalRole  string `json:"original_role,omitempty"`
}

// Elevate handles POST /elevate - switch the session to the named role
func (h *Handler) Elevate(w http.ResponseWriter, r *http.Request) {
	data := ElevateRequest{}
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		renderError(w, r, http.StatusBadRequest, "unable to parse body")
		return
	}
	if data.Username == "" {
		renderError(w, r, http.StatusBadRequest, "username is required")
		return
	}

	status, err := h.service.SetUser(r.Context(), &data.Username)
	if err != nil {
		slog.Error("Failed to elevate", "username", data.Username, "err", err)
		renderError(w, r, errorStatus(err), err.Error())
		return
	}

	render.JSON(w, r, map[string]string{"status": status})
}

// Revert handles POST /revert - restore the pre-elevation identity
func (h *Handler) Revert(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.SetUser(r.Context())
	if err != nil {
		slog.Error("Failed to revert", "err", err)
		renderError(w, r, errorStatus(err), err.Error())
		return
	}

	render.JSON(w, r, map[string]string{"status": status})
}

// Exec handles POST /exec - run a statement through the dispatch chain
func (h *Handler) Exec(w http.ResponseWriter, r *http.Request) {
	data := ExecRequest{}
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		renderError(w, r, http.StatusBadRequest, "unable to parse body")
		return
	}
	if data.SQL == "" {
		renderError(w, r, http.StatusBadRequest, "sql is required")
		return
	}

	stmt := dispatch.Classify(data.SQL)
	if err := h.chain.Dispatch(r.Context(), stmt); err != nil {
		slog.Error("Failed to execute statement", "err", err)
		renderError(w, r, errorStatus(err), err.Error())
		return
	}

	render.JSON(w, r, map[string]string{"status": "OK"})
}

// Status handles GET /status - report the session's elevation state
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	sess := h.service.Session()
	response := StatusResponse{
		Active:        h.service.Active(),
		EffectiveRole: sess.Effective().Name,
		Superuser:     sess.EffectiveSuperuser(),
	}
	if original, ok := h.service.OriginalIdentity(); ok {
		response.OriginalRole = original.Name
	}

	render.JSON(w, r, response)
}

func renderError(w http.ResponseWriter, r *http.Request, code int, message string) {
	render.Status(r, code)
	render.JSON(w, r, map[string]string{"error": message})
}

// errorStatus maps elevation errors to HTTP status codes. Policy
// rejections surface as 403 so clients can tell "blocked by policy"
// apart from "unknown role" and "slot misuse".
func errorStatus(err error) int {
	var policyErr elevate.PolicyBlockedError
	switch {
	case errors.As(err, &policyErr):
		return http.StatusForbidden
	case errors.Is(err, elevate.ErrUnknownIdentity):
		return http.StatusNotFound
	case errors.Is(err, elevate.ErrAlreadyElevated), errors.Is(err, elevate.ErrNotElevated):
		return http.StatusConflict
	case errors.Is(err, elevate.ErrInvalidInvocation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
