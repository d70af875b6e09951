package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portal/internal/registration/models"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/httputil"
	request "portal/pkg/platform/middleware/request"
)

// Service defines the registration operations the handler depends on.
type Service interface {
	StartDraft(ctx context.Context, kind models.Kind) (*models.Draft, error)
	GetDraft(ctx context.Context, id string) (*models.Draft, error)
	SubmitIdentity(ctx context.Context, id string, req models.IdentityRequest) (*models.Draft, error)
	SubmitContact(ctx context.Context, id string, req models.ContactRequest) (*models.Draft, error)
	Complete(ctx context.Context, id string) (*models.Registration, error)
	FindByDocument(ctx context.Context, document string) (*models.Registration, error)
}

// Handler serves the registration wizard.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the registration routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/registrations", func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Post("/drafts", h.handleStartDraft)
		r.Get("/drafts/{id}", h.handleGetDraft)
		r.Put("/drafts/{id}/identity", h.handleSubmitIdentity)
		r.Put("/drafts/{id}/contact", h.handleSubmitContact)
		r.Post("/drafts/{id}/complete", h.handleComplete)
		r.Get("/{document}", h.handleFindByDocument)
	})
}

func (h *Handler) handleStartDraft(w http.ResponseWriter, r *http.Request) {
	var req models.StartDraftRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	draft, err := h.service.StartDraft(r.Context(), models.Kind(req.Kind))
	if err != nil {
		h.writeServiceError(r.Context(), w, "start_draft", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, draft)
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.GetDraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(r.Context(), w, "get_draft", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleSubmitIdentity(w http.ResponseWriter, r *http.Request) {
	var req models.IdentityRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	draft, err := h.service.SubmitIdentity(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeServiceError(r.Context(), w, "submit_identity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	draft, err := h.service.SubmitContact(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeServiceError(r.Context(), w, "submit_contact", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	reg, err := h.service.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(r.Context(), w, "complete", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, reg)
}

func (h *Handler) handleFindByDocument(w http.ResponseWriter, r *http.Request) {
	reg, err := h.service.FindByDocument(r.Context(), chi.URLParam(r, "document"))
	if err != nil {
		h.writeServiceError(r.Context(), w, "find_by_document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	ctx := r.Context()
	if err := httputil.DecodeJSON(w, r, dst); err != nil {
		h.logger.WarnContext(ctx, "invalid registration request",
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return false
	}
	httputil.Sanitize(dst)
	return true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if de, ok := dErrors.As(err); !ok || de.Code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "registration operation failed",
			"request_id", request.GetRequestID(ctx),
			"operation", op,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
