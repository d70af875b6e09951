package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portal/internal/document/models"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/httputil"
	request "portal/pkg/platform/middleware/request"
)

// Service defines the document operations the handler depends on.
type Service interface {
	Compute(ctx context.Context, nationalID, category string) (*models.Result, error)
	Validate(ctx context.Context, document string) *models.Validation
	Format(ctx context.Context, document string) string
	ExtractNationalID(ctx context.Context, document string) (string, error)
}

// Handler serves the CUIL/CUIT helper endpoints used by the portal forms.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new document Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the document routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Post("/compute", h.handleCompute)
		r.Post("/validate", h.handleValidate)
		r.Post("/format", h.handleFormat)
		r.Post("/extract", h.handleExtract)
	})
}

func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ComputeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.service.Compute(ctx, req.NationalID, req.Category)
	if err != nil {
		h.writeServiceError(ctx, w, "compute", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req models.DocumentRequest
	if !h.decodeDocument(w, r, &req) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.Validate(r.Context(), req.Document))
}

func (h *Handler) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req models.DocumentRequest
	if !h.decodeDocument(w, r, &req) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.FormatResponse{
		Formatted: h.service.Format(r.Context(), req.Document),
	})
}

func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.DocumentRequest
	if !h.decodeDocument(w, r, &req) {
		return
	}

	nationalID, err := h.service.ExtractNationalID(ctx, req.Document)
	if err != nil {
		h.writeServiceError(ctx, w, "extract", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ExtractResponse{NationalID: nationalID})
}

func (h *Handler) decodeDocument(w http.ResponseWriter, r *http.Request, req *models.DocumentRequest) bool {
	if !h.decode(w, r, req) {
		return false
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return false
	}
	return true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	ctx := r.Context()
	if err := httputil.DecodeJSON(w, r, dst); err != nil {
		h.logger.WarnContext(ctx, "invalid document request",
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
	if !dErrors.HasCode(err, dErrors.CodeValidation) {
		h.logger.ErrorContext(ctx, "document operation failed",
			"request_id", request.GetRequestID(ctx),
			"operation", op,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
