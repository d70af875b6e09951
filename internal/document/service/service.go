package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	docmetrics "portal/internal/document/metrics"
	"portal/internal/document/models"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
	"portal/pkg/taxid"
)

var tracer = otel.Tracer("portal/document")

// Service exposes the CUIL/CUIT codec to the portal forms. The codec itself
// never fails; this layer decides how an absent result is reported.
type Service struct {
	logger  *slog.Logger
	metrics *docmetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *docmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(opts ...Option) *Service {
	svc := &Service{}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.New(slog.DiscardHandler)
	}
	return svc
}

// Compute derives the CUIL for a national ID and category marker.
func (s *Service) Compute(ctx context.Context, nationalID, category string) (*models.Result, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "document.Compute", trace.WithAttributes(
		attribute.String("document.category", taxid.ParseCategory(category).String()),
	))
	defer span.End()

	doc, ok := taxid.Compute(nationalID, category)
	if !ok {
		s.metrics.Record(models.OperationCompute, docmetrics.OutcomeAbsent, start)
		span.SetAttributes(attribute.Bool("document.absent", true))
		s.logger.DebugContext(ctx, "cuil not computable",
			"request_id", requestcontext.RequestID(ctx),
			"national_id_digits", len(taxid.Digits(nationalID)),
		)
		if category == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "category is required")
		}
		return nil, dErrors.New(dErrors.CodeValidation, "national id must have 7 or 8 digits")
	}

	s.metrics.Record(models.OperationCompute, docmetrics.OutcomeOK, start)
	span.SetAttributes(attribute.String("document.prefix", doc.Prefix()))
	s.logger.DebugContext(ctx, "cuil computed",
		"request_id", requestcontext.RequestID(ctx),
		"document", taxid.Mask(doc.Compact()),
	)
	return models.NewResult(doc), nil
}

// Validate reports whether document is a well-formed CUIL/CUIT with a
// matching check digit.
func (s *Service) Validate(ctx context.Context, document string) *models.Validation {
	start := time.Now()
	_, span := tracer.Start(ctx, "document.Validate")
	defer span.End()

	v := &models.Validation{
		Valid:      taxid.Validate(document),
		WellFormed: len(taxid.Digits(document)) == taxid.DocumentLength,
		Formatted:  taxid.Format(document),
	}

	outcome := docmetrics.OutcomeFailed
	if v.Valid {
		outcome = docmetrics.OutcomeValid
	}
	s.metrics.Record(models.OperationValidate, outcome, start)
	span.SetAttributes(attribute.Bool("document.valid", v.Valid))
	return v
}

// Format renders document as PP-NNNNNNNN-C, echoing malformed input.
func (s *Service) Format(ctx context.Context, document string) string {
	start := time.Now()
	_, span := tracer.Start(ctx, "document.Format")
	defer span.End()

	formatted := taxid.Format(document)
	outcome := docmetrics.OutcomeOK
	if len(taxid.Digits(document)) != taxid.DocumentLength {
		outcome = docmetrics.OutcomeAbsent
	}
	s.metrics.Record(models.OperationFormat, outcome, start)
	return formatted
}

// ExtractNationalID returns the national ID embedded in a well-formed document.
func (s *Service) ExtractNationalID(ctx context.Context, document string) (string, error) {
	start := time.Now()
	_, span := tracer.Start(ctx, "document.ExtractNationalID")
	defer span.End()

	nationalID, ok := taxid.ExtractNationalID(document)
	if !ok {
		s.metrics.Record(models.OperationExtract, docmetrics.OutcomeAbsent, start)
		return "", dErrors.New(dErrors.CodeValidation, "document must have 11 digits")
	}
	s.metrics.Record(models.OperationExtract, docmetrics.OutcomeOK, start)
	return nationalID, nil
}
