package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	regmetrics "portal/internal/registration/metrics"
	"portal/internal/registration/models"
	dErrors "portal/pkg/domain-errors"
	audit "portal/pkg/platform/audit"
	"portal/pkg/platform/sentinel"
	txcontext "portal/pkg/platform/tx"
	"portal/pkg/requestcontext"
	"portal/pkg/taxid"
)

//go:generate mockgen -source=service.go -destination=mocks/store-mocks.go -package=mocks DraftStore,RegistrationStore,Auditor

var tracer = otel.Tracer("portal/registration")

// DefaultDraftTTL is used when no TTL option is given.
const DefaultDraftTTL = 30 * time.Minute

// DraftStore persists in-progress drafts. Find returns sentinel.ErrNotFound
// or sentinel.ErrExpired when the draft is gone.
type DraftStore interface {
	Save(ctx context.Context, draft *models.Draft, ttl time.Duration) error
	Find(ctx context.Context, id string) (*models.Draft, error)
	Delete(ctx context.Context, id string) error
}

// RegistrationStore persists completed registrations. Create returns
// sentinel.ErrConflict when the document is already registered.
type RegistrationStore interface {
	Create(ctx context.Context, reg *models.Registration) error
	FindByDocument(ctx context.Context, document string) (*models.Registration, error)
}

// Auditor records compliance events. Emit must fail when the event could not
// be persisted.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service drives the registration wizard.
type Service struct {
	drafts        DraftStore
	registrations RegistrationStore
	auditor       Auditor
	tx            txcontext.Runner
	logger        *slog.Logger
	metrics       *regmetrics.Metrics
	draftTTL      time.Duration
	newID         func() string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *regmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithDraftTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.draftTTL = ttl
		}
	}
}

// WithAuditor records a compliance event for every completed registration.
func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithTxRunner makes the registration insert and its audit event atomic.
func WithTxRunner(r txcontext.Runner) Option {
	return func(s *Service) {
		s.tx = r
	}
}

// WithIDGenerator overrides uuid generation for drafts and registrations.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func New(drafts DraftStore, registrations RegistrationStore, opts ...Option) *Service {
	svc := &Service{
		drafts:        drafts,
		registrations: registrations,
		draftTTL:      DefaultDraftTTL,
		newID:         uuid.NewString,
		tx:            txcontext.NoopRunner{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.New(slog.DiscardHandler)
	}
	return svc
}

// StartDraft opens a new draft at the identity step.
func (s *Service) StartDraft(ctx context.Context, kind models.Kind) (*models.Draft, error) {
	ctx, span := tracer.Start(ctx, "registration.StartDraft", trace.WithAttributes(
		attribute.String("registration.kind", string(kind)),
	))
	defer span.End()

	draft, err := models.NewDraft(s.newID(), kind, requestcontext.Now(ctx), s.draftTTL)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft, s.draftTTL); err != nil {
		return nil, s.storeError(ctx, span, "save draft", err)
	}

	s.metrics.IncDraftStarted(string(kind))
	s.logger.InfoContext(ctx, "registration draft started",
		"request_id", requestcontext.RequestID(ctx),
		"draft_id", draft.ID,
		"kind", kind,
	)
	return draft, nil
}

// GetDraft returns a live draft.
func (s *Service) GetDraft(ctx context.Context, id string) (*models.Draft, error) {
	ctx, span := tracer.Start(ctx, "registration.GetDraft")
	defer span.End()
	return s.findDraft(ctx, span, id)
}

// SubmitIdentity records the identity step. For personal drafts the CUIL is
// computed from the national ID; company drafts must supply a valid CUIT.
func (s *Service) SubmitIdentity(ctx context.Context, id string, req models.IdentityRequest) (*models.Draft, error) {
	ctx, span := tracer.Start(ctx, "registration.SubmitIdentity")
	defer span.End()

	draft, err := s.findDraft(ctx, span, id)
	if err != nil {
		return nil, err
	}

	var identity *models.Identity
	switch draft.Kind {
	case models.KindCompany:
		identity, err = models.NewCompanyIdentity(req.CUIT, req.LegalName)
	default:
		identity, err = models.NewPersonalIdentity(req.NationalID, req.Category, req.FirstName, req.LastName)
	}
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	draft.ApplyIdentity(identity, now)
	if err := s.save(ctx, span, draft, now); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "registration identity submitted",
		"request_id", requestcontext.RequestID(ctx),
		"draft_id", draft.ID,
		"document", taxid.Mask(identity.Document),
	)
	return draft, nil
}

// SubmitContact records the contact step. The identity step must be done.
func (s *Service) SubmitContact(ctx context.Context, id string, req models.ContactRequest) (*models.Draft, error) {
	ctx, span := tracer.Start(ctx, "registration.SubmitContact")
	defer span.End()

	draft, err := s.findDraft(ctx, span, id)
	if err != nil {
		return nil, err
	}
	contact, err := models.NewContact(req.Email, req.Phone)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	if err := draft.ApplyContact(contact, now); err != nil {
		return nil, err
	}
	if err := s.save(ctx, span, draft, now); err != nil {
		return nil, err
	}
	return draft, nil
}

// Complete persists a reviewed draft as a registration, audits it and
// discards the draft. A document can only be registered once.
func (s *Service) Complete(ctx context.Context, id string) (*models.Registration, error) {
	ctx, span := tracer.Start(ctx, "registration.Complete")
	defer span.End()

	draft, err := s.findDraft(ctx, span, id)
	if err != nil {
		return nil, err
	}
	reg, err := draft.Complete(s.newID(), requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.registrations.Create(ctx, reg); err != nil {
			return err
		}
		return s.auditCompleted(ctx, reg)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "document is already registered")
		}
		return nil, s.storeError(ctx, span, "create registration", err)
	}

	if err := s.drafts.Delete(ctx, draft.ID); err != nil {
		// The registration is durable; the draft will expire on its own.
		s.logger.WarnContext(ctx, "failed to delete completed draft",
			"request_id", requestcontext.RequestID(ctx),
			"draft_id", draft.ID,
			"error", err.Error(),
		)
	}

	s.metrics.IncCompleted(string(reg.Kind))
	span.SetAttributes(attribute.String("registration.kind", string(reg.Kind)))
	s.logger.InfoContext(ctx, "registration completed",
		"request_id", requestcontext.RequestID(ctx),
		"registration_id", reg.ID,
		"kind", reg.Kind,
		"document", taxid.Mask(reg.Document),
	)
	return reg, nil
}

// FindByDocument looks up a registration by CUIL/CUIT in either
// representation.
func (s *Service) FindByDocument(ctx context.Context, document string) (*models.Registration, error) {
	ctx, span := tracer.Start(ctx, "registration.FindByDocument")
	defer span.End()

	doc, ok := taxid.ParseDocumentID(document)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "document is not a valid CUIL/CUIT")
	}
	reg, err := s.registrations.FindByDocument(ctx, doc.Compact())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "registration not found")
		}
		return nil, s.storeError(ctx, span, "find registration", err)
	}
	return reg, nil
}

func (s *Service) auditCompleted(ctx context.Context, reg *models.Registration) error {
	if s.auditor == nil {
		return nil
	}
	return s.auditor.Emit(ctx, audit.Event{
		Action:        audit.ActionRegistrationCompleted,
		Timestamp:     reg.CreatedAt,
		Subject:       taxid.Mask(reg.Document),
		SubjectIDHash: audit.HashSubjectID(reg.Document),
		Decision:      string(reg.Kind),
		RequestID:     requestcontext.RequestID(ctx),
		ClientIP:      requestcontext.ClientIP(ctx),
		UserAgent:     requestcontext.UserAgent(ctx),
	})
}

func (s *Service) findDraft(ctx context.Context, span trace.Span, id string) (*models.Draft, error) {
	draft, err := s.drafts.Find(ctx, id)
	switch {
	case err == nil:
		return draft, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "draft not found")
	case errors.Is(err, sentinel.ErrExpired):
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "draft expired")
	default:
		return nil, s.storeError(ctx, span, "find draft", err)
	}
}

func (s *Service) save(ctx context.Context, span trace.Span, draft *models.Draft, now time.Time) error {
	draft.Touch(now, s.draftTTL)
	if err := s.drafts.Save(ctx, draft, s.draftTTL); err != nil {
		return s.storeError(ctx, span, "save draft", err)
	}
	return nil
}

func (s *Service) storeError(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	s.logger.ErrorContext(ctx, "registration store failure",
		"request_id", requestcontext.RequestID(ctx),
		"operation", op,
		"error", err.Error(),
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, op+" failed")
}
