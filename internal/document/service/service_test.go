package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	docmetrics "portal/internal/document/metrics"
	"portal/internal/document/models"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	logs    *bytes.Buffer
	metrics *docmetrics.Metrics
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithRequestID(context.Background(), "req-1")
	s.logs = &bytes.Buffer{}
	s.metrics = docmetrics.New(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(s.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s.service = New(WithLogger(logger), WithMetrics(s.metrics))
}

func (s *ServiceSuite) TestCompute() {
	s.Run("returns both representations", func() {
		res, err := s.service.Compute(s.ctx, "20615977", "masculino")
		s.Require().NoError(err)
		s.Equal(&models.Result{
			Compact:    "20206159775",
			Formatted:  "20-20615977-5",
			Prefix:     "20",
			NationalID: "20615977",
			CheckDigit: 5,
		}, res)
	})

	s.Run("logs masked document only", func() {
		_, err := s.service.Compute(s.ctx, "20615977", "masculino")
		s.Require().NoError(err)
		s.Contains(s.logs.String(), "20-****5977-5")
		s.NotContains(s.logs.String(), "20206159775")
		s.Contains(s.logs.String(), "request_id=req-1")
	})

	s.Run("wrong length is a validation error", func() {
		_, err := s.service.Compute(s.ctx, "123456789", "masculino")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "7 or 8 digits")
	})

	s.Run("empty category is a validation error", func() {
		_, err := s.service.Compute(s.ctx, "20615977", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "category")
	})

	s.Run("records outcomes", func() {
		s.SetupTest()
		_, _ = s.service.Compute(s.ctx, "20615977", "masculino")
		_, _ = s.service.Compute(s.ctx, "1", "masculino")
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Operations.WithLabelValues(models.OperationCompute, docmetrics.OutcomeOK)))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Operations.WithLabelValues(models.OperationCompute, docmetrics.OutcomeAbsent)))
	})
}

func (s *ServiceSuite) TestValidate() {
	s.Run("valid formatted", func() {
		v := s.service.Validate(s.ctx, "20-20615977-5")
		s.Equal(&models.Validation{Valid: true, WellFormed: true, Formatted: "20-20615977-5"}, v)
	})

	s.Run("well formed but wrong check digit", func() {
		v := s.service.Validate(s.ctx, "20206159774")
		s.Equal(&models.Validation{Valid: false, WellFormed: true, Formatted: "20-20615977-4"}, v)
	})

	s.Run("malformed echoes input", func() {
		v := s.service.Validate(s.ctx, "12-34")
		s.Equal(&models.Validation{Valid: false, WellFormed: false, Formatted: "12-34"}, v)
	})
}

func (s *ServiceSuite) TestFormat() {
	s.Equal("27-12345678-0", s.service.Format(s.ctx, "27123456780"))
	s.Equal("abc", s.service.Format(s.ctx, "abc"))
}

func (s *ServiceSuite) TestExtractNationalID() {
	s.Run("well formed", func() {
		id, err := s.service.ExtractNationalID(s.ctx, "23-01234567-4")
		s.Require().NoError(err)
		s.Equal("01234567", id)
	})

	s.Run("malformed", func() {
		_, err := s.service.ExtractNationalID(s.ctx, "23-0123456-4")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestNilCollaborators() {
	svc := New()
	res, err := svc.Compute(context.Background(), "12345678", "femenino")
	s.Require().NoError(err)
	s.Equal("27-12345678-0", res.Formatted)
}
