package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"portal/internal/document/handler/mocks"
	"portal/internal/document/models"
	"portal/internal/document/service"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/document-mocks.go -package=mocks Service
type DocumentHandlerSuite struct {
	suite.Suite
	router http.Handler
}

func TestDocumentHandlerSuite(t *testing.T) {
	suite.Run(t, new(DocumentHandlerSuite))
}

func (s *DocumentHandlerSuite) SetupTest() {
	s.router = newRouter(service.New())
}

func newRouter(svc Service) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func (s *DocumentHandlerSuite) TestCompute() {
	s.Run("computes cuil", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/compute", models.ComputeRequest{
			NationalID: " 20.615.977 ",
			Category:   "Masculino",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		res := testutil.UnmarshalResponse[models.Result](s.T(), rr)
		s.Equal("20206159775", res.Compact)
		s.Equal("20-20615977-5", res.Formatted)
		s.Equal(5, res.CheckDigit)
	})

	s.Run("seven digit national id falls through to 23", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/compute", models.ComputeRequest{
			NationalID: "1234567",
			Category:   "femenino",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		res := testutil.UnmarshalResponse[models.Result](s.T(), rr)
		s.Equal("23-01234567-4", res.Formatted)
	})

	s.Run("nine digits is unprocessable", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/compute", models.ComputeRequest{
			NationalID: "123456789",
			Category:   "masculino",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
	})

	s.Run("missing category is bad request", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/compute", models.ComputeRequest{
			NationalID: "20615977",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("malformed json is bad request", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/documents/compute", `{"national_id":`)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("unexpected service error is internal", func() {
		ctrl := gomock.NewController(s.T())
		mockService := mocks.NewMockService(ctrl)
		mockService.EXPECT().
			Compute(gomock.Any(), "20615977", "masculino").
			Return(nil, dErrors.Wrap(errors.New("boom"), dErrors.CodeInternal, "compute failed"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/compute", models.ComputeRequest{
			NationalID: "20615977",
			Category:   "masculino",
		})
		rr := testutil.DoRequest(newRouter(mockService), req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
		testutil.AssertNoErrorDescription(s.T(), rr)
	})
}

func (s *DocumentHandlerSuite) TestValidate() {
	tests := []struct {
		name       string
		document   string
		valid      bool
		wellFormed bool
	}{
		{"formatted", "20-20615977-5", true, true},
		{"compact", "20206159775", true, true},
		{"bad check digit", "20-12345678-9", false, true},
		{"short", "20-1234-9", false, false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/validate", models.DocumentRequest{Document: tt.document})
			rr := testutil.DoRequest(s.router, req)

			testutil.AssertStatusOK(s.T(), rr)
			res := testutil.UnmarshalResponse[models.Validation](s.T(), rr)
			s.Equal(tt.valid, res.Valid)
			s.Equal(tt.wellFormed, res.WellFormed)
		})
	}

	s.Run("empty document is bad request", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/validate", models.DocumentRequest{})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *DocumentHandlerSuite) TestFormat() {
	s.Run("formats compact", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/format", models.DocumentRequest{Document: "27123456780"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "formatted", "27-12345678-0")
	})

	s.Run("echoes malformed", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/format", models.DocumentRequest{Document: "27-1234"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "formatted", "27-1234")
	})
}

func (s *DocumentHandlerSuite) TestExtract() {
	s.Run("extracts national id", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/extract", models.DocumentRequest{Document: "20-20615977-5"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "national_id", "20615977")
	})

	s.Run("wrong length is unprocessable", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents/extract", models.DocumentRequest{Document: "20-2061597-5"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, string(dErrors.CodeValidation))
	})
}

func (s *DocumentHandlerSuite) TestRejectsNonJSON() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/documents/validate", "document=20206159775")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusUnsupportedMediaType)
}
