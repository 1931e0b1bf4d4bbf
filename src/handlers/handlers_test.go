package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/pfolio/backend/src/config"
	"github.com/username/pfolio/backend/src/logger"
	"github.com/username/pfolio/backend/src/models"
	"github.com/username/pfolio/backend/src/services"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

type stubPipelineService struct {
	result      *services.PipelineResult
	err         error
	invalidated bool
	reportDate  *time.Time
}

func (s *stubPipelineService) Run(ctx context.Context, reportDate *time.Time) (*services.PipelineResult, error) {
	s.reportDate = reportDate
	return s.result, s.err
}

func (s *stubPipelineService) Invalidate() { s.invalidated = true }

type stubSecurityService struct {
	byISIN map[string]models.Security
	err    error
}

func (s *stubSecurityService) LoadSecurities() error { return nil }

func (s *stubSecurityService) MapISINToSecurity() (map[string]models.Security, error) {
	return s.byISIN, s.err
}

func (s *stubSecurityService) MapNameToISIN() (map[string]string, error) {
	return nil, s.err
}

func testRouter(pipeline *stubPipelineService, security *stubSecurityService) http.Handler {
	cfg := &config.AppConfig{Location: time.UTC}
	return NewRouter(NewPipelineHandler(pipeline, cfg), NewSecurityHandler(security))
}

func emptyResult() *services.PipelineResult {
	return &services.PipelineResult{
		Transactions: []models.Transaction{{Name: "Fund A", Broker: "Avanza"}},
	}
}

func TestGetTransactions(t *testing.T) {
	pipeline := &stubPipelineService{result: emptyResult()}
	router := testRouter(pipeline, &stubSecurityService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Fund A", got[0].Name)
}

func TestGetTransactionsWithReportDate(t *testing.T) {
	pipeline := &stubPipelineService{result: emptyResult()}
	router := testRouter(pipeline, &stubSecurityService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions?report_date=2024-06-30", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, pipeline.reportDate)
	assert.Equal(t, 2024, pipeline.reportDate.Year())
	assert.Equal(t, time.June, pipeline.reportDate.Month())
	zone, _ := pipeline.reportDate.Zone()
	assert.NotEmpty(t, zone)
}

func TestGetTransactionsRejectsBadReportDate(t *testing.T) {
	router := testRouter(&stubPipelineService{result: emptyResult()}, &stubSecurityService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions?report_date=30-06-2024", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPipelineErrorYields500(t *testing.T) {
	pipeline := &stubPipelineService{err: errors.New("boom")}
	router := testRouter(pipeline, &stubSecurityService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ledger", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetSecuritiesSorted(t *testing.T) {
	security := &stubSecurityService{byISIN: map[string]models.Security{
		"SE2": {ISIN: "SE2", Name: "Zeta"},
		"SE1": {ISIN: "SE1", Name: "Alpha"},
	}}
	router := testRouter(&stubPipelineService{result: emptyResult()}, security)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/securities", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Security
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Zeta", got[1].Name)
}

func TestInvalidateCache(t *testing.T) {
	pipeline := &stubPipelineService{result: emptyResult()}
	router := testRouter(pipeline, &stubSecurityService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cache/invalidate", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, pipeline.invalidated)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(&stubPipelineService{result: emptyResult()}, &stubSecurityService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}
