package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/receiving/pkg/application/dto"
	"github.com/vsinha/receiving/pkg/application/services"
	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/infrastructure/logging"
	testhelpers "github.com/vsinha/receiving/pkg/infrastructure/testing"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger, err := logging.NewWithOutput("error", "json", io.Discard)
	require.NoError(t, err)

	store := testhelpers.BuildBarDeliveryTestData()
	service := services.NewReceivingService(store, store, store, nil, nil, logger)
	return NewRouter(service, logger)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestRouter_MatchThenVariance(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/received/"+testhelpers.BarReceivedID+"/match/"+testhelpers.BarPurchaseOrderID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, map[string]any{"path": testhelpers.BarDocumentPath}, body["document"])
	matched := body["matched_po"].(map[string]any)
	assert.Equal(t, testhelpers.BarPurchaseOrderID, matched["id"])
	variance := body["variance"].(map[string]any)
	assert.Equal(t, map[string]any{
		"matched": 1.0, "short": 1.0, "over": 1.0, "missing": 1.0, "extra": 1.0,
	}, variance["summary"])
	assert.Len(t, variance["items"], 5)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/received/"+testhelpers.BarReceivedID+"/variance", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decodeBody(t, rec)
	assert.Equal(t, body, stored)
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t)

	testCases := []struct {
		name   string
		method string
		path   string
	}{
		{"unknown received record", http.MethodPost, "/received/rcv-missing/match/" + testhelpers.BarPurchaseOrderID},
		{"unknown purchase order", http.MethodPost, "/received/" + testhelpers.BarReceivedID + "/match/po-missing"},
		{"variance of unknown record", http.MethodGet, "/received/rcv-missing/variance"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

type brokenService struct{}

func (brokenService) ReconcileAndSave(ctx context.Context, receivedID, poID string) (*dto.MatchOutcome, error) {
	return nil, errors.New("connection refused")
}

func (brokenService) Variance(ctx context.Context, receivedID string) (entities.VarianceDocument, error) {
	return nil, errors.New("connection refused")
}

func TestRouter_InternalError(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	router := NewRouter(brokenService{}, logger)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/received/a/match/b", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decodeBody(t, rec)["error"])
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/received/a/match/b", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
