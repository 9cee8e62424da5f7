package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/receiving/pkg/application/dto"
	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/repositories"
)

// ReceivingService is the part of the application layer exposed over HTTP
type ReceivingService interface {
	ReconcileAndSave(ctx context.Context, receivedID, poID string) (*dto.MatchOutcome, error)
	Variance(ctx context.Context, receivedID string) (entities.VarianceDocument, error)
}

type handler struct {
	service ReceivingService
	logger  *logrus.Logger
}

// NewRouter builds the HTTP routes for the receiving API
func NewRouter(service ReceivingService, logger *logrus.Logger) *mux.Router {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &handler{service: service, logger: logger}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	router.HandleFunc("/received/{receivedID}/match/{poID}", h.match).Methods(http.MethodPost)
	router.HandleFunc("/received/{receivedID}/variance", h.variance).Methods(http.MethodGet)
	router.Use(h.logRequests)

	return router
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *handler) match(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	outcome, err := h.service.ReconcileAndSave(r.Context(), vars["receivedID"], vars["poID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome.Document)
}

func (h *handler) variance(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Variance(r.Context(), mux.Vars(r)["receivedID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, repositories.ErrReceivedRecordNotFound),
		errors.Is(err, repositories.ErrPurchaseOrderNotFound):
		status = http.StatusNotFound
		message = err.Error()
	default:
		h.logger.WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("request")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
