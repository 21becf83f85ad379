package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stratviz-lab/stratviz/pkg/errors"
	"github.com/stratviz-lab/stratviz/pkg/plotter"
	"go.uber.org/zap"
)

// maxUploadBytes bounds PUT payload size.
const maxUploadBytes = 32 << 20

type errorResponse struct {
	RequestID string `json:"request_id"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
}

type loadRequest struct {
	Key string `json:"key"`
}

type loadResponse struct {
	LoadID string `json:"load_id"`
	Key    string `json:"key"`
}

type listResponse struct {
	Keys []string `json:"keys"`
}

func (s *Server) requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		r = r.WithContext(withRequestID(r.Context(), requestID))
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.logger.Debug("request handled",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")

	keys, err := s.client.ListDatasets(r.Context(), prefix)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if keys == nil {
		keys = []string{}
	}

	s.writeJSON(w, r, http.StatusOK, listResponse{Keys: keys})
}

func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorePutFailed, "failed to read upload body", err))
		return
	}

	if err := s.client.PutDataset(r.Context(), key, body); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, map[string]string{"key": key})
}

func (s *Server) handleLoadDataset(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, r, "invalid request body")
		return
	}

	if req.Key == "" {
		s.writeBadRequest(w, r, "key is required")
		return
	}

	loadID, err := s.client.LoadDataset(r.Context(), req.Key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, loadResponse{LoadID: loadID, Key: req.Key})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	var req plotter.PlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, r, "invalid request body")
		return
	}

	result, err := s.client.BuildPlot(r.Context(), req)
	if err != nil {
		// validation failures carry no pipeline code
		if errors.GetCode(err) == errors.ErrCodeUnknown {
			s.writeBadRequest(w, r, err.Error())
			return
		}

		s.writeError(w, r, err)

		return
	}

	s.writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Error(err),
		)
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	s.writeJSON(w, r, http.StatusBadRequest, errorResponse{
		RequestID: requestIDFrom(r.Context()),
		Code:      int(errors.ErrCodeUnknown),
		Message:   message,
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestIDFrom(r.Context())
	status := statusForError(err)

	s.logger.Warn("request failed",
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Error(err),
	)

	resp := errorResponse{
		RequestID: requestID,
		Code:      int(errors.GetCode(err)),
		Message:   err.Error(),
		Detail:    errors.GetDetail(err),
	}

	s.writeJSON(w, r, status, resp)
}

// statusForError maps pipeline error categories onto HTTP statuses. Client
// input problems are 4xx; a broken store is the only upstream failure.
func statusForError(err error) int {
	switch {
	case errors.HasCode(err, errors.ErrCodeStoreNotFound):
		return http.StatusNotFound
	case errors.IsStoreError(err):
		return http.StatusBadGateway
	case errors.IsDecodeError(err), errors.IsSchemaError(err):
		return http.StatusUnprocessableEntity
	case errors.IsMissingRequiredColumnError(err), errors.IsUnknownStrategyError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
