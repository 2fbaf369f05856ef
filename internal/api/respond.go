package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/logger"
	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode JSON response", zap.Error(err))
	}
}

func respondWithError(w http.ResponseWriter, err *apierrors.ApiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode())

	if encodeErr := json.NewEncoder(w).Encode(err); encodeErr != nil {
		zap.L().Error("failed to encode error response", zap.Error(encodeErr))
	}
}

// fail renders err as an ApiError and logs server side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apierrors.FromError(database.Normalize(err)).WithRequestID(requestIDFrom(r.Context()))
	if apiErr.Code >= http.StatusInternalServerError {
		logger.FromContext(r.Context(), s.logger).Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
	}
	respondWithError(w, apiErr)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, apierrors.ErrNotFoundReq("no such route").WithRequestID(requestIDFrom(r.Context())))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, apierrors.ErrMethodNotAllowed("Method not allowed").WithRequestID(requestIDFrom(r.Context())))
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierrors.Invalid("request body is empty")
		}
		return apierrors.Invalid("invalid request body: " + err.Error())
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, apierrors.Invalid("invalid " + name)
	}
	return id, nil
}

// queryLimit reads ?limit=, falling back to def and never exceeding max.
func queryLimit(r *http.Request, def, max int32) int32 {
	v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange) && v > 0:
		return max
	case err != nil || v <= 0:
		return def
	case v > int64(max):
		return max
	}
	return int32(v)
}

// parseIDList reads "1, 2,3" into ids, skipping blanks.
func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, apierrors.Invalid("invalid id list")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

type message struct {
	Message string `json:"message"`
}
