package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/redact"
)

// getPathInt64 extracts a positive integer ID from the URL path parameters.
//
// Returns:
//   - (id, nil): The parsed ID if valid
//   - (0, error): A validation error if the parameter is missing or malformed
func getPathInt64(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handlePathID extracts a path ID and writes a 400 response when it is
// invalid. The boolean reports whether the caller may continue.
func handlePathID(w http.ResponseWriter, r *http.Request, paramName string, log *slog.Logger) (int64, bool) {
	if log == nil {
		log = logger.FromContext(r.Context())
	}

	id, err := getPathInt64(r, paramName)
	if err != nil {
		log.Warn("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return 0, false
	}
	return id, true
}

// parseAndValidateRequest decodes the JSON body into req and validates it,
// writing a 400 response on failure. The boolean reports whether the caller
// may continue.
func parseAndValidateRequest(w http.ResponseWriter, r *http.Request, req interface{}, log *slog.Logger) bool {
	if log == nil {
		log = logger.FromContext(r.Context())
	}

	if err := shared.DecodeJSON(r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		HandleValidationError(w, r, err)
		return false
	}

	return true
}
