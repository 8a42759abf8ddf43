package errorhandler

import (
	"context"
	"net/http"

	"github.com/learnhub/credits-api/internal/pkg/logger"
	"github.com/learnhub/credits-api/internal/pkg/response"
)

// HandleError logs the failed request through the request-scoped logger and
// sends the error envelope. Business outcomes (4xx) are logged at warn level,
// everything else at error level.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	l := logger.FromContext(ctx)
	event := l.Error()
	if status < http.StatusInternalServerError {
		event = l.Warn()
	}

	event.
		Str("error_code", code).
		Str("error_message", message).
		Int("status_code", status).
		Err(err).
		Msg("Request error")

	response.Error(w, status, code, message)
}

// Internal logs an infrastructure failure and sends a generic 500.
// The underlying error never reaches the client.
func Internal(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	logger.LogError(ctx, err, "Request failed", "operation", operation)
	response.InternalError(w)
}

// LogValidationError logs validation errors with details
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	logger.LogWarn(ctx, "Validation error", "validation_errors", fieldErrors)
}
