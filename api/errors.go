package api

import (
	"errors"
	"log/slog"
	"net/http"

	errs "github.com/c360studio/semstreams/errors"

	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/storage"
)

// ErrorBody is the error envelope of failed requests.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure. Parameter, path and message fields are
// only set for payload validation failures.
type ErrorDetail struct {
	Code          string   `json:"code"`
	Info          string   `json:"info"`
	Parameter     string   `json:"parameter,omitempty"`
	Path          []string `json:"path,omitempty"`
	MessageKey    string   `json:"messageKey,omitempty"`
	MessageParams []string `json:"messageParams,omitempty"`
}

// classify maps an error to its HTTP status, envelope and metrics outcome.
func classify(err error) (int, ErrorDetail, string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		path := verr.Path
		if path == nil {
			path = []string{}
		}
		return http.StatusBadRequest, ErrorDetail{
			Code:          verr.Code(),
			Info:          verr.Error(),
			Parameter:     verr.Parameter,
			Path:          path,
			MessageKey:    verr.MessageKey(),
			MessageParams: verr.MessageParams(),
		}, outcomeInvalid
	case errs.IsInvalid(err):
		return http.StatusBadRequest, ErrorDetail{Code: "invalid-request", Info: err.Error()}, outcomeInvalid
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, ErrorDetail{Code: "no-such-entity", Info: err.Error()}, outcomeNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, ErrorDetail{Code: "edit-conflict", Info: err.Error()}, outcomeConflict
	default:
		return http.StatusInternalServerError, ErrorDetail{Code: "internal-error", Info: "internal error"}, outcomeError
	}
}

// ErrorEnvelope returns the HTTP status and response body for err.
func ErrorEnvelope(err error) (int, ErrorBody) {
	status, detail, _ := classify(err)
	return status, ErrorBody{Error: detail}
}

func (h *Handler) writeError(w http.ResponseWriter, logger *slog.Logger, module string, err error) {
	status, detail, outcome := classify(err)
	if module != "" {
		h.metrics.edits.WithLabelValues(module, outcome).Inc()
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		h.metrics.validationErrors.WithLabelValues(verr.Code()).Inc()
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "module", module, "error", err)
	} else {
		logger.Debug("Request rejected", "module", module, "status", status, "error", err)
	}
	writeJSON(w, status, ErrorBody{Error: detail})
}
