// Package api serves the lexeme edit modules and read endpoints over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	errs "github.com/c360studio/semstreams/errors"

	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/entitytypes"
	"github.com/c360studio/semlex/graph"
	"github.com/c360studio/semlex/lexeme"
	"github.com/c360studio/semlex/storage"
)

// maxRequestBodySize limits POST body sizes.
const maxRequestBodySize = 1 << 20 // 1 MB

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-Id"

// Handler serves the API.
type Handler struct {
	services  *entitytypes.Services
	store     storage.Store
	publisher *graph.Publisher
	logger    *slog.Logger
	metrics   *apiMetrics
	gatherer  prometheus.Gatherer
}

// NewHandler creates a handler. A nil publisher disables graph publishing;
// a nil registry uses a private one.
func NewHandler(services *entitytypes.Services, publisher *graph.Publisher, registry *prometheus.Registry, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m, err := newAPIMetrics(registry)
	if err != nil {
		return nil, err
	}
	return &Handler{
		services:  services,
		store:     services.Store,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		gatherer:  registry,
	}, nil
}

// RegisterHTTPHandlers registers all handlers under the given prefix:
//
//	POST <prefix>wbeditentity
//	POST <prefix>wbladdform
//	POST <prefix>wbleditformelements
//	POST <prefix>wblremoveform
//	POST <prefix>wbladdsense
//	POST <prefix>wbleditsenseelements
//	POST <prefix>wblremovesense
//	GET  <prefix>entity/{id}[.ttl|.nt|.jsonld]
//	GET  <prefix>view/{id}
func (h *Handler) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}

	for _, module := range Modules {
		mux.HandleFunc(prefix+module, h.edit(module))
	}
	mux.HandleFunc(prefix+"entity/", h.handleEntity(prefix+"entity/"))
	mux.HandleFunc(prefix+"view/", h.handleView(prefix+"view/"))
}

// Modules lists the edit modules in registration order.
var Modules = []string{
	"wbeditentity",
	"wbladdform",
	"wbleditformelements",
	"wblremoveform",
	"wbladdsense",
	"wbleditsenseelements",
	"wblremovesense",
}

func (h *Handler) module(name string) (editFunc, bool) {
	fn, ok := map[string]editFunc{
		"wbeditentity":         h.editEntity,
		"wbladdform":           h.addForm,
		"wbleditformelements":  h.editFormElements,
		"wblremoveform":        h.removeForm,
		"wbladdsense":          h.addSense,
		"wbleditsenseelements": h.editSenseElements,
		"wblremovesense":       h.removeSense,
	}[name]
	return fn, ok
}

// Apply runs an edit module outside HTTP with already decoded parameters.
// Numbers in body should be json.Number.
func (h *Handler) Apply(ctx context.Context, module string, body map[string]any) (any, error) {
	fn, ok := h.module(module)
	if !ok {
		return nil, fmt.Errorf("unknown module %q", module)
	}
	return fn(ctx, params(body))
}

// MetricsHandler serves the API metrics in the Prometheus text format.
func (h *Handler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})
}

// params is a decoded request body.
type params map[string]any

type editFunc func(ctx context.Context, p params) (any, error)

// edit wraps an edit module: POST only, request id, body decoding, metrics
// and the error envelope.
func (h *Handler) edit(module string) http.HandlerFunc {
	fn, _ := h.module(module)
	return func(w http.ResponseWriter, r *http.Request) {
		logger := h.requestLogger(w, r)
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		p, err := decodeParams(r)
		if err != nil {
			h.writeError(w, logger, module, err)
			return
		}

		result, err := fn(r.Context(), p)
		if err != nil {
			h.writeError(w, logger, module, err)
			return
		}

		h.metrics.edits.WithLabelValues(module, outcomeSuccess).Inc()
		logger.Info("Edit saved", "module", module)
		writeJSON(w, http.StatusOK, result)
	}
}

func (h *Handler) requestLogger(w http.ResponseWriter, r *http.Request) *slog.Logger {
	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)
	return h.logger.With("request_id", id, "path", r.URL.Path)
}

// decodeParams reads a JSON object body. Numbers stay json.Number so that
// integer checks in the deserializers see the original text.
func decodeParams(r *http.Request) (params, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		return nil, errs.WrapInvalid(err, "api", "decodeParams", "read body")
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var p params
	if err := dec.Decode(&p); err != nil {
		return nil, errs.WrapInvalid(err, "api", "decodeParams", "decode JSON body")
	}
	if p == nil {
		return nil, errs.WrapInvalid(errs.ErrInvalidData, "api", "decodeParams", "body is not an object")
	}
	return p, nil
}

// str returns a string parameter. Missing parameters are "" unless required.
func (p params) str(name string, required bool) (string, error) {
	raw, ok := p[name]
	if !ok {
		if required {
			return "", validation.Create(name).Violation(validation.JSONFieldIsRequired{Field: name})
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", validation.Create(name).Violation(validation.JSONFieldHasWrongType{Expected: "string", Given: validation.JSONType(raw)})
	}
	return s, nil
}

// data returns the required "data" parameter.
func (p params) data() (any, error) {
	raw, ok := p["data"]
	if !ok {
		return nil, validation.Create("data").Violation(validation.JSONFieldIsRequired{Field: "data"})
	}
	return raw, nil
}

// baseRevision returns the optional "baserevid" parameter.
func (p params) baseRevision() (uint64, bool, error) {
	raw, ok := p["baserevid"]
	if !ok {
		return 0, false, nil
	}
	wrongType := validation.Create("baserevid").Violation(validation.JSONFieldHasWrongType{Expected: "integer", Given: validation.JSONType(raw)})
	n, ok := raw.(json.Number)
	if !ok {
		return 0, false, wrongType
	}
	rev, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return 0, false, wrongType
	}
	return rev, true, nil
}

func (p params) lexemeID(name string) (lexeme.LexemeID, error) {
	s, err := p.str(name, true)
	if err != nil {
		return "", err
	}
	id, err := lexeme.ParseLexemeID(s)
	if err != nil {
		return "", validation.Create(name).Violation(validation.InvalidLexemeID{Given: s})
	}
	return id, nil
}

func (p params) formID(name string) (lexeme.FormID, error) {
	s, err := p.str(name, true)
	if err != nil {
		return "", err
	}
	id, err := lexeme.ParseFormID(s)
	if err != nil {
		return "", validation.Create(name).Violation(validation.InvalidFormID{Given: s})
	}
	return id, nil
}

func (p params) senseID(name string) (lexeme.SenseID, error) {
	s, err := p.str(name, true)
	if err != nil {
		return "", err
	}
	id, err := lexeme.ParseSenseID(s)
	if err != nil {
		return "", validation.Create(name).Violation(validation.InvalidSenseID{Given: s})
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
