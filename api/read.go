package api

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/export"
	"github.com/c360studio/semlex/lexeme"
	"github.com/c360studio/semlex/storage"
)

// loadEntity resolves a lexeme, form or sense id to the stored entity and
// the revision of its lexeme.
func (h *Handler) loadEntity(ctx context.Context, raw string) (lexeme.Entity, *lexeme.Lexeme, uint64, error) {
	id, err := lexeme.ParseEntityID(raw)
	if err != nil {
		return nil, nil, 0, validation.Create("id").Violation(validation.InvalidLexemeID{Given: raw})
	}

	var lexemeID lexeme.LexemeID
	switch typed := id.(type) {
	case lexeme.LexemeID:
		lexemeID = typed
	case lexeme.FormID:
		lexemeID = typed.LexemeID()
	case lexeme.SenseID:
		lexemeID = typed.LexemeID()
	default:
		return nil, nil, 0, validation.Create("id").Violation(validation.InvalidLexemeID{Given: raw})
	}

	l, rev, err := h.store.GetLexeme(ctx, lexemeID)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("load %s: %w", lexemeID, err)
	}

	switch typed := id.(type) {
	case lexeme.FormID:
		f, ok := l.Form(typed)
		if !ok {
			return nil, nil, 0, fmt.Errorf("%w: %s", storage.ErrNotFound, typed)
		}
		return f, l, rev, nil
	case lexeme.SenseID:
		s, ok := l.Sense(typed)
		if !ok {
			return nil, nil, 0, fmt.Errorf("%w: %s", storage.ErrNotFound, typed)
		}
		return s, l, rev, nil
	default:
		return l, l, rev, nil
	}
}

// handleEntity serves GET <prefix>entity/{id} as JSON, or as RDF when the
// id carries a format extension.
func (h *Handler) handleEntity(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := h.requestLogger(w, r)
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		raw, ext, hasExt := strings.Cut(strings.TrimPrefix(r.URL.Path, base), ".")
		entity, _, rev, err := h.loadEntity(r.Context(), raw)
		if err != nil {
			h.writeError(w, logger, "", err)
			return
		}

		if !hasExt {
			writeJSON(w, http.StatusOK, EntityResponse{ID: raw, Revision: rev, Entity: entity})
			return
		}

		format, err := export.ParseFormat(ext)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		out, err := h.exportEntity(entity, rev, format)
		if err != nil {
			h.writeError(w, logger, "", err)
			return
		}
		info, _ := export.GetFormatInfo(format)
		w.Header().Set("Content-Type", info.MIMEType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out))
	}
}

// EntityResponse is the JSON form of a stored entity.
type EntityResponse struct {
	ID       string        `json:"id"`
	Revision uint64        `json:"lastrevid"`
	Entity   lexeme.Entity `json:"entity"`
}

func (h *Handler) exportEntity(entity lexeme.Entity, rev uint64, format export.Format) (string, error) {
	def, err := h.services.Definition(entity.EntityType())
	if err != nil {
		return "", err
	}
	entities, err := def.RDFBuilder(entity, rev)
	if err != nil {
		return "", err
	}

	exporter := export.NewRDFExporter()
	for prefix, iri := range h.services.RDF.Prefixes() {
		exporter.SetPrefix(prefix, iri)
	}
	for _, e := range entities {
		exporter.AddEntity(e)
	}
	return exporter.Export(format)
}

// handleView serves GET <prefix>view/{id}: a full page for lexemes, a
// fragment for forms and senses.
func (h *Handler) handleView(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := h.requestLogger(w, r)
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		entity, l, _, err := h.loadEntity(r.Context(), strings.TrimPrefix(r.URL.Path, base))
		if err != nil {
			h.writeError(w, logger, "", err)
			return
		}

		out, err := h.render(r.Context(), entity, l)
		if err != nil {
			h.writeError(w, logger, "", err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out))
	}
}

func (h *Handler) render(ctx context.Context, entity lexeme.Entity, l *lexeme.Lexeme) (template.HTML, error) {
	if entity.EntityType() == lexeme.EntityTypeLexeme {
		return h.services.View.Page(ctx, l)
	}
	def, err := h.services.Definition(entity.EntityType())
	if err != nil {
		return "", err
	}
	return def.View(ctx, entity)
}

// Entity loads a lexeme, form or sense by id.
func (h *Handler) Entity(ctx context.Context, id string) (*EntityResponse, error) {
	entity, _, rev, err := h.loadEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EntityResponse{ID: id, Revision: rev, Entity: entity}, nil
}

// Export serializes a lexeme, form or sense as RDF.
func (h *Handler) Export(ctx context.Context, id string, format export.Format) (string, error) {
	entity, _, rev, err := h.loadEntity(ctx, id)
	if err != nil {
		return "", err
	}
	return h.exportEntity(entity, rev, format)
}

// View renders a lexeme page or a form or sense fragment.
func (h *Handler) View(ctx context.Context, id string) (template.HTML, error) {
	entity, l, _, err := h.loadEntity(ctx, id)
	if err != nil {
		return "", err
	}
	return h.render(ctx, entity, l)
}
