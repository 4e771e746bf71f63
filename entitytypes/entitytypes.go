// Package entitytypes wires the per-entity-type services: constructors,
// change-op deserializers, RDF builders and views for lexemes, forms and
// senses. Services are built once from configuration and passed explicitly.
package entitytypes

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/c360studio/semlex/changeop"
	"github.com/c360studio/semlex/changeop/deserialization"
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/config"
	"github.com/c360studio/semlex/export"
	"github.com/c360studio/semlex/lexeme"
	"github.com/c360studio/semlex/storage"
	"github.com/c360studio/semlex/textnorm"
	"github.com/c360studio/semlex/view"
)

// ContentModelLexeme is the content model of lexeme pages. Forms and senses
// live inside their lexeme and share it.
const ContentModelLexeme = "wikibase-lexeme"

// ErrUnknownEntityType is returned for entity types without a definition.
var ErrUnknownEntityType = errors.New("unknown entity type")

// DeserializeFunc turns an edit payload for target into a change operation.
type DeserializeFunc func(ctx context.Context, target string, value any, vc validation.Context) (changeop.ChangeOp, error)

// Definition holds the services of one entity type.
type Definition struct {
	Type                 lexeme.EntityType
	ContentModelID       string
	NewEntity            func() lexeme.Entity
	ChangeOpDeserializer DeserializeFunc
	RDFBuilder           func(e lexeme.Entity, revision uint64) ([]export.Entity, error)
	View                 func(ctx context.Context, e lexeme.Entity) (template.HTML, error)
}

// Services is the wired set of deserializers, builders and views.
type Services struct {
	TermLanguages *validation.TermLanguages
	Store         storage.Store
	Lexemes       *deserialization.LexemeDeserializer
	Forms         *deserialization.FormDeserializer
	Senses        *deserialization.SenseDeserializer
	EditForm      *deserialization.EditFormDeserializer
	EditSense     *deserialization.EditSenseDeserializer
	RDF           *export.LexemeRDFBuilder
	View          *view.LexemeView
	FormIDs       *view.FormIDFormatter

	definitions map[lexeme.EntityType]Definition
	logger      *slog.Logger
}

// NewServices builds the deserializer graph and the per-type definitions.
func NewServices(cfg *config.Config, store storage.Store, logger *slog.Logger) (*Services, error) {
	if logger == nil {
		logger = slog.Default()
	}

	languages, err := validation.NewTermLanguages(cfg.Terms.Languages)
	if err != nil {
		return nil, fmt.Errorf("term languages: %w", err)
	}

	terms := deserialization.Terms{
		Languages:  validation.LanguageValidator{Languages: languages},
		Length:     validation.LengthValidator{Max: cfg.Terms.MaxLength},
		Normalizer: textnorm.Normalizer{},
	}
	claims := deserialization.NewClaimsDeserializer(store)
	editForm := deserialization.NewEditFormDeserializer(
		deserialization.NewRepresentationsDeserializer(terms),
		deserialization.NewGrammaticalFeaturesDeserializer(store),
		claims,
	)
	editSense := deserialization.NewEditSenseDeserializer(deserialization.NewGlossesDeserializer(terms), claims)
	forms := deserialization.NewFormDeserializer(deserialization.FormIDDeserializer{}, editForm)
	senses := deserialization.NewSenseDeserializer(deserialization.SenseIDDeserializer{}, editSense)

	labels := view.NewItemLabelLookup(store, cfg.View.Language, logger)
	text := view.NewMessageTextProvider(nil)

	s := &Services{
		TermLanguages: languages,
		Store:         store,
		Lexemes: deserialization.NewLexemeDeserializer(
			deserialization.NewLemmaDeserializer(terms),
			deserialization.NewLexicalCategoryDeserializer(store),
			deserialization.NewLanguageDeserializer(store),
			claims,
			deserialization.NewFormListDeserializer(forms),
			deserialization.NewSenseListDeserializer(senses),
		),
		Forms:     forms,
		Senses:    senses,
		EditForm:  editForm,
		EditSense: editSense,
		RDF:       export.NewLexemeRDFBuilder(cfg.Export.EntityNamespace, cfg.Export.DirectClaimNamespace),
		View: view.NewLexemeView(labels, view.Options{
			Language:   cfg.View.Language,
			LinkPrefix: cfg.HTTP.Prefix + "view/",
			Text:       text,
		}),
		FormIDs: view.NewFormIDFormatter(store, labels, text, cfg.HTTP.Prefix+"view/", logger),
		logger:  logger,
	}
	s.definitions = s.buildDefinitions()
	return s, nil
}

func (s *Services) buildDefinitions() map[lexeme.EntityType]Definition {
	return map[lexeme.EntityType]Definition{
		lexeme.EntityTypeLexeme: {
			Type:           lexeme.EntityTypeLexeme,
			ContentModelID: ContentModelLexeme,
			NewEntity:      func() lexeme.Entity { return lexeme.NewLexeme("") },
			ChangeOpDeserializer: func(ctx context.Context, target string, value any, vc validation.Context) (changeop.ChangeOp, error) {
				return s.Lexemes.Deserialize(ctx, lexeme.LexemeID(target), value, vc)
			},
			RDFBuilder: func(e lexeme.Entity, revision uint64) ([]export.Entity, error) {
				l, ok := e.(*lexeme.Lexeme)
				if !ok {
					return nil, wrongType(lexeme.EntityTypeLexeme, e)
				}
				return s.RDF.Entities(l, revision), nil
			},
			View: func(ctx context.Context, e lexeme.Entity) (template.HTML, error) {
				l, ok := e.(*lexeme.Lexeme)
				if !ok {
					return "", wrongType(lexeme.EntityTypeLexeme, e)
				}
				return s.View.Render(ctx, l)
			},
		},
		lexeme.EntityTypeForm: {
			Type:           lexeme.EntityTypeForm,
			ContentModelID: ContentModelLexeme,
			NewEntity:      func() lexeme.Entity { return lexeme.BlankForm() },
			ChangeOpDeserializer: func(ctx context.Context, _ string, value any, vc validation.Context) (changeop.ChangeOp, error) {
				return s.EditForm.Deserialize(ctx, value, vc)
			},
			RDFBuilder: func(e lexeme.Entity, _ uint64) ([]export.Entity, error) {
				f, ok := e.(*lexeme.Form)
				if !ok {
					return nil, wrongType(lexeme.EntityTypeForm, e)
				}
				return s.RDF.FormEntities(f), nil
			},
			View: func(ctx context.Context, e lexeme.Entity) (template.HTML, error) {
				f, ok := e.(*lexeme.Form)
				if !ok {
					return "", wrongType(lexeme.EntityTypeForm, e)
				}
				return s.View.Forms().RenderForm(ctx, f)
			},
		},
		lexeme.EntityTypeSense: {
			Type:           lexeme.EntityTypeSense,
			ContentModelID: ContentModelLexeme,
			NewEntity:      func() lexeme.Entity { return lexeme.BlankSense() },
			ChangeOpDeserializer: func(ctx context.Context, _ string, value any, vc validation.Context) (changeop.ChangeOp, error) {
				return s.EditSense.Deserialize(ctx, value, vc)
			},
			RDFBuilder: func(e lexeme.Entity, _ uint64) ([]export.Entity, error) {
				sense, ok := e.(*lexeme.Sense)
				if !ok {
					return nil, wrongType(lexeme.EntityTypeSense, e)
				}
				return s.RDF.SenseEntities(sense), nil
			},
			View: func(ctx context.Context, e lexeme.Entity) (template.HTML, error) {
				sense, ok := e.(*lexeme.Sense)
				if !ok {
					return "", wrongType(lexeme.EntityTypeSense, e)
				}
				return s.View.Senses().RenderSense(ctx, sense)
			},
		},
	}
}

// Definition returns the services of an entity type.
func (s *Services) Definition(t lexeme.EntityType) (Definition, error) {
	d, ok := s.definitions[t]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownEntityType, t)
	}
	return d, nil
}

// Types returns the entity types that have a definition.
func (s *Services) Types() []lexeme.EntityType {
	return []lexeme.EntityType{lexeme.EntityTypeLexeme, lexeme.EntityTypeForm, lexeme.EntityTypeSense}
}

// Reload applies a changed configuration. Only the term language allowlist
// is reloadable; other settings need a restart.
func (s *Services) Reload(cfg *config.Config) error {
	if err := s.TermLanguages.Replace(cfg.Terms.Languages); err != nil {
		return fmt.Errorf("reload term languages: %w", err)
	}
	s.logger.Info("Term languages reloaded", "count", len(cfg.Terms.Languages))
	return nil
}

func wrongType(want lexeme.EntityType, got lexeme.Entity) error {
	return fmt.Errorf("%w: want %s, got %s", changeop.ErrWrongEntityType, want, got.EntityType())
}
