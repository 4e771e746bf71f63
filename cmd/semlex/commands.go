package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semlex/api"
	"github.com/c360studio/semlex/config"
	"github.com/c360studio/semlex/entityschema"
	"github.com/c360studio/semlex/export"
	"github.com/c360studio/semlex/lexeme"
	"github.com/c360studio/semlex/view"
)

// withApp loads the config, starts the app, runs fn and shuts the app down.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	cfg, _, err := c.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app := NewApp(cfg, c.logger)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer app.Shutdown(ctx)

	return fn(ctx, app)
}

func serveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()
			return c.serve(cmd)
		},
	}
}

func (c *cli) serve(cmd *cobra.Command) error {
	cfg, watchPath, err := c.loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := NewApp(cfg, c.logger)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer app.Shutdown(context.Background())

	if watchPath != "" {
		watcher, err := config.NewWatcher(watchPath, func(next *config.Config) {
			if err := app.services.Reload(next); err != nil {
				c.logger.Warn("Config reload rejected", "error", err)
			}
		}, c.logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	mux := http.NewServeMux()
	app.handler.RegisterHTTPHandlers(cfg.HTTP.Prefix, mux)
	mux.Handle("/metrics", app.handler.MetricsHandler())

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("Semlex ready", "version", Version, "addr", cfg.HTTP.Addr, "prefix", cfg.HTTP.Prefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		c.logger.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.logger.Error("Error stopping HTTP server", "error", err)
	}

	c.logger.Info("Semlex shutdown complete")
	return nil
}

func editCmd(c *cli) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "edit <payload.json>",
		Short: "Apply a wbeditentity payload; without --id a new lexeme is created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readPayload(cmd, args[0])
			if err != nil {
				return err
			}

			return c.withApp(cmd, func(ctx context.Context, app *App) error {
				body := map[string]any{"data": data}
				if id != "" {
					body["id"] = id
				}

				result, err := app.handler.Apply(ctx, "wbeditentity", body)
				if err != nil {
					status, envelope := api.ErrorEnvelope(err)
					_ = writeIndented(cmd.OutOrStdout(), envelope)
					return fmt.Errorf("edit failed with status %d: %s", status, envelope.Error.Code)
				}
				return writeIndented(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Lexeme, form or sense id to edit")
	return cmd
}

// readPayload decodes a JSON file, or stdin for "-", keeping numbers as
// json.Number.
func readPayload(cmd *cobra.Command, path string) (any, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return data, nil
}

func showCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a lexeme, form or sense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App) error {
				out := cmd.OutOrStdout()
				switch format {
				case "json":
					entity, err := app.handler.Entity(ctx, args[0])
					if err != nil {
						return err
					}
					return writeIndented(out, entity)
				case "html", "markdown":
					html, err := app.handler.View(ctx, args[0])
					if err != nil {
						return err
					}
					if format == "html" {
						_, err = fmt.Fprintln(out, html)
						return err
					}
					md, err := view.NewMarkdownConverter().Convert(string(html))
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(out, md)
					return err
				default:
					return fmt.Errorf("unknown format %q (use html, markdown or json)", format)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format (html, markdown, json)")
	return cmd
}

func exportCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a lexeme, form or sense as RDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App) error {
				name := format
				if name == "" {
					name = app.cfg.Export.Format
				}
				f, err := export.ParseFormat(name)
				if err != nil {
					return err
				}
				out, err := app.handler.Export(ctx, args[0], f)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "RDF format (turtle, ntriples, jsonld); defaults to export.format")
	return cmd
}

func itemCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the items and properties lexemes refer to",
	}

	var labels []string
	add := &cobra.Command{
		Use:   "add <id>",
		Short: "Add or replace an item or property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := &lexeme.Item{ID: args[0], Labels: lexeme.TermList{}}
			for _, label := range labels {
				lang, text, ok := strings.Cut(label, "=")
				if !ok || lang == "" || text == "" {
					return fmt.Errorf("invalid label %q (want lang=text)", label)
				}
				item.Labels.Set(lexeme.Term{Language: lang, Text: text})
			}

			return c.withApp(cmd, func(ctx context.Context, app *App) error {
				if err := app.store.PutItem(ctx, item); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %s\n", item.ID)
				return nil
			})
		},
	}
	add.Flags().StringArrayVarP(&labels, "label", "l", nil, "Label as lang=text (repeatable)")

	cmd.AddCommand(add)
	return cmd
}

func schemaCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect EntitySchema documents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "index <file>",
		Short: "Print the search index text of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readSchema(args[0])
			if err != nil {
				return err
			}
			text, err := content.SearchIndexText()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	})

	var language string
	show := &cobra.Command{
		Use:   "show <file>",
		Short: "Render a schema as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if language == "" {
				cfg, _, err := c.loadConfig()
				if err != nil {
					return err
				}
				language = cfg.View.Language
			}
			content, err := readSchema(args[0])
			if err != nil {
				return err
			}
			html, err := entityschema.Render(content, language)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
			return err
		},
	}
	show.Flags().StringVar(&language, "language", "", "Display language; defaults to view.language")
	cmd.AddCommand(show)

	return cmd
}

func readSchema(path string) (*entityschema.Content, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	content := entityschema.NewContent(string(raw))
	if !content.IsValid() {
		return nil, fmt.Errorf("%s: %w", path, entityschema.ErrInvalidContent)
	}
	return content, nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func configCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, source, err := c.loadConfig()
			if err != nil {
				return err
			}
			if source != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n", source)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default user configuration unless it exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.NewLoader(c.logger).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cmd
}
