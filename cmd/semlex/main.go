// Package main provides the semlex binary entry point.
// Semlex edits lexicographical data: lexemes with their forms and senses,
// validated change by change, stored in NATS KV or SQLite and published to
// the knowledge graph.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semlex/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semlex"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds the persistent flags shared by every subcommand.
type cli struct {
	configPath string
	logLevel   string
	logger     *slog.Logger
}

func rootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Lexicographical data editor",
		Long: `Semlex stores lexemes, forms and senses and edits them through
validated change operations.

It provides:
- An HTTP API with the wbeditentity and wbl* edit modules
- HTML, Markdown and RDF views of stored entities
- Graph publishing of saved lexemes over NATS JetStream`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.logger = newLogger(c.logLevel)
			slog.SetDefault(c.logger)
		},
	}

	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(c),
		editCmd(c),
		showCmd(c),
		exportCmd(c),
		itemCmd(c),
		schemaCmd(c),
		configCmd(c),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the explicit config file if one was given, otherwise the
// layered files. It also returns the file worth watching for reloads, which
// is "" when only defaults were used.
func (c *cli) loadConfig() (*config.Config, string, error) {
	loader := config.NewLoader(c.logger)

	var cfg *config.Config
	var err error
	if c.configPath != "" {
		cfg, err = loader.LoadPath(c.configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	return cfg, loader.WatchPath(), nil
}

func printBanner() {
	fmt.Println("╔═══════════════════════════════════════════════╗")
	fmt.Println("║             Semlex v" + Version + "                      ║")
	fmt.Println("║      Lexicographical Data Editor              ║")
	fmt.Println("╚═══════════════════════════════════════════════╝")
}
