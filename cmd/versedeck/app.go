package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/versedeck/internal/adapters/secondary/config"
	"github.com/fredcamaral/versedeck/internal/adapters/secondary/parser"
	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
	"github.com/fredcamaral/versedeck/internal/domain/services"
)

// app carries what every command needs once configuration is loaded.
type app struct {
	cfg    *entities.Config
	logger *slog.Logger
	fs     ports.FileSystem
	close  func() error
}

// loadApp resolves configuration for dir and builds the logger.
func loadApp(cmd *cobra.Command, dir string, flags map[string]interface{}) (*app, error) {
	loader := config.NewTOMLLoader()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loader = config.NewTOMLLoaderWithPath(path)
	}

	if flags == nil {
		flags = map[string]interface{}{}
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		flags["verbose"] = true
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		flags["log-level"] = level
	}

	svc := services.NewConfigService(loader, config.NewConfigMerger())
	cfg, err := svc.LoadConfig(cmd.Context(), dir, flags)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", slog.Any("sources", svc.Sources()))

	return &app{cfg: cfg, logger: logger, fs: ports.NewRealFileSystem(), close: closeLog}, nil
}

// newLogger builds a slog logger from the [logging] section.
func newLogger(cfg entities.LoggingConfig, stderr io.Writer) (*slog.Logger, func() error, error) {
	var level slog.Level
	switch cfg.GetLevel() {
	case entities.LogLevelDebug:
		level = slog.LevelDebug
	case entities.LogLevelWarn:
		level = slog.LevelWarn
	case entities.LogLevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := stderr
	closeFn := func() error { return nil }
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 - log path comes from config
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out, closeFn = f, f.Close
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(out, opts)
	}
	return slog.New(handler), closeFn, nil
}

// readInputs parses the annotated text and the page-structure script.
func (a *app) readInputs(ctx context.Context, inputPath, structurePath string) (*entities.Document, *entities.Structure, error) {
	raw, err := a.fs.ReadFile(inputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading input: %w", err)
	}
	doc, err := parser.NewAnnotatedTextParser(a.logger).Parse(ctx, raw)
	if err != nil {
		return nil, nil, withSource(err, inputPath)
	}

	raw, err = a.fs.ReadFile(structurePath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading page structure: %w", err)
	}
	structure, err := parser.NewStructureParser(a.logger).Parse(ctx, raw)
	if err != nil {
		return nil, nil, withSource(err, structurePath)
	}

	return doc, structure, nil
}

// request assembles a generator request from the loaded configuration.
func (a *app) request(doc *entities.Document, structure *entities.Structure) services.GenerateRequest {
	return services.GenerateRequest{
		Document:  doc,
		Structure: structure,
		Variables: a.cfg.Variables,
		Verse:     a.cfg.Verse,
		Template:  a.cfg.Template,
	}
}

func withSource(err error, path string) error {
	var pe *entities.ParseError
	if errors.As(err, &pe) && pe.Source == "" {
		pe.Source = filepath.Base(path)
	}
	return err
}

// printWarnings lists warnings on stderr, one per line.
func printWarnings(w io.Writer, warnings []entities.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
