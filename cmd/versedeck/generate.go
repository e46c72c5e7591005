package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/versedeck/internal/adapters/secondary/materializer"
	"github.com/fredcamaral/versedeck/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
	"github.com/fredcamaral/versedeck/internal/domain/services"
)

var (
	templatePath string
	outputPath   string
	tolerance    float64
	refStyle     string
	watch        bool
	poll         bool
	pollInterval time.Duration
)

// generateCmd compiles an input file into a presentation
var generateCmd = &cobra.Command{
	Use:   "generate <input.txt> <structure.txt>",
	Short: "Generate a presentation from annotated text",
	Long: `Interpret the page-structure script against the annotated text and
write a presentation styled after the template's role slides.

Example:
  versedeck generate sermon.txt structure.txt -t template.pptx
  versedeck generate sermon.txt structure.txt -t template.pptx -o 0107.pptx --ref-style bracket
  versedeck generate sermon.txt structure.txt --watch`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template presentation (default: template.pptx next to the input)")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output presentation (default: input name with .pptx)")
	generateCmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Slot matching tolerance in inches (overrides config)")
	generateCmd.Flags().StringVar(&refStyle, "ref-style", "", "Verse reference style: long or bracket (overrides config)")
	generateCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate whenever the input, structure or template changes")
	generateCmd.Flags().BoolVar(&poll, "poll", false, "Poll for changes instead of using filesystem notifications")
	generateCmd.Flags().DurationVar(&pollInterval, "poll-interval", 500*time.Millisecond, "Debounce and polling interval for --watch")
}

// defaultOutput replaces the extension of input with .pptx.
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pptx"
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inputPath, structurePath := args[0], args[1]

	a, err := loadApp(cmd, filepath.Dir(inputPath), map[string]interface{}{
		"tolerance": tolerance,
		"ref-style": refStyle,
	})
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	tmpl := templatePath
	if tmpl == "" {
		tmpl = filepath.Join(filepath.Dir(inputPath), "template.pptx")
	}
	out := outputPath
	if out == "" {
		out = defaultOutput(inputPath)
	}

	gen := func(ctx context.Context) error {
		return a.generateOnce(ctx, cmd, inputPath, structurePath, tmpl, out)
	}

	if !watch {
		return gen(cmd.Context())
	}

	// a failed run keeps watching; the next save may fix it
	if err := gen(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}
	return watchAndRegenerate(cmd, newWatcher(a), gen, inputPath, structurePath, tmpl)
}

// newWatcher prefers filesystem notifications and falls back to polling.
func newWatcher(a *app) ports.FileWatcher {
	if !poll {
		w, err := watcher.NewNotifyWatcher(pollInterval, a.logger)
		if err == nil {
			return w
		}
		a.logger.Warn("file notifications unavailable, polling instead", slog.String("error", err.Error()))
	}
	return watcher.NewPollingWatcher(pollInterval, pollInterval, a.logger)
}

// watchAndRegenerate reruns gen for every change until the context is done.
func watchAndRegenerate(cmd *cobra.Command, w ports.FileWatcher, gen func(context.Context) error, paths ...string) error {
	ctx := cmd.Context()
	events, err := w.Watch(ctx, paths...)
	if err != nil {
		return fmt.Errorf("watching inputs: %w", err)
	}
	defer func() { _ = w.Stop() }()

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s (Ctrl+C to stop)\n", strings.Join(paths, ", "))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Type == ports.Removed {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s removed, waiting\n", strings.Join(ev.Paths, ", "))
				continue
			}
			if err := gen(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
		}
	}
}

// generateOnce reads the inputs and writes one presentation.
func (a *app) generateOnce(ctx context.Context, cmd *cobra.Command, inputPath, structurePath, tmpl, out string) error {
	doc, structure, err := a.readInputs(ctx, inputPath, structurePath)
	if err != nil {
		return err
	}

	req := a.request(doc, structure)
	req.TemplatePath = tmpl
	req.Output = out

	generator := services.NewGeneratorService(materializer.NewLoader(a.logger), a.logger)
	result, err := generator.Generate(ctx, req)
	if err != nil {
		return err
	}

	printWarnings(cmd.ErrOrStderr(), result.Plan.Warnings)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d slides to %s\n", result.Plan.SlideCount(), result.Output)
	return nil
}
