package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/versedeck/internal/adapters/secondary/materializer"
	"github.com/fredcamaral/versedeck/internal/adapters/secondary/parser"
	"github.com/fredcamaral/versedeck/internal/adapters/secondary/preview"
	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/services"
)

var (
	planFormat string
	planHTML   string
)

// planCmd shows what generate would produce without a template
var planCmd = &cobra.Command{
	Use:   "plan <input.txt> <structure.txt>",
	Short: "Show the slides a page structure produces",
	Long: `Interpret the page-structure script without a template and print
every slide with the text placed into each slot.

Example:
  versedeck plan sermon.txt structure.txt
  versedeck plan sermon.txt structure.txt --format yaml
  versedeck plan sermon.txt structure.txt --html preview.html`,
	Args: cobra.ExactArgs(2),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&planFormat, "format", "f", "text", "Output format: text or yaml")
	planCmd.Flags().StringVar(&planHTML, "html", "", "Also write an HTML preview to this file")
	planCmd.Flags().StringVar(&refStyle, "ref-style", "", "Verse reference style: long or bracket (overrides config)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	inputPath, structurePath := args[0], args[1]
	if planFormat != "text" && planFormat != "yaml" {
		return fmt.Errorf("unsupported format %q (must be text or yaml)", planFormat)
	}

	a, err := loadApp(cmd, filepath.Dir(inputPath), map[string]interface{}{"ref-style": refStyle})
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	doc, structure, err := a.readInputs(cmd.Context(), inputPath, structurePath)
	if err != nil {
		return err
	}

	recorder := materializer.NewRecorder(a.cfg.Template)
	plan, err := services.NewGeneratorService(nil, a.logger).Interpret(cmd.Context(), a.request(doc, structure), recorder)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if planFormat == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
	} else {
		writePlanText(out, structure, plan)
	}

	if planHTML != "" {
		page, err := preview.NewHTMLRenderer(filepath.Base(inputPath)).Render(cmd.Context(), plan)
		if err != nil {
			return err
		}
		if err := a.fs.WriteFile(planHTML, page, 0600); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "preview written to %s\n", planHTML)
	}

	return nil
}

func writePlanText(w io.Writer, structure *entities.Structure, plan *entities.Plan) {
	fmt.Fprint(w, parser.Describe(structure))
	fmt.Fprintln(w)

	for _, s := range plan.Slides {
		fmt.Fprintf(w, "%3d  %-8s (%s)\n", s.Index+1, s.Kind, s.Directive)
		for _, st := range s.Slots {
			for i, seg := range st.Segments {
				label := ""
				if i == 0 {
					label = string(st.Slot)
				}
				fmt.Fprintf(w, "     %-14s %s\n", label, seg.Text)
			}
		}
	}

	for _, warning := range plan.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
