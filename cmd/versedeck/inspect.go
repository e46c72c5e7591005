package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/versedeck/internal/adapters/secondary/materializer"
	"github.com/fredcamaral/versedeck/internal/adapters/secondary/pptx"
	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

var inspectFormat string

// inspectCmd lists the role slides of a template
var inspectCmd = &cobra.Command{
	Use:   "inspect <template.pptx>",
	Short: "Show role slides, text shapes and slot bindings of a template",
	Long: `List the slides of a template deck with the top offset and text of
every shape, and the shape each configured slot is bound to.

Example:
  versedeck inspect template.pptx
  versedeck inspect template.pptx --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "text", "Output format: text or yaml")
	inspectCmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Slot matching tolerance in inches (overrides config)")
}

type shapeReport struct {
	Index int     `yaml:"index"`
	Name  string  `yaml:"name"`
	Kind  string  `yaml:"kind"`
	Top   float64 `yaml:"top"`
	Text  string  `yaml:"text,omitempty"`
}

type slideReport struct {
	Number int            `yaml:"slide"`
	Role   string         `yaml:"role,omitempty"`
	Layout string         `yaml:"layout"`
	Shapes []shapeReport  `yaml:"shapes"`
	Slots  map[string]int `yaml:"slots,omitempty"`
}

type templateReport struct {
	Template string             `yaml:"template"`
	Slides   []slideReport      `yaml:"slides"`
	Warnings []entities.Warning `yaml:"warnings,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	if inspectFormat != "text" && inspectFormat != "yaml" {
		return fmt.Errorf("unsupported format %q (must be text or yaml)", inspectFormat)
	}

	a, err := loadApp(cmd, filepath.Dir(path), map[string]interface{}{"tolerance": tolerance})
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	deck, err := pptx.Open(path)
	if err != nil {
		return &entities.ConfigurationError{Message: "cannot open template " + path, Err: err}
	}
	m := materializer.NewPPTXMaterializer(deck, a.cfg.Template, a.logger)

	report := buildReport(path, deck, m)
	if inspectFormat == "yaml" {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(report)
	}

	writeReportText(cmd.OutOrStdout(), report)
	return nil
}

func buildReport(path string, deck *pptx.Deck, m *materializer.PPTXMaterializer) templateReport {
	report := templateReport{Template: path, Warnings: m.Warnings()}

	for i, slide := range deck.Slides() {
		sr := slideReport{Number: i + 1, Layout: slide.Layout()}
		for j, sh := range slide.Shapes() {
			sr.Shapes = append(sr.Shapes, shapeReport{
				Index: j,
				Name:  sh.Name,
				Kind:  sh.Kind.String(),
				Top:   sh.Frame.TopInches(),
				Text:  sh.Text(),
			})
		}

		if i < len(entities.Roles) {
			role := entities.Roles[i]
			sr.Role = role.String()
			if binding, err := m.Binding(role); err == nil {
				sr.Slots = map[string]int{}
				for _, slot := range binding.Slots() {
					ref, _ := binding.Shape(slot)
					sr.Slots[string(slot)] = ref.Index
				}
			}
		}
		report.Slides = append(report.Slides, sr)
	}

	return report
}

func writeReportText(w io.Writer, report templateReport) {
	fmt.Fprintf(w, "%s: %d slides\n", report.Template, len(report.Slides))

	for _, s := range report.Slides {
		role := s.Role
		if role == "" {
			role = "-"
		}
		fmt.Fprintf(w, "\nslide %d  role=%s  layout=%s\n", s.Number, role, s.Layout)

		bound := map[int][]string{}
		for slot, idx := range s.Slots {
			bound[idx] = append(bound[idx], slot)
		}

		for _, sh := range s.Shapes {
			slots := ""
			if names := bound[sh.Index]; len(names) > 0 {
				slots = " <- " + strings.Join(names, ", ")
			}
			text := strings.ReplaceAll(sh.Text, "\n", " / ")
			fmt.Fprintf(w, "  [%d] %-7s top=%5.2fin  %-16s %q%s\n", sh.Index, sh.Kind, sh.Top, sh.Name, text, slots)
		}
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
