package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/versedeck/internal/adapters/secondary/docx"
	"github.com/fredcamaral/versedeck/internal/domain/services"
)

var (
	targetColor    string
	colorTolerance int
	noHeader       bool
)

// extractCmd pulls colored text out of a word-processor document
var extractCmd = &cobra.Command{
	Use:   "extract <input.docx> [output.txt]",
	Short: "Extract colored text from a .docx into annotated text",
	Long: `Keep the runs of a .docx whose color is near the target color and
write them as annotated text ready for generate.

Example:
  versedeck extract 20240107.docx
  versedeck extract 20240107.docx sermon.txt --target-color "#0000FF" --color-tolerance 40`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&targetColor, "target-color", "", "Color to extract as #RRGGBB (overrides config)")
	extractCmd.Flags().IntVar(&colorTolerance, "color-tolerance", 0, "Per-channel color tolerance 0-255 (overrides config)")
	extractCmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the variable section template")
}

// extractOutput derives <name>_extracted.txt from the input path.
func extractOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_extracted.txt"
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	output := extractOutput(inputPath)
	if len(args) == 2 {
		output = args[1]
	}

	a, err := loadApp(cmd, filepath.Dir(inputPath), map[string]interface{}{
		"target-color":    targetColor,
		"color-tolerance": colorTolerance,
		"no-header":       noHeader,
	})
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	data, err := a.fs.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	svc := services.NewExtractionService(docx.NewReader(a.logger), a.logger)
	result, err := svc.Extract(cmd.Context(), data, a.cfg.Extract)
	if err != nil {
		return err
	}

	if len(result.Blocks) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "no text colored %s found\n", a.cfg.Extract.GetTargetColor())
		return nil
	}

	if err := a.fs.WriteFile(output, []byte(result.Text), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "extracted %d blocks to %s\n", len(result.Blocks), output)
	return nil
}
