package tools

import "context"

// OCR layers recognised text under a PDF's page images via ocrmypdf.
type OCR struct {
	runner *Runner
	bin    string
	extra  []string
}

// NewOCR returns an OCR adapter. OCRMYPDF_BIN overrides the binary,
// OCRMYPDF_ARGS appends extra flags (languages, optimisation level, ...).
func NewOCR(runner *Runner) *OCR {
	return &OCR{
		runner: runner,
		bin:    Binary("OCRMYPDF_BIN", "ocrmypdf"),
		extra:  ExtraArgs("OCRMYPDF_ARGS"),
	}
}

// MakeSearchable writes a copy of inputPath with an embedded text layer to
// outputPath. Pages that already carry text are passed through unchanged.
func (t *OCR) MakeSearchable(ctx context.Context, inputPath, outputPath string) error {
	args := []string{"--skip-text"}
	args = append(args, t.extra...)
	args = append(args, inputPath, outputPath)

	if err := t.runner.Run(ctx, "ocrmypdf", t.bin, args); err != nil {
		return err
	}
	return requireOutput("ocrmypdf", outputPath)
}
