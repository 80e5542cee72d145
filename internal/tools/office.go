package tools

import (
	"context"
	"path/filepath"
	"strings"
)

// Office converts documents between office formats and PDF by shelling out
// to LibreOffice in headless mode.
type Office struct {
	runner *Runner
	bin    string
	extra  []string
}

// NewOffice returns an Office adapter. SOFFICE_BIN overrides the binary,
// SOFFICE_ARGS appends extra flags.
func NewOffice(runner *Runner) *Office {
	return &Office{
		runner: runner,
		bin:    Binary("SOFFICE_BIN", "soffice"),
		extra:  ExtraArgs("SOFFICE_ARGS"),
	}
}

// Convert converts inputPath to the target format ("pdf", "docx", ...),
// writing into outDir. It returns the path of the produced file.
// inputPath is never modified.
func (o *Office) Convert(ctx context.Context, inputPath, outDir, format string) (string, error) {
	args := []string{"--headless", "--convert-to", format, "--outdir", outDir}
	args = append(args, o.extra...)
	args = append(args, inputPath)

	// A private HOME gives every conversion a fresh LibreOffice profile,
	// preventing lock-file conflicts between concurrent requests. outDir is
	// request-scoped scratch, so the profile is cleaned up with it.
	env := []string{
		"HOME=" + outDir,
		"UserInstallation=file://" + filepath.Join(outDir, "lo-profile"),
	}

	if err := o.runner.Run(ctx, "soffice", o.bin, args, env...); err != nil {
		return "", err
	}

	// LibreOffice names the output after the input, with the new extension.
	base := filepath.Base(inputPath)
	outName := strings.TrimSuffix(base, filepath.Ext(base)) + "." + format
	outPath := filepath.Join(outDir, outName)

	if err := requireOutput("soffice", outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
