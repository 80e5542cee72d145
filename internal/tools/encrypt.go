package tools

import "context"

// Encrypt password-protects PDFs via qpdf.
type Encrypt struct {
	runner *Runner
	bin    string
}

// NewEncrypt returns an Encrypt adapter. QPDF_BIN overrides the binary.
func NewEncrypt(runner *Runner) *Encrypt {
	return &Encrypt{
		runner: runner,
		bin:    Binary("QPDF_BIN", "qpdf"),
	}
}

// Protect writes an AES-256 encrypted copy of inputPath to outputPath.
// The same password is used for user and owner; callers must reject empty
// passwords before getting here.
func (t *Encrypt) Protect(ctx context.Context, inputPath, outputPath, password string) error {
	args := []string{"--encrypt", password, password, "256", "--", inputPath, outputPath}

	if err := t.runner.Run(ctx, "qpdf", t.bin, args); err != nil {
		return err
	}
	return requireOutput("qpdf", outputPath)
}
