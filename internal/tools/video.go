package tools

import (
	"context"
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Video re-encodes uploaded videos via ffmpeg. The command line is built
// with ffmpeg-go and executed through the shared Runner so the invocation
// gets the same timeout and stderr handling as every other tool.
type Video struct {
	runner *Runner
}

// NewVideo returns a Video adapter. FFMPEG_BIN overrides the binary.
func NewVideo(runner *Runner) *Video {
	return &Video{runner: runner}
}

// Transcode re-encodes inputPath to outputPath with H.264/AAC at the given
// CRF quality factor (lower means better quality, sane range 18-38).
func (t *Video) Transcode(ctx context.Context, inputPath, outputPath string, crf int) error {
	cmd := ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"vcodec":  "libx264",
			"crf":     fmt.Sprintf("%d", crf),
			"preset":  "veryfast",
			"acodec":  "aac",
			"pix_fmt": "yuv420p",
		}).
		OverWriteOutput().
		Compile()

	bin := Binary("FFMPEG_BIN", cmd.Args[0])
	if err := t.runner.Run(ctx, "ffmpeg", bin, cmd.Args[1:]); err != nil {
		return err
	}
	return requireOutput("ffmpeg", outputPath)
}
