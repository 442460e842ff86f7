// Package codec implements the audio transcode collaborator as an ffmpeg
// subprocess.
package codec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/voicecal/internal/core/domain"
	"github.com/custodia-labs/voicecal/internal/core/ports/driven"
)

// Ensure Transcoder implements the interface.
var _ driven.Transcoder = (*Transcoder)(nil)

// Transcoder converts uploaded audio to wav by piping it through ffmpeg.
type Transcoder struct {
	binPath string
}

// New creates a transcoder. binPath overrides the ffmpeg binary location;
// pass "" to resolve "ffmpeg" from PATH.
func New(binPath string) *Transcoder {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	return &Transcoder{binPath: binPath}
}

// ToWAV runs a stdin-to-stdout transcode of the upload into wav.
func (t *Transcoder) ToWAV(ctx context.Context, audio []byte, mediaType string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, t.binPath, transcodeArgs(mediaType)...)
	cmd.Stdin = bytes.NewReader(audio)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", domain.ErrTranscode, err, firstLine(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// transcodeArgs builds the ffmpeg invocation for a pipe-to-pipe conversion.
// The input format is declared explicitly when the media type names one,
// since a pipe gives ffmpeg no filename to probe.
func transcodeArgs(mediaType string) []string {
	args := []string{"-loglevel", "error"}
	if format := inputFormat(mediaType); format != "" {
		args = append(args, "-f", format)
	}
	args = append(args, "-i", "pipe:0", "-f", "wav", "pipe:1")
	return args
}

// inputFormat maps a declared media type to an ffmpeg demuxer name.
func inputFormat(mediaType string) string {
	switch mediaType {
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/flac":
		return "flac"
	default:
		return ""
	}
}

// firstLine trims ffmpeg's stderr down to its leading line for error
// messages.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
