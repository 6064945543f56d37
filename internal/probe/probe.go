// Package probe reads technical stream information from local video files
// through ffprobe. It is best-effort: a file ffprobe cannot parse yields
// "Unknown" fields rather than failing the pipeline.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	ffprobe "gopkg.in/vansante/go-ffprobe.v2"
)

const unknown = "Unknown"

// TechnicalInfo holds the frontend-facing technical fields of a video file.
type TechnicalInfo struct {
	Codec      string
	Resolution string
	Aspect     string
	Audio      string
}

// probeFunc defines the function signature used to execute ffprobe.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

// Prober wraps ffprobe execution. The probe function is injectable so tests
// run without the ffprobe binary.
type Prober struct {
	probe probeFunc
	log   *slog.Logger
}

// New creates a Prober backed by the real ffprobe binary.
func New(log *slog.Logger) *Prober {
	return &Prober{probe: ffprobe.ProbeURL, log: log}
}

// Technical classifies the first video and audio streams of path. Any probe
// failure or missing stream degrades to all-Unknown.
func (p *Prober) Technical(ctx context.Context, path string) TechnicalInfo {
	info := TechnicalInfo{Codec: unknown, Resolution: unknown, Aspect: unknown, Audio: unknown}

	data, err := p.probe(ctx, path)
	if err != nil {
		p.log.Warn("ffprobe failed", "path", path, "error", err)
		return info
	}

	video := data.FirstVideoStream()
	audio := data.FirstAudioStream()
	if video == nil || audio == nil {
		p.log.Warn("ffprobe returned incomplete streams", "path", path)
		return info
	}

	info.Codec = strings.ToUpper(video.CodecName)
	info.Resolution = classifyResolution(video.Width, video.Height)
	info.Aspect = video.DisplayAspectRatio
	if info.Aspect == "" {
		info.Aspect = "1.85:1"
	}
	info.Audio = classifyAudio(audio.Channels)
	return info
}

// Duration returns the container duration of path in whole seconds. Used as
// the fallback when the catalog reports no runtime.
func (p *Prober) Duration(ctx context.Context, path string) (int, error) {
	data, err := p.probe(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}
	if data.Format == nil || data.Format.DurationSeconds <= 0 {
		return 0, fmt.Errorf("probe %s: no duration reported", path)
	}
	return int(data.Format.DurationSeconds), nil
}

func classifyResolution(width, height int) string {
	switch {
	case width >= 1920 || height >= 1080:
		return "1080 HD"
	case width >= 1280 || height >= 720:
		return "720 HD"
	default:
		return "SD"
	}
}

func classifyAudio(channels int) string {
	switch {
	case channels >= 6:
		return "DOLBY 5.1"
	case channels >= 2:
		return "Stereo"
	default:
		return "Mono"
	}
}
