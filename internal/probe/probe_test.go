package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	ffprobe "gopkg.in/vansante/go-ffprobe.v2"

	"pegascrape/internal/logging"
)

func fakeProber(data *ffprobe.ProbeData, err error) *Prober {
	return &Prober{
		probe: func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error) {
			return data, err
		},
		log: logging.Discard(),
	}
}

func TestTechnicalClassification(t *testing.T) {
	tests := []struct {
		name  string
		video *ffprobe.Stream
		audio *ffprobe.Stream
		want  TechnicalInfo
	}{
		{
			name:  "FullHDSurround",
			video: &ffprobe.Stream{CodecType: "video", CodecName: "h264", Width: 1920, Height: 1080, DisplayAspectRatio: "16:9"},
			audio: &ffprobe.Stream{CodecType: "audio", CodecName: "ac3", Channels: 6},
			want:  TechnicalInfo{Codec: "H264", Resolution: "1080 HD", Aspect: "16:9", Audio: "DOLBY 5.1"},
		},
		{
			name:  "HDStereo",
			video: &ffprobe.Stream{CodecType: "video", CodecName: "hevc", Width: 1280, Height: 720},
			audio: &ffprobe.Stream{CodecType: "audio", CodecName: "aac", Channels: 2},
			want:  TechnicalInfo{Codec: "HEVC", Resolution: "720 HD", Aspect: "1.85:1", Audio: "Stereo"},
		},
		{
			name:  "SDMono",
			video: &ffprobe.Stream{CodecType: "video", CodecName: "mpeg4", Width: 720, Height: 480, DisplayAspectRatio: "4:3"},
			audio: &ffprobe.Stream{CodecType: "audio", CodecName: "mp3", Channels: 1},
			want:  TechnicalInfo{Codec: "MPEG4", Resolution: "SD", Aspect: "4:3", Audio: "Mono"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := &ffprobe.ProbeData{Streams: []*ffprobe.Stream{tt.video, tt.audio}}
			got := fakeProber(data, nil).Technical(context.Background(), "movie.mkv")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Technical() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTechnicalDegradesToUnknown(t *testing.T) {
	want := TechnicalInfo{Codec: "Unknown", Resolution: "Unknown", Aspect: "Unknown", Audio: "Unknown"}

	t.Run("ProbeError", func(t *testing.T) {
		got := fakeProber(nil, errors.New("boom")).Technical(context.Background(), "movie.mkv")
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Technical() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("MissingAudioStream", func(t *testing.T) {
		data := &ffprobe.ProbeData{Streams: []*ffprobe.Stream{
			{CodecType: "video", CodecName: "h264", Width: 1920, Height: 1080},
		}}
		got := fakeProber(data, nil).Technical(context.Background(), "movie.mkv")
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Technical() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDuration(t *testing.T) {
	data := &ffprobe.ProbeData{Format: &ffprobe.Format{DurationSeconds: 7080.42}}
	got, err := fakeProber(data, nil).Duration(context.Background(), "movie.mkv")
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if got != 7080 {
		t.Errorf("Duration() = %d, want 7080", got)
	}
}

func TestDurationErrors(t *testing.T) {
	if _, err := fakeProber(nil, errors.New("boom")).Duration(context.Background(), "movie.mkv"); err == nil {
		t.Error("Duration() succeeded on probe error, want error")
	}
	if _, err := fakeProber(&ffprobe.ProbeData{}, nil).Duration(context.Background(), "movie.mkv"); err == nil {
		t.Error("Duration() succeeded without format data, want error")
	}
}
