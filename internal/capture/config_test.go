package capture

import (
	"errors"
	"testing"
)

func TestConfigSource(t *testing.T) {
	tests := []struct {
		name    string
		camera  int // -1 means unset
		video   string
		want    Selector
		wantErr bool
	}{
		{
			name:   "camera only",
			camera: 2,
			want:   Selector{Camera: 2, Live: true},
		},
		{
			name:   "camera zero is a valid index",
			camera: 0,
			want:   Selector{Camera: 0, Live: true},
		},
		{
			name:   "video only",
			camera: -1,
			video:  "clips/input.mp4",
			want:   Selector{Path: "clips/input.mp4"},
		},
		{
			name:    "both set",
			camera:  0,
			video:   "clips/input.mp4",
			wantErr: true,
		},
		{
			name:    "neither set",
			camera:  -1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Camera: tt.camera, Video: tt.video}

			sel, err := cfg.Source()
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Fatalf("Expected ErrUsage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Source failed: %v", err)
			}
			if sel != tt.want {
				t.Errorf("Expected selector %+v, got %+v", tt.want, sel)
			}
		})
	}
}

func TestSelectorString(t *testing.T) {
	live := Selector{Camera: 3, Live: true}
	if got := live.String(); got != "camera 3" {
		t.Errorf("Expected \"camera 3\", got %q", got)
	}
	file := Selector{Path: "clips/input.mp4"}
	if got := file.String(); got != "clips/input.mp4" {
		t.Errorf("Expected path string, got %q", got)
	}
}
