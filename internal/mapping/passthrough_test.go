package mapping

import (
	"context"
	"reflect"
	"testing"
)

func TestPassthroughResolve(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		keys       []string
		includeMP4 bool
		want       []FileMapping
		dataParsed bool
	}{
		{
			name:       "mp4 excluded",
			prefix:     "g/",
			keys:       []string{"g/a.mp4", "g/b.jpg"},
			includeMP4: false,
			want:       []FileMapping{{Original: "b.jpg", New: "b.jpg"}},
			dataParsed: true,
		},
		{
			name:       "mp4 included",
			prefix:     "g/",
			keys:       []string{"g/a.mp4", "g/b.jpg"},
			includeMP4: true,
			want: []FileMapping{
				{Original: "a.mp4", New: "a.mp4"},
				{Original: "b.jpg", New: "b.jpg"},
			},
			dataParsed: true,
		},
		{
			name:       "markers and hidden files dropped",
			prefix:     "g/",
			keys:       []string{"g/", "g/.DS_Store", "g/sub/", "g/file.srt"},
			includeMP4: true,
			want:       []FileMapping{{Original: "file.srt", New: "file.srt"}},
			dataParsed: true,
		},
		{
			name:       "nothing survives",
			prefix:     "g/",
			keys:       []string{"g/", "g/.hidden"},
			includeMP4: true,
			want:       nil,
			dataParsed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Passthrough{IncludeMP4: tt.includeMP4}
			plan, err := r.Resolve(context.Background(), tt.prefix, tt.keys)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !reflect.DeepEqual(plan.Mappings, tt.want) {
				t.Errorf("Mappings = %v, want %v", plan.Mappings, tt.want)
			}
			if plan.DataParsed != tt.dataParsed {
				t.Errorf("DataParsed = %v, want %v", plan.DataParsed, tt.dataParsed)
			}
		})
	}
}

func TestIncludeKey(t *testing.T) {
	tests := []struct {
		key        string
		includeMP4 bool
		want       bool
	}{
		{"g/a.mp4", true, true},
		{"g/a.mp4", false, false},
		{"g/b.jpg", false, true},
		{"g/", true, false},
		{"g/sub/", true, false},
		{"g/.hidden", true, false},
		{"g/visible.srt", true, true},
	}

	for _, tt := range tests {
		if got := IncludeKey("g/", tt.key, tt.includeMP4); got != tt.want {
			t.Errorf("IncludeKey(%q, mp4=%v) = %v, want %v", tt.key, tt.includeMP4, got, tt.want)
		}
	}
}
