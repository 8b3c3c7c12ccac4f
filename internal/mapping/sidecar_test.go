package mapping

import (
	"strings"
	"testing"
)

func TestFindSidecar(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{
			name: "first csv in listing order",
			keys: []string{"g/a.mp4", "g/meta.csv", "g/other.csv"},
			want: "g/meta.csv",
		},
		{
			name: "hidden csv skipped",
			keys: []string{"g/.meta.csv", "g/real.csv"},
			want: "g/real.csv",
		},
		{
			name: "directory markers skipped",
			keys: []string{"g/", "g/sub.csv/"},
			want: "",
		},
		{
			name: "none",
			keys: []string{"g/a.mp4", "g/b.jpg"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindSidecar("g/", tt.keys); got != tt.want {
				t.Errorf("FindSidecar = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRows(t *testing.T) {
	input := "Program Type,Movie/Show Title,Production Year\n" +
		"movie, Star's Wars ,1977\n" +
		"show,Deep Space\n"

	rows, err := ParseRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if rows[0]["movie_show_title"] != "Star's Wars" {
		t.Errorf("cell not trimmed: %q", rows[0]["movie_show_title"])
	}
	if rows[0]["production_year"] != "1977" {
		t.Errorf("production_year = %q", rows[0]["production_year"])
	}

	// Short row: missing columns present with empty values.
	if v, ok := rows[1]["production_year"]; !ok || v != "" {
		t.Errorf("short row should fill missing columns with \"\", got %q ok=%v", v, ok)
	}
}

func TestParseRowsEmpty(t *testing.T) {
	rows, err := ParseRows(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if rows != nil {
		t.Errorf("empty input should yield nil rows, got %v", rows)
	}
}

func TestParseRowsHeaderOnly(t *testing.T) {
	rows, err := ParseRows(strings.NewReader("A,B,C\n"))
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("header-only input should yield no rows, got %v", rows)
	}
}
