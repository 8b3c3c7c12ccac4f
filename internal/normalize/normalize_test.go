package normalize

import "testing"

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		sep  string
		want string
	}{
		{"simple", "Star Wars", ".", "star.wars"},
		{"apostrophe", "Star's Wars", ".", "stars.wars"},
		{"parens kept", "Star's Wars.(1977)", ".", "stars.wars.(1977)"},
		{"collapse runs", "a  --  b", ".", "a.b"},
		{"strip edges", "  ..hello..  ", ".", "hello"},
		{"mixed separators", "a.._b", ".", "a.b"},
		{"underscore sep", "Movie Show Title", "_", "movie_show_title"},
		{"column with slash", "Key Art 16/9 Filename", "_", "key_art_16_9_filename"},
		{"empty", "", ".", ""},
		{"only specials", "!!!", ".", ""},
		{"unicode", "Café Olé", ".", "caf.ol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.in, tt.sep); got != tt.want {
				t.Errorf("Title(%q, %q) = %q, want %q", tt.in, tt.sep, got, tt.want)
			}
		})
	}
}

func TestTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Star's Wars.(1977)",
		"  A -- Strange__Mix  ",
		"already.normalized.(2x3)",
		"",
		"...",
		"UPPER case (And) More!",
	}
	for _, in := range inputs {
		once := Title(in, ".")
		twice := Title(once, ".")
		if once != twice {
			t.Errorf("Title not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestColumns(t *testing.T) {
	got := Columns([]string{"Program Type", "Movie/Show Title", "Production Year"}, "_")
	want := []string{"program_type", "movie_show_title", "production_year"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Columns[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSubtitleLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"feature_en.srt", "en"},
		{"feature_fra.srt", "fra"},
		{"s_fr.srt", "fr"},
		{"feature.srt", "und"},
		{"feature_EN.srt", "und"},
		{"feature_e.srt", "und"},
		{"feature_en.vtt", "und"},
	}
	for _, tt := range tests {
		if got := SubtitleLanguage(tt.in); got != tt.want {
			t.Errorf("SubtitleLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"showA/", "showA"},
		{"showA/season1/", "season1"},
		{"plain", "plain"},
		{"nested/deep/leaf/", "leaf"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.in); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
