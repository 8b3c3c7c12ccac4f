package mapping

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pnm-media/filmsync/internal/normalize"
	"github.com/pnm-media/filmsync/internal/store"
)

// Normalized sidecar column names.
const (
	colProgramType = "program_type"
	colTitle       = "movie_show_title"
	colYear        = "production_year"
	colEpisodeName = "episode_name"
	colSeason      = "season_number"
	colEpisode     = "episode_number"
	colMovieFile   = "movie_filename"
	colEpisodeFile = "episode_filename"
	colTrailer     = "trailer_filename"
	colMovieSubs   = "movie_subtitles_captions_filenames"
	colEpisodeSubs = "episode_subtitles_captions_filenames"
)

// The three fixed key-art columns and their destination suffixes.
var posterColumns = []struct {
	col    string
	suffix string
}{
	{"key_art_16_9_filename", "-poster.(16x9).jpg"},
	{"key_art_2_3_filename", "-poster.(2x3).jpg"},
	{"key_art_3_4_filename", "-poster.(3x4).jpg"},
}

// Structured derives local names from the group's CSV sidecar. A group
// without a usable sidecar still resolves: the plan carries an empty mapping
// set and DataParsed=false so the caller falls back to raw key counts.
type Structured struct {
	Store      store.ObjectStore
	IncludeMP4 bool
}

// Resolve locates the sidecar among the listed keys, parses its rows, and
// builds the mapping set. Sidecar fetch/parse failures are reported through
// GroupPlan.Warning rather than failing the group.
func (r *Structured) Resolve(ctx context.Context, prefix string, keys []string) (*GroupPlan, error) {
	plan := &GroupPlan{
		Prefix:      prefix,
		DisplayName: normalize.DisplayName(prefix),
	}

	sidecarKey := FindSidecar(prefix, keys)
	if sidecarKey == "" {
		return plan, nil
	}

	rows, err := FetchRows(ctx, r.Store, sidecarKey)
	if err != nil {
		plan.Warning = &ParseError{Key: sidecarKey, Err: err}
		return plan, nil
	}
	if len(rows) == 0 {
		return plan, nil
	}

	mappings, err := BuildStructuredMappings(rows, r.IncludeMP4)
	if err != nil {
		plan.Warning = &ParseError{Key: sidecarKey, Err: err}
		return plan, nil
	}

	plan.Mappings = mappings
	plan.DisplayName = displayNameFromRow(rows[0], plan.DisplayName)
	plan.DataParsed = true
	return plan, nil
}

var _ Resolver = (*Structured)(nil)

// displayNameFromRow derives the local folder name from the first sidecar
// row: "<title>.(<year>)" normalized. An absent title column falls back to
// the group's trailing path segment as the title.
func displayNameFromRow(row Row, fallbackTitle string) string {
	title, ok := row[colTitle]
	if !ok {
		title = fallbackTitle
	}
	return normalize.Title(title, ".") + ".(" + normalize.Title(row[colYear], ".") + ")"
}

// BuildStructuredMappings builds the mapping set for all sidecar rows.
//
// One seen-set of Original values spans the whole group, so a file referenced
// by several rows maps once (first wins). Subtitle language dedup is
// deliberately asymmetric, matching the upstream sidecar conventions: movie
// rows keep every subtitle file regardless of language, show rows keep only
// the first file per language per row. Show trailers are named after the
// series, not the episode.
func BuildStructuredMappings(rows []Row, includeMP4 bool) ([]FileMapping, error) {
	var mappings []FileMapping
	seen := make(map[string]bool)

	add := func(original, dest string) {
		if original == "" || seen[original] {
			return
		}
		mappings = append(mappings, FileMapping{Original: original, New: dest})
		seen[original] = true
	}

	for i, row := range rows {
		langSeen := make(map[string]bool)

		switch strings.ToLower(row[colProgramType]) {
		case "movie":
			base := normalize.Title(row[colTitle]+".("+row[colYear]+")", ".")

			if includeMP4 {
				add(row[colMovieFile], base+".mp4")
				add(row[colTrailer], base+"-trailer.mp4")
			}
			for _, p := range posterColumns {
				add(row[p.col], base+p.suffix)
			}
			for _, sub := range splitList(row[colMovieSubs]) {
				lang := normalize.SubtitleLanguage(sub)
				add(sub, base+"."+lang+".srt")
			}

		case "show":
			season, err := intField(row, colSeason)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			episode, err := intField(row, colEpisode)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}

			seriesBase := normalize.Title(row[colTitle]+".("+row[colYear]+")", ".")
			episodeBase := fmt.Sprintf("%s.s%02de%02d.%s",
				seriesBase, season, episode, normalize.Title(row[colEpisodeName], "."))

			if includeMP4 {
				add(row[colEpisodeFile], episodeBase+".mp4")
				add(row[colTrailer], seriesBase+"-trailer.mp4")
			}
			for _, p := range posterColumns {
				add(row[p.col], episodeBase+p.suffix)
			}
			for _, sub := range splitList(row[colEpisodeSubs]) {
				if seen[sub] {
					continue
				}
				lang := normalize.SubtitleLanguage(sub)
				if langSeen[lang] {
					continue
				}
				add(sub, episodeBase+"."+lang+".srt")
				langSeen[lang] = true
			}
		}
		// Rows with any other program_type contribute no mappings.
	}

	return mappings, nil
}

// splitList splits a comma-separated cell into trimmed, non-empty entries.
func splitList(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// intField parses a numeric sidecar cell. An absent column counts as zero; a
// present but unparseable value is a hard error, which aborts the sidecar
// mapping for the whole group.
func intField(row Row, col string) (int, error) {
	v, ok := row[col]
	if !ok || v == "" {
		if ok && v == "" {
			return 0, fmt.Errorf("column %s is empty", col)
		}
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return n, nil
}
