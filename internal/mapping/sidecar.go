package mapping

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pnm-media/filmsync/internal/normalize"
	"github.com/pnm-media/filmsync/internal/store"
)

// Row is one sidecar metadata record, keyed by normalized column name
// (lowercase, underscore-separated). Cell values are trimmed.
type Row map[string]string

// FindSidecar returns the first key in listing order that is a non-hidden,
// non-directory-marker sidecar file, or "" when the group has none.
func FindSidecar(prefix string, keys []string) string {
	for _, key := range keys {
		if strings.HasSuffix(key, "/") {
			continue
		}
		if strings.HasPrefix(Relative(prefix, key), ".") {
			continue
		}
		if strings.HasSuffix(key, sidecarExtension) {
			return key
		}
	}
	return ""
}

// FetchRows streams a sidecar object from the store and parses its rows.
func FetchRows(ctx context.Context, st store.ObjectStore, key string) ([]Row, error) {
	body, err := st.FetchObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return ParseRows(body)
}

// ParseRows reads CSV records from r. The header row is normalized with an
// underscore separator ("Movie/Show Title" -> "movie_show_title"); data rows
// become trimmed string maps. Short rows leave missing columns empty; extra
// cells beyond the header are ignored.
func ParseRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	columns := normalize.Columns(header, "_")

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
