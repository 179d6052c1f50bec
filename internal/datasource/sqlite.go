package datasource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/orbital/pkg/model"
)

// loadSQLite reads the technologies table from a SQLite database. The
// database is opened read-only; orbital never writes to a data source.
//
// Expected schema:
//
//	CREATE TABLE technologies (
//	    id          TEXT PRIMARY KEY,
//	    name        TEXT NOT NULL,
//	    category    TEXT NOT NULL,
//	    related_ids TEXT,            -- JSON array of ids, may be NULL
//	    notes       TEXT,
//	    url         TEXT
//	);
func loadSQLite(ctx context.Context, path string) ([]model.Item, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)&_pragma=query_only(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, category,
		       COALESCE(related_ids, ''),
		       COALESCE(notes, ''),
		       COALESCE(url, '')
		FROM technologies
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying technologies: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		var related string
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &related, &it.Notes, &it.URL); err != nil {
			return nil, fmt.Errorf("scanning technology row: %w", err)
		}
		if related != "" {
			if err := json.Unmarshal([]byte(related), &it.RelatedIDs); err != nil {
				return nil, fmt.Errorf("technology %s: bad related_ids: %w", it.ID, err)
			}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading technologies: %w", err)
	}
	return items, nil
}
