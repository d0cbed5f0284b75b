package upstream

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cineniche/cineniche/internal/genre"
	"github.com/cineniche/cineniche/internal/models"
)

// DefaultLegacyTable is the table the legacy backend kept its titles in.
const DefaultLegacyTable = "movies_titles"

// PGImporter reads titles from the legacy PostgreSQL database. Every
// column that is not a descriptive field is read as a genre flag, so the
// importer follows whatever genre columns the legacy schema has.
type PGImporter struct {
	pool  *pgxpool.Pool
	table string
}

// NewPGImporter connects to the database at connString.
func NewPGImporter(ctx context.Context, connString, table string) (*PGImporter, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to legacy database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach legacy database: %w", err)
	}
	if table == "" {
		table = DefaultLegacyTable
	}
	return &PGImporter{pool: pool, table: table}, nil
}

// FetchCatalog reads every row of the legacy table in show id order.
func (p *PGImporter) FetchCatalog(ctx context.Context) ([]*models.CatalogItem, error) {
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY show_id", pgx.Identifier{p.table}.Sanitize())
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", p.table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var items []*models.CatalogItem
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		if item := itemFromRow(columns, values); item.ShowID != "" {
			items = append(items, item)
		}
	}
	return items, rows.Err()
}

func (p *PGImporter) Close() {
	p.pool.Close()
}

// itemFromRow maps one legacy row onto a CatalogItem.
func itemFromRow(columns []string, values []any) *models.CatalogItem {
	item := &models.CatalogItem{Genres: make(map[string]int)}
	for i, col := range columns {
		if i >= len(values) {
			break
		}
		v := values[i]
		switch strings.ToLower(col) {
		case "show_id":
			item.ShowID = asString(v)
		case "type":
			item.Type = asString(v)
		case "title":
			item.Title = asString(v)
		case "director":
			item.Director = asString(v)
		case "cast":
			item.Cast = asString(v)
		case "country":
			item.Country = asString(v)
		case "release_year":
			item.ReleaseYear, _ = asInt(v)
		case "rating":
			item.Rating = asString(v)
		case "duration":
			item.Duration = asString(v)
		case "description":
			item.Description = asString(v)
		default:
			if flag, ok := asInt(v); ok {
				item.Genres[genre.Canonical(col)] = flag
			}
		}
	}
	return item
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	}
	return fmt.Sprint(v)
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case int:
		return t, true
	case float32:
		return int(t), true
	case float64:
		return int(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	}
	return 0, false
}
