package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	// pgx driver for postgres:// sources.
	_ "github.com/jackc/pgx/v5/stdlib"
	// sqlite driver for sqlite:// sources.
	_ "modernc.org/sqlite"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// QueryTable reads every row of table. Column order becomes field order.
func QueryTable(ctx context.Context, db *sql.DB, table string) ([]Record, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table) //nolint:gosec // table name validated above
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		fields := make([]Field, len(cols))
		for i, col := range cols {
			fields[i] = Field{Name: col, Value: sqlValueString(values[i])}
		}
		records = append(records, NewRecord(fields))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return records, nil
}

func sqlValueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// loadSQLite opens sqlite://<path>[?table=name] read-only.
func loadSQLite(ctx context.Context, loc, table string) (*Dataset, error) {
	rest := loc[len("sqlite://"):]
	p, rawQuery, _ := strings.Cut(rest, "?")
	if table == "" {
		q, err := url.ParseQuery(rawQuery)
		if err != nil {
			return nil, fmt.Errorf("parse sqlite location: %w", err)
		}
		table = q.Get("table")
	}
	if table == "" {
		return nil, fmt.Errorf("%w: sqlite source needs a table (--table or ?table=)", ErrInvalidTable)
	}

	records, err := querySQL(ctx, "sqlite", "file:"+p+"?mode=ro", table)
	if err != nil {
		return nil, err
	}
	return &Dataset{Source: "sqlite://" + p + "#" + table, Format: FormatSQL, Records: records}, nil
}

// loadPostgres reads a table through the pgx database/sql driver. A ?table=
// parameter is stripped before the DSN reaches the driver.
func loadPostgres(ctx context.Context, loc, table string) (*Dataset, error) {
	u, err := url.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("parse postgres location: %w", err)
	}
	q := u.Query()
	if table == "" {
		table = q.Get("table")
	}
	q.Del("table")
	u.RawQuery = q.Encode()
	if table == "" {
		return nil, fmt.Errorf("%w: postgres source needs a table (--table or ?table=)", ErrInvalidTable)
	}

	records, err := querySQL(ctx, "pgx", u.String(), table)
	if err != nil {
		return nil, err
	}
	return &Dataset{Source: u.Redacted() + "#" + table, Format: FormatSQL, Records: records}, nil
}

func querySQL(ctx context.Context, driver, dsn, table string) ([]Record, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	defer func() { _ = db.Close() }()
	return QueryTable(ctx, db, table)
}

// redactLocation hides credentials in URL-shaped locations for logging.
func redactLocation(loc string) string {
	u, err := url.Parse(loc)
	if err != nil || u.Scheme == "" {
		return loc
	}
	return u.Redacted()
}
