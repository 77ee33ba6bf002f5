package dataset

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/fieldguide/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_File(t *testing.T) {
	path := testutil.WriteFile(t, "issues.json", testutil.SampleJSON)

	ds, err := Load(context.Background(), Options{Location: path, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	assert.Equal(t, path, ds.Source)
	assert.Equal(t, FormatJSON, ds.Format)
	assert.Equal(t, 7, ds.Len())
	first, ok := ds.First()
	require.True(t, ok)
	assert.Equal(t, "Code", first.Names()[0])
}

func TestLoad_FileURL(t *testing.T) {
	path := testutil.WriteFile(t, "issues.csv", testutil.SampleCSV)

	ds, err := Load(context.Background(), Options{Location: "file://" + path})
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, ds.Format)
	assert.Equal(t, 3, ds.Len())
}

func TestLoad_ExplicitFormat(t *testing.T) {
	path := testutil.WriteFile(t, "issues.txt", "- Category: Plumbing\n  Sub issue: Leak\n")

	ds, err := Load(context.Background(), Options{Location: path, Format: "yaml"})
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, ds.Format)
	assert.Equal(t, "Plumbing", ds.Records[0].Value("Category"))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(context.Background(), Options{})
	assert.ErrorContains(t, err, "location is required")

	_, err = Load(context.Background(), Options{Location: filepath.Join(dir, "missing.json")})
	assert.ErrorContains(t, err, "open dataset")

	empty := testutil.WriteFile(t, "empty.json", "[]")
	_, err = Load(context.Background(), Options{Location: empty})
	assert.ErrorIs(t, err, ErrEmptyDataset)

	big := testutil.WriteFile(t, "big.json", testutil.SampleJSON)
	_, err = Load(context.Background(), Options{Location: big, MaxBytes: 16})
	assert.ErrorContains(t, err, "exceeds 16 bytes")

	_, err = Load(context.Background(), Options{Location: big, Format: "xml"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name        string
		explicit    string
		file        string
		contentType string
		head        string
		want        string
	}{
		{name: "explicit wins", explicit: "csv", file: "a.json", want: FormatCSV},
		{name: "explicit yml alias", explicit: "yml", want: FormatYAML},
		{name: "json extension", file: "a.JSON", want: FormatJSON},
		{name: "yaml extension", file: "dir/a.yml", want: FormatYAML},
		{name: "csv extension", file: "a.csv", want: FormatCSV},
		{name: "content type csv", file: "/export", contentType: "text/csv; charset=utf-8", want: FormatCSV},
		{name: "content type yaml", contentType: "application/yaml", want: FormatYAML},
		{name: "sniff array", head: "  [ {}", want: FormatJSON},
		{name: "sniff object", head: "\n{", want: FormatJSON},
		{name: "sniff yaml", head: "rows:\n", want: FormatYAML},
		{name: "empty body", want: FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFormat(tt.explicit, tt.file, tt.contentType, []byte(tt.head))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "application/json")
		switch r.URL.Path {
		case "/issues":
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(testutil.SampleCSV))
		case "/slow":
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	client := srv.Client()
	defer client.CloseIdleConnections()

	t.Run("content type picks decoder", func(t *testing.T) {
		ds, err := Load(context.Background(), Options{Location: srv.URL + "/issues", HTTPClient: client})
		require.NoError(t, err)
		assert.Equal(t, FormatCSV, ds.Format)
		assert.Equal(t, 3, ds.Len())
		assert.Equal(t, srv.URL+"/issues", ds.Source)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		_, err := Load(context.Background(), Options{Location: srv.URL + "/missing", HTTPClient: client})
		assert.ErrorContains(t, err, "unexpected status 404")
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := Load(context.Background(), Options{Location: srv.URL + "/slow", HTTPClient: client, Timeout: 50 * time.Millisecond})
		assert.ErrorContains(t, err, "fetch dataset")
	})
}

func TestLoad_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE issues (code TEXT, category TEXT, sub_issue TEXT, support_action TEXT, qty INTEGER, note TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO issues VALUES
		('S-12', 'Plumbing', 'Leak', 'Replace seal', 2, NULL),
		('S-20', 'Cooling', 'Noise', 'Clean fan', 1, 'dusty')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	t.Run("table from query", func(t *testing.T) {
		ds, err := Load(context.Background(), Options{Location: "sqlite://" + path + "?table=issues"})
		require.NoError(t, err)
		assert.Equal(t, FormatSQL, ds.Format)
		require.Equal(t, 2, ds.Len())
		assert.Equal(t, []string{"code", "category", "sub_issue", "support_action", "qty", "note"}, ds.Records[0].Names())
		assert.Equal(t, "2", ds.Records[0].Value("qty"))
		assert.Equal(t, "", ds.Records[0].Value("note"))
		assert.Equal(t, "dusty", ds.Records[1].Value("note"))
		assert.True(t, strings.HasSuffix(ds.Source, "#issues"))
	})

	t.Run("table option", func(t *testing.T) {
		ds, err := Load(context.Background(), Options{Location: "sqlite://" + path, Table: "issues"})
		require.NoError(t, err)
		assert.Equal(t, 2, ds.Len())
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := Load(context.Background(), Options{Location: "sqlite://" + path})
		assert.ErrorIs(t, err, ErrInvalidTable)
	})
}

func TestQueryTable_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"category", "sub_issue", "spare"}).
		AddRow("Plumbing", []byte("Leak"), nil).
		AddRow("Cooling", "Noise", "Fan")
	mock.ExpectQuery(`SELECT \* FROM public\.issues`).WillReturnRows(rows)

	records, err := QueryTable(context.Background(), db, "public.issues")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Leak", records[0].Value("sub_issue"))
	assert.Equal(t, "", records[0].Value("spare"))
	assert.Equal(t, "Fan", records[1].Value("spare"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryTable_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT \* FROM issues`).WillReturnRows(sqlmock.NewRows([]string{"category"}))

	_, err = QueryTable(context.Background(), db, "issues")
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestQueryTable_RejectsUnsafeNames(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, name := range []string{"", "issues; DROP TABLE x", "a.b.c", "1issues", `"quoted"`} {
		_, err := QueryTable(context.Background(), db, name)
		assert.ErrorIs(t, err, ErrInvalidTable, "table %q", name)
	}
}

func TestRedactLocation(t *testing.T) {
	assert.Equal(t, "postgres://guide:xxxxx@db/issues", redactLocation("postgres://guide:secret@db/issues"))
	assert.Equal(t, "./issues.json", redactLocation("./issues.json"))
}
