package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

// Supported format names.
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
	FormatSQL  = "sql"
)

// DefaultMaxBytes bounds how much of a file or HTTP body is read.
const DefaultMaxBytes int64 = 64 << 20

// Options control where and how a dataset is loaded.
type Options struct {
	// Location is a local path, file://, http(s)://, sqlite:// or postgres:// URL.
	Location string
	// Format forces the decoder for byte sources. Empty or "auto" detects it
	// from the file extension, the HTTP content type, then the first byte.
	Format string
	// Table is the table read from SQL sources. It overrides a ?table= query
	// parameter on the location.
	Table string
	// Timeout bounds HTTP fetches. Zero means 30s.
	Timeout time.Duration
	// InsecureTLS skips certificate verification for HTTPS sources.
	InsecureTLS bool
	// MaxBytes bounds byte sources. Zero means DefaultMaxBytes.
	MaxBytes int64
	// HTTPClient replaces the default client (tests).
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Load reads the dataset described by opts. It is the only blocking step of
// a guide session.
func Load(ctx context.Context, opts Options) (*Dataset, error) {
	loc := strings.TrimSpace(opts.Location)
	if loc == "" {
		return nil, errors.New("dataset location is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start := time.Now()

	var (
		ds  *Dataset
		err error
	)
	switch {
	case hasScheme(loc, "sqlite"):
		ds, err = loadSQLite(ctx, loc, opts.Table)
	case hasScheme(loc, "postgres", "postgresql"):
		ds, err = loadPostgres(ctx, loc, opts.Table)
	case hasScheme(loc, "http", "https"):
		ds, err = loadHTTP(ctx, loc, opts)
	default:
		ds, err = loadFile(loc, opts)
	}
	if err != nil {
		logger.Error("dataset load failed", "location", redactLocation(loc), "error", err)
		return nil, err
	}

	logger.Info("dataset loaded",
		"source", ds.Source,
		"format", ds.Format,
		"records", ds.Len(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return ds, nil
}

// Decode parses raw bytes with the named format (json, yaml or csv).
func Decode(r io.Reader, format string) ([]Record, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatYAML, "yml":
		return DecodeYAML(r)
	case FormatCSV:
		return DecodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func loadFile(loc string, opts Options) (*Dataset, error) {
	p := strings.TrimPrefix(loc, "file://")
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	body, err := readBounded(f, opts.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", p, err)
	}
	return decodeBytes(p, body, opts.Format, "", p)
}

func decodeBytes(source string, body []byte, explicit, contentType, name string) (*Dataset, error) {
	format, err := resolveFormat(explicit, name, contentType, body)
	if err != nil {
		return nil, err
	}
	records, err := Decode(bytes.NewReader(body), format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	return &Dataset{Source: source, Format: format, Records: records}, nil
}

func readBounded(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("dataset exceeds %d bytes", limit)
	}
	return body, nil
}

// resolveFormat picks the decoder: explicit format, then file extension,
// then content type, then the first significant byte.
func resolveFormat(explicit, name, contentType string, head []byte) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(explicit)); f {
	case "", FormatAuto:
	case FormatJSON, FormatCSV:
		return f, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, explicit)
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json"):
		return FormatJSON, nil
	case strings.Contains(ct, "yaml"):
		return FormatYAML, nil
	case strings.Contains(ct, "csv"):
		return FormatCSV, nil
	}

	trimmed := bytes.TrimLeft(head, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != '[' {
		return FormatYAML, nil
	}
	return FormatJSON, nil
}

func hasScheme(loc string, schemes ...string) bool {
	lower := strings.ToLower(loc)
	for _, s := range schemes {
		if strings.HasPrefix(lower, s+"://") {
			return true
		}
	}
	return false
}
