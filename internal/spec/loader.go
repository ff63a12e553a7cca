package spec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrorCode categorizes loader and pipeline errors for clearer handling and
// messaging.
type ErrorCode string

const (
	FetchError      ErrorCode = "FetchError"
	FileError       ErrorCode = "FileError"
	ParseError      ErrorCode = "ParseError"
	DirectoryError  ErrorCode = "DirectoryError"
	GenerationError ErrorCode = "GenerationError"
)

// SpecError is a structured error with an optional source location.
type SpecError struct {
	Code     ErrorCode
	Message  string
	Location string // file path or URL
	Cause    error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds the single fetch request.
	HTTPTimeout time.Duration
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{HTTPTimeout: 30 * time.Second}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }

// IsRemote reports whether source names an http/https URL. Classification is
// purely syntactic; everything else is treated as a local filesystem path.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads a Swagger 2.0 JSON document from a local path or an http/https
// URL, parses it, and returns the normalized Document. It never returns a
// partially parsed document: any network, status, or parse failure surfaces
// as a *SpecError. One attempt per invocation, no retries, no caching.
func Load(ctx context.Context, source string, opts ...Option) (*Document, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &SpecError{Code: FileError, Message: "spec: source is empty"}
	}

	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	if IsRemote(source) {
		raw, err := fetch(ctx, source, settings)
		if err != nil {
			return nil, err
		}
		doc, perr := parseDocument(raw)
		if perr != nil {
			// A remote body that is not JSON is a fetch problem, not a local
			// file problem.
			return nil, &SpecError{Code: FetchError, Message: fmt.Sprintf("fetch %s: response is not a JSON schema document: %v", source, perr), Location: source, Cause: perr}
		}
		return doc, nil
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, &SpecError{Code: FileError, Message: fmt.Sprintf("read file %s: %v", source, err), Location: source, Cause: err}
	}
	doc, perr := parseDocument(raw)
	if perr != nil {
		return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("parse %s: %v", source, perr), Location: source, Cause: perr}
	}
	return doc, nil
}

func fetch(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &SpecError{Code: FetchError, Message: fmt.Sprintf("fetch %s: %v", rawURL, err), Location: rawURL, Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &SpecError{Code: FetchError, Message: fmt.Sprintf("fetch %s: %v", rawURL, err), Location: rawURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		msg := fmt.Sprintf("fetch %s: http %d", rawURL, resp.StatusCode)
		if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
			msg = fmt.Sprintf("%s: %s", msg, trimmed)
		}
		return nil, &SpecError{Code: FetchError, Message: msg, Location: rawURL}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SpecError{Code: FetchError, Message: fmt.Sprintf("fetch %s: read body: %v", rawURL, err), Location: rawURL, Cause: err}
	}
	return raw, nil
}
