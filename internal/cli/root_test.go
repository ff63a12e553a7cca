package cli

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

const minimalDoc = `{
  "swagger": "2.0",
  "info": {"title": "T", "version": "2.0"},
  "host": "h",
  "basePath": "/b",
  "schemes": ["https"],
  "paths": {
    "/ping": {
      "get": {"operationId": "ping"}
    }
  }
}`

func writeSchema(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestRun_GeneratesBothFiles(t *testing.T) {
	t.Parallel()
	schema := writeSchema(t, "ping.json", minimalDoc)
	outDir := filepath.Join(t.TempDir(), "out")

	stdout, _, err := runCommand(t, schema, "--out-dir", outDir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("out dir has %d files, want 2", len(entries))
	}

	var sawLatest bool
	for _, e := range entries {
		if e.Name() == "ping_latest.py" {
			sawLatest = true
		}
		data, err := os.ReadFile(filepath.Join(outDir, e.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		if !strings.Contains(string(data), "async def ping(") {
			t.Errorf("%s is missing the generated callable", e.Name())
		}
	}
	if !sawLatest {
		t.Error("latest alias not written")
	}
	if !strings.Contains(stdout, schema) {
		t.Errorf("stdout does not name the source:\n%s", stdout)
	}
}

func TestRun_RemoteSource(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(minimalDoc))
	}))
	defer srv.Close()

	outDir := filepath.Join(t.TempDir(), "out")
	if _, _, err := runCommand(t, srv.URL+"/swagger.json", "--out-dir", outDir); err != nil {
		t.Fatalf("execute: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("out dir has %d files, want 2", len(entries))
	}
}

func TestRun_Remote404WritesNothing(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	outDir := filepath.Join(t.TempDir(), "out")
	_, _, err := runCommand(t, srv.URL+"/swagger.json", "--out-dir", outDir)
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "FetchError") || !strings.Contains(err.Error(), "404") {
		t.Errorf("err = %v, want FetchError naming the status", err)
	}

	// The directory is created up front; it must stay empty.
	entries, readErr := os.ReadDir(outDir)
	if readErr != nil {
		t.Fatalf("read out dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("out dir has %d files after a failed run, want 0", len(entries))
	}
}

func TestRun_InvalidDocumentWritesNothing(t *testing.T) {
	t.Parallel()
	schema := writeSchema(t, "broken.json", "{not valid}")
	outDir := filepath.Join(t.TempDir(), "out")

	_, _, err := runCommand(t, schema, "--out-dir", outDir)
	if err == nil {
		t.Fatal("expected an error for an unparseable document")
	}
	if !strings.Contains(err.Error(), "ParseError") {
		t.Errorf("err = %v, want ParseError", err)
	}

	entries, readErr := os.ReadDir(outDir)
	if readErr != nil {
		t.Fatalf("read out dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("out dir has %d files after a failed run, want 0", len(entries))
	}
}

func TestRun_ExplicitOutputName(t *testing.T) {
	t.Parallel()
	schema := writeSchema(t, "ping.json", minimalDoc)
	outDir := filepath.Join(t.TempDir(), "out")

	if _, _, err := runCommand(t, schema, "mytool.py", "--out-dir", outDir); err != nil {
		t.Fatalf("execute: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	var sawNamed bool
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "mytool_") && strings.HasSuffix(e.Name(), ".py") {
			sawNamed = true
		}
	}
	if !sawNamed {
		t.Errorf("no output uses the explicit name; dir: %v", entries)
	}
}

func TestArgs_Usage(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"too many arguments", []string{"a", "b", "c"}},
		{"unknown flag", []string{"schema.json", "--bogus"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := runCommand(t, tc.args...)
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("err = %v, want usage error", err)
			}
		})
	}
}

// captureConfig swaps the generation runner so config resolution can be
// observed without touching disk or the network. Not parallel-safe.
func captureConfig(t *testing.T) *Config {
	t.Helper()
	captured := &Config{}
	prev := generateRunner
	generateRunner = func(cmd *cobra.Command, cfg *Config) error {
		*captured = *cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = prev })
	return captured
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg := captureConfig(t)
	if _, _, err := runCommand(t, "schema.json"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg.Source != "schema.json" {
		t.Errorf("source = %q", cfg.Source)
	}
	if cfg.OutDir != "generated_tools" {
		t.Errorf("out dir = %q, want default", cfg.OutDir)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want default 30s", cfg.Timeout)
	}
	if cfg.Verbose {
		t.Error("verbose defaults to false")
	}
}

func TestResolveConfig_FlagsAndArgs(t *testing.T) {
	cfg := captureConfig(t)
	if _, _, err := runCommand(t, "schema.json", "named.py", "--out-dir", "tools", "--timeout", "5s", "-v"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg.OutputName != "named.py" {
		t.Errorf("output name = %q", cfg.OutputName)
	}
	if cfg.OutDir != "tools" {
		t.Errorf("out dir = %q", cfg.OutDir)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if !cfg.Verbose {
		t.Error("verbose flag not applied")
	}
}

func TestResolveConfig_NegativeTimeout(t *testing.T) {
	captureConfig(t)
	_, _, err := runCommand(t, "schema.json", "--timeout", "-1s")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("err = %v, want usage error", err)
	}
}
