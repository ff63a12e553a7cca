package webuiemitter

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	genspec "github.com/mark3labs/swagger2webui/internal/spec"
)

// CanonicalExt is the extension of generated modules.
const CanonicalExt = ".py"

// DefaultOutDir is the documented default output directory, relative to the
// working directory. It is an explicit configuration value threaded through
// Options rather than being derived from the process entry point.
const DefaultOutDir = "generated_tools"

// OutputTarget is the pair of files one generation run writes. Both paths are
// derived from a single captured timestamp so they share a generation epoch.
type OutputTarget struct {
	Timestamped string // <name>_<timestamp><ext>
	Latest      string // <derived-api-name>_latest<ext>; overwritten each run
}

// ComputeTargets derives the output paths for a run. now must be captured
// once per run and reused, which makes the computation idempotent within a
// run and the output byte-reproducible in tests.
//
// An explicit name overrides the timestamped file's base name and extension
// (extension defaults to CanonicalExt). The latest alias always uses the name
// derived from the source, so repeated runs against the same document keep
// one discoverable stable file while the timestamped copies preserve history.
func ComputeTargets(source, explicitName, outDir string, now time.Time) OutputTarget {
	apiName := deriveAPIName(source)
	stamp := formatTimestamp(now)

	base := apiName
	ext := CanonicalExt
	if explicitName != "" {
		base = explicitName
		if i := strings.LastIndex(explicitName, "."); i > 0 {
			base = explicitName[:i]
			ext = explicitName[i:]
		}
	}

	return OutputTarget{
		Timestamped: filepath.Join(outDir, fmt.Sprintf("%s_%s%s", base, stamp, ext)),
		Latest:      filepath.Join(outDir, fmt.Sprintf("%s_latest%s", apiName, ext)),
	}
}

// EnsureOutDir creates the output directory (including parents) once,
// idempotently. It runs before any network or file read so a failure aborts
// the run with no other side effects.
func EnsureOutDir(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &genspec.SpecError{
			Code:    genspec.DirectoryError,
			Message: fmt.Sprintf("create output directory %s: %v", outDir, err),
			Cause:   err,
		}
	}
	return nil
}

// deriveAPIName picks a stable base name for a source: the request host with
// periods replaced by underscores for remote sources, the file base name
// without extension for local ones.
func deriveAPIName(source string) string {
	if genspec.IsRemote(source) {
		if u, err := url.Parse(source); err == nil && u.Host != "" {
			// The port separator is not filesystem-safe either.
			return strings.NewReplacer(".", "_", ":", "_").Replace(u.Host)
		}
		return "api"
	}
	base := filepath.Base(source)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "api"
	}
	return base
}

// formatTimestamp renders the run timestamp as a filesystem-safe string:
// colons and periods are replaced so the value is valid on every platform.
func formatTimestamp(now time.Time) string {
	s := now.Format("2006-01-02T15:04:05.000")
	return strings.NewReplacer(":", "-", ".", "-").Replace(s)
}
