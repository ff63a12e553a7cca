package webuiemitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	genspec "github.com/mark3labs/swagger2webui/internal/spec"
)

// Options controls how the emitter renders and writes a generated module.
type Options struct {
	OutDir     string    // target directory; DefaultOutDir when empty
	OutputName string    // optional explicit override for the timestamped file name
	Now        time.Time // run timestamp; zero value means time.Now()
}

// Result reports what one generation run produced.
type Result struct {
	Target OutputTarget
	Size   int
}

// Emit assembles the generated module for doc and writes the timestamped
// copy plus the latest alias. source is the originating path or URL and only
// feeds output-name derivation. The full text is computed in memory before
// the first write, and both files are staged as temp files and renamed into
// place, so a failure leaves no partial output behind.
func Emit(ctx context.Context, doc *genspec.Document, source string, opts Options) (*Result, error) {
	_ = ctx
	if doc == nil {
		return nil, &genspec.SpecError{Code: genspec.GenerationError, Message: "webuiemitter: nil document"}
	}

	outDir := strings.TrimSpace(opts.OutDir)
	if outDir == "" {
		outDir = DefaultOutDir
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	text := Assemble(doc, SynthesizeAll(doc))
	target := ComputeTargets(source, opts.OutputName, outDir, now)

	if err := writeBoth(target, []byte(text)); err != nil {
		return nil, err
	}
	return &Result{Target: target, Size: len(text)}, nil
}

// writeBoth stages both files as temporaries in the target directory and
// renames them into place only after both writes succeeded.
func writeBoth(target OutputTarget, content []byte) error {
	paths := []string{target.Timestamped, target.Latest}
	tmps := make([]string, 0, len(paths))

	cleanup := func() {
		for _, tmp := range tmps {
			os.Remove(tmp)
		}
	}

	for _, p := range paths {
		tmp, err := stageFile(p, content)
		if err != nil {
			cleanup()
			return err
		}
		tmps = append(tmps, tmp)
	}

	for i, p := range paths {
		if err := os.Rename(tmps[i], p); err != nil {
			cleanup()
			return writeError(p, err)
		}
	}
	return nil
}

func stageFile(path string, content []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-webuiemitter-*")
	if err != nil {
		return "", writeError(path, err)
	}
	tmp := f.Name()

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", writeError(path, err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", writeError(path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", writeError(path, err)
	}
	return tmp, nil
}

func writeError(path string, err error) error {
	return &genspec.SpecError{
		Code:    genspec.GenerationError,
		Message: fmt.Sprintf("write %s: %v", path, err),
		Cause:   err,
	}
}
