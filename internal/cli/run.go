package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mark3labs/swagger2webui/internal/emitter/webuiemitter"
	genspec "github.com/mark3labs/swagger2webui/internal/spec"
)

// runGenerate drives one generation run end to end. Stage order matters: the
// output directory is created before the schema is read so a directory
// failure aborts the run with no network or file access, and the generated
// text is fully assembled in memory before the first write so a failure at
// any stage leaves no partial output.
func runGenerate(cmd *cobra.Command, cfg *Config) error {
	ctx := cmd.Context()

	if err := webuiemitter.EnsureOutDir(cfg.OutDir); err != nil {
		return friendlyError(err)
	}

	if cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loading schema from %s\n", cfg.Source)
	}

	doc, err := genspec.Load(ctx, cfg.Source, genspec.WithHTTPTimeout(cfg.Timeout))
	if err != nil {
		return friendlyError(err)
	}

	if cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %q v%s: %d paths, %d definitions\n",
			doc.Title, doc.Version, len(doc.Paths), len(doc.Definitions))
	}

	res, err := webuiemitter.Emit(ctx, doc, cfg.Source, webuiemitter.Options{
		OutDir:     cfg.OutDir,
		OutputName: cfg.OutputName,
		Now:        time.Now(),
	})
	if err != nil {
		return friendlyError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generated tool module from %s\n", cfg.Source)
	fmt.Fprintf(out, "  %s\n", res.Target.Timestamped)
	fmt.Fprintf(out, "  %s\n", res.Target.Latest)
	return nil
}

// friendlyError prefixes structured pipeline errors with their category so
// the operator diagnostic names the failing stage.
func friendlyError(err error) error {
	var se *genspec.SpecError
	if errors.As(err, &se) {
		return fmt.Errorf("%s: %s", se.Code, se.Message)
	}
	return err
}
