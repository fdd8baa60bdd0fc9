// datafile-gen generates data-driven Go tests from annotated test logic
// functions and data files.
//
// Usage:
//
//	datafile-gen gen [packages|files...]    - Generate and write test files
//	datafile-gen check [packages|files...]  - Report diagnostics, write nothing
//	datafile-gen kinds                      - List supported data file kinds
//
// A package usually carries a go:generate line in one of its regular files,
// since the annotated sources are hidden behind the "datafile" build tag:
//
//	//go:generate go run datafile-gen/cmd/datafile-gen gen .
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"datafile-gen/datafile"
	"datafile-gen/internal/config"
	"datafile-gen/internal/diagnostic"
	"datafile-gen/internal/gen"
	"datafile-gen/internal/source"
)

// Version is set at build time.
var Version = "dev"

// errFailed reports that diagnostics were already printed.
var errFailed = errors.New("generation failed")

type options struct {
	manifest    string
	tags        string
	dir         string
	innerPrefix string
	suffix      string
	dryRun      bool
	verbose     bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}

		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "datafile-gen",
		Short: "Generate data-driven Go tests from data files",
		Long: `datafile-gen turns a test logic function plus a data file into a Go test
that runs the function once per record.

Mark a function in a file hidden behind the "datafile" build tag:

  //datafile:test path="testdata/cases.json"
  func TestCases(t *testing.T, input string, want int) { ... }

and run "datafile-gen gen" on the file or its package.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	genCmd := &cobra.Command{
		Use:   "gen [packages|files...]",
		Short: "Generate and write data-driven tests",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, !opts.dryRun)
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check [packages|files...]",
		Short: "Run the generator and report diagnostics without writing",
		Long: `Run the whole pipeline and report diagnostics. Generated files that are
missing or out of date are reported as errors.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, false)
		},
	}

	for _, c := range []*cobra.Command{genCmd, checkCmd} {
		c.Flags().StringVar(&opts.manifest, "manifest", "", "YAML manifest listing tests")
		c.Flags().StringVar(&opts.tags, "tags", "", "comma-separated build tags for package loading")
		c.Flags().StringVar(&opts.dir, "dir", "", "write generated files into this directory")
		c.Flags().StringVar(&opts.innerPrefix, "inner-prefix", gen.DefaultConfig().InnerPrefix,
			"prefix of renamed test logic functions")
		c.Flags().StringVar(&opts.suffix, "suffix", gen.DefaultConfig().OutputSuffix, "generated file name suffix")
	}

	genCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print generated files instead of writing them")

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "List supported data file kinds",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, k := range datafile.Kinds() {
				exts := k.Extensions()
				for i := range exts {
					exts[i] = "." + exts[i]
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%-5s %s\n", k, strings.Join(exts, " "))
			}
		},
	}

	root.AddCommand(genCmd, checkCmd, kindsCmd)

	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run executes the pipeline. write is false for check and dry runs.
func run(cmd *cobra.Command, opts *options, args []string, write bool) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	cfg := gen.DefaultConfig()
	cfg.InnerPrefix = opts.innerPrefix
	cfg.OutputSuffix = opts.suffix
	cfg.OutputDir = opts.dir

	var (
		manifest *config.Manifest
		err      error
	)

	if opts.manifest != "" {
		manifest, err = config.LoadManifest(opts.manifest)
		if err != nil {
			return err
		}
	}

	if len(args) == 0 && manifest == nil {
		args = []string{"."}
	}

	g := gen.NewGenerator(cfg, logger)
	loader := &source.Loader{Tags: opts.tags, Logger: logger}

	files, err := g.Collect(cmd.Context(), loader, args, manifest)
	if err != nil {
		return err
	}

	logger.Debug("sources collected", "count", len(files))

	generated, diags := g.Generate(files, manifest)

	report(cmd.ErrOrStderr(), diags, opts.verbose)

	if diags.HasErrors() {
		return errFailed
	}

	switch {
	case write:
		if err := gen.WriteFiles(generated); err != nil {
			return err
		}

		for _, f := range generated {
			logger.Info("file written", "file", f.Filename, "source", f.Source)
		}
	case cmd.Name() == "check":
		if stale := gen.Stale(generated); len(stale) > 0 {
			for _, path := range stale {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: generated file is missing or out of date\n", path)
			}

			return errFailed
		}
	default:
		for _, f := range generated {
			fmt.Fprintf(cmd.OutOrStdout(), "// %s\n%s\n", f.Filename, f.Content)
		}
	}

	return nil
}

// report prints diagnostics, errors first. Infos are printed only when
// verbose.
func report(w io.Writer, diags diagnostic.Diagnostics, verbose bool) {
	for _, d := range diags.All() {
		if d.Severity == diagnostic.DiagnosticInfo && !verbose {
			continue
		}

		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}
