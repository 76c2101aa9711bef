package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/davecgh/go-spew/spew"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"regmap-generator/internal/config"
	"regmap-generator/internal/diagnostic"
	"regmap-generator/internal/mapfile"
	"regmap-generator/internal/regmap"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

// Diagnostic codes added by the CLI on top of the model's own.
const (
	codeLoad    = "load"
	codeSummary = "summary"
)

type options struct {
	configPath string
	dump       bool
	dotDir     string
	exportDir  string
	noColor    bool
}

// result is the outcome of checking one map file.
type result struct {
	path  string
	m     *regmap.RegisterMap
	diags *diagnostic.Diagnostics
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options

	fs := flag.NewFlagSet("regmap-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "base configuration file")
	fs.BoolVar(&opts.dump, "dump", false, "dump the built model of every valid map")
	fs.StringVar(&opts.dotDir, "dot", "", "write a Graphviz graph of every valid map into `dir`")
	fs.StringVar(&opts.exportDir, "export", "", "write every valid map with resolved addresses into `dir`")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "regmap-check: no map files given")
		fs.Usage()

		return exitUsage
	}

	base := config.New()

	if opts.configPath != "" {
		cfg, err := config.LoadFile(opts.configPath)
		if err != nil {
			fmt.Fprintln(stderr, "regmap-check:", err)
			return exitUsage
		}

		base = cfg
	}

	results, err := checkAll(ctx, base, fs.Args())
	if err != nil {
		fmt.Fprintln(stderr, "regmap-check:", err)
		return exitFail
	}

	p := printer{w: stdout, color: !opts.noColor && isTerminal(stdout)}
	status := exitOK

	for _, res := range results {
		p.report(res)

		if res.diags.HasErrors() {
			status = exitFail
			continue
		}

		if err := opts.emit(stdout, res); err != nil {
			fmt.Fprintln(stderr, "regmap-check:", err)
			status = exitFail
		}
	}

	return status
}

// checkAll checks every path concurrently. Results keep the order of paths.
func checkAll(ctx context.Context, base *config.Configuration, paths []string) ([]result, error) {
	results := make([]result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = check(base, path)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// check builds one map file and runs the whole-map validation on it.
// base is only read, so concurrent calls may share it.
func check(base *config.Configuration, path string) result {
	res := result{path: path, diags: &diagnostic.Diagnostics{}}

	m, err := mapfile.Load(path, base)
	if err != nil {
		res.diags.AddError(codeLoad, err.Error(), "", "")
		return res
	}

	res.m = m
	res.diags.Merge(*m.Check())

	s := m.Settings()
	res.diags.AddInfo(codeSummary,
		fmt.Sprintf("%d registers, data width %d", m.Len(), s.DataWidth), "", "")

	return res
}

// emit writes the optional debug and export outputs of a valid map.
func (o options) emit(stdout io.Writer, res result) error {
	if o.dump {
		spew.Fdump(stdout, res.m)
	}

	name := strings.TrimSuffix(filepath.Base(res.path), filepath.Ext(res.path))

	if o.dotDir != "" {
		if err := writeDot(filepath.Join(o.dotDir, name+".dot"), res.m); err != nil {
			return err
		}
	}

	if o.exportDir != "" {
		mf, err := mapfile.Export(res.m)
		if err != nil {
			return err
		}

		if err := mapfile.WriteFile(mf, filepath.Join(o.exportDir, name+".yaml")); err != nil {
			return err
		}
	}

	return nil
}

func writeDot(path string, m *regmap.RegisterMap) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graph file %s: %w", path, err)
	}

	memviz.Map(f, m)

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write graph file %s: %w", path, err)
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
