package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/common/version"
	"github.com/spf13/afero"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/grafana/iterfile/pkg/fixtures"
)

// fixturesDir is resolved against the working directory.
const fixturesDir = "fixtures"

var logger = level.NewFilter(log.NewLogfmtLogger(os.Stderr), level.AllowInfo())

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Generates random word fixtures for benchmarking line readers.").UsageWriter(os.Stdout)
	app.Version(version.Print("fixtures"))
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := run(context.Background(), afero.NewOsFs(), fixturesDir); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func run(ctx context.Context, fs afero.Fs, dir string) error {
	g, err := fixtures.NewGenerator(fs, logger, fixtures.DefaultConfig(), nil)
	if err != nil {
		return err
	}
	return g.MakeAll(ctx, dir, fixtures.DefaultFixtures())
}
