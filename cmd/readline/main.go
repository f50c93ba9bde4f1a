package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
	"github.com/spf13/afero"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/grafana/iterfile/pkg/charcount"
)

var cfg struct {
	verbose bool
	method  string
	unit    string
	paths   []string
}

var (
	consoleOutput = os.Stderr
	logger        = log.NewLogfmtLogger(consoleOutput)
)

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Counts the characters in files line by line, including line terminators.").UsageWriter(os.Stdout)
	app.Version(version.Print("readline"))
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("false").BoolVar(&cfg.verbose)
	app.Flag("func", "The line reading mechanism to profile: callback, iterator or channel.").Short('f').Default(string(charcount.MethodCallback)).EnumVar(&cfg.method, methodNames()...)
	app.Flag("unit", "What to count as a character: runes or bytes.").Default(string(charcount.UnitRunes)).EnumVar(&cfg.unit, unitNames()...)
	app.Arg("path", "Files to read.").Required().StringsVar(&cfg.paths)

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if !cfg.verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	if err := run(context.Background(), afero.NewOsFs(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func run(ctx context.Context, fs afero.Fs, out io.Writer) error {
	method, err := charcount.ParseMethod(cfg.method)
	if err != nil {
		return err
	}
	unit, err := charcount.ParseUnit(cfg.unit)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	counter := charcount.New(fs, logger, reg,
		charcount.WithMethod(method),
		charcount.WithUnit(unit),
	)
	res, err := counter.Count(ctx, cfg.paths...)
	if err != nil {
		return err
	}

	level.Debug(logger).Log("msg", "counted files", "files", len(res.Files), "method", method, "unit", unit)
	logMetrics(reg)
	_, err = fmt.Fprintf(out, "Counted %d characters in %s seconds\n", res.Chars, formatSeconds(res.Elapsed.Seconds()))
	return err
}

// logMetrics writes every counter gathered from g at debug level.
func logMetrics(g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		level.Warn(logger).Log("msg", "failed to gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			kv := []interface{}{"msg", "metric", "name", mf.GetName()}
			for _, l := range m.GetLabel() {
				kv = append(kv, l.GetName(), l.GetValue())
			}
			kv = append(kv, "value", m.GetCounter().GetValue())
			level.Debug(logger).Log(kv...)
		}
	}
}
