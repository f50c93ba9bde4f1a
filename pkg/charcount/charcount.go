// Package charcount counts the characters in a set of files, line by line,
// using one of the iteration mechanisms from package iterfile.
package charcount

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/grafana/iterfile/pkg/iterfile"
)

// Method selects how lines are read from a file.
type Method string

const (
	MethodCallback Method = "callback"
	MethodIterator Method = "iterator"
	MethodChannel  Method = "channel"
)

// Methods lists every supported Method, default first.
var Methods = []Method{MethodCallback, MethodIterator, MethodChannel}

// ParseMethod returns the Method named s.
func ParseMethod(s string) (Method, error) {
	if m := Method(s); lo.Contains(Methods, m) {
		return m, nil
	}
	return "", errors.Errorf("unknown read method %q, expected one of %v", s, Methods)
}

// Unit is what a character is. Line terminators are counted either way.
type Unit string

const (
	// UnitRunes counts UTF-8 code points. Each byte of an invalid sequence
	// counts as one.
	UnitRunes Unit = "runes"
	UnitBytes Unit = "bytes"
)

// Units lists every supported Unit, default first.
var Units = []Unit{UnitRunes, UnitBytes}

// ParseUnit returns the Unit named s.
func ParseUnit(s string) (Unit, error) {
	if u := Unit(s); lo.Contains(Units, u) {
		return u, nil
	}
	return "", errors.Errorf("unknown unit %q, expected one of %v", s, Units)
}

func (u Unit) length(line string) int64 {
	if u == UnitBytes {
		return int64(len(line))
	}
	return int64(utf8.RuneCountInString(line))
}

// FileResult holds the counts for a single file. Size is always in bytes.
type FileResult struct {
	Path  string
	Lines int64
	Chars int64
	Size  int64
}

// Result is the outcome of a Count run. Files are in input order.
type Result struct {
	Chars   int64
	Files   []FileResult
	Elapsed time.Duration
}

// Option configures a Counter.
type Option func(*Counter)

// WithMethod selects the line reader. Defaults to MethodCallback.
func WithMethod(m Method) Option { return func(c *Counter) { c.method = m } }

// WithUnit selects what is counted. Defaults to UnitRunes.
func WithUnit(u Unit) Option { return func(c *Counter) { c.unit = u } }

// WithClock overrides the clock used to measure elapsed time.
func WithClock(now func() time.Time) Option { return func(c *Counter) { c.now = now } }

// Counter sums the length of every line, terminators included, across files.
type Counter struct {
	fs      afero.Fs
	logger  log.Logger
	metrics *metrics
	method  Method
	unit    Unit
	now     func() time.Time
}

// New returns a Counter reading from fs. Metrics are registered with reg
// unless it is nil.
func New(fs afero.Fs, logger log.Logger, reg prometheus.Registerer, opts ...Option) *Counter {
	c := &Counter{
		fs:      fs,
		logger:  logger,
		metrics: newMetrics(reg),
		method:  MethodCallback,
		unit:    UnitRunes,
		now:     time.Now,
	}
	if c.logger == nil {
		c.logger = log.NewNopLogger()
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Count counts every path in order and returns the total together with the
// time taken. The first path that cannot be read aborts the run and no total
// is returned.
func (c *Counter) Count(ctx context.Context, paths ...string) (Result, error) {
	start := c.now()
	files := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		fr, err := c.CountFile(ctx, path)
		if err != nil {
			return Result{}, err
		}
		files = append(files, fr)
	}
	return Result{
		Chars:   lo.SumBy(files, func(fr FileResult) int64 { return fr.Chars }),
		Files:   files,
		Elapsed: c.now().Sub(start),
	}, nil
}

// CountFile counts a single file.
func (c *Counter) CountFile(ctx context.Context, path string) (FileResult, error) {
	fr := FileResult{Path: path}
	add := func(line string) {
		fr.Lines++
		fr.Chars += c.unit.length(line)
		fr.Size += int64(len(line))
	}

	var err error
	switch c.method {
	case MethodCallback:
		err = iterfile.Callback(c.fs, path, func(line string) error {
			add(line)
			return nil
		})
	case MethodIterator:
		err = c.countIterator(path, add)
	case MethodChannel:
		err = c.countChannel(ctx, path, add)
	default:
		err = errors.Errorf("unknown read method %q", c.method)
	}
	if err != nil {
		c.metrics.errorsTotal.Inc()
		return FileResult{}, errors.Wrapf(err, "count %s", path)
	}

	c.metrics.filesTotal.Inc()
	c.metrics.linesTotal.Add(float64(fr.Lines))
	c.metrics.charactersTotal.WithLabelValues(string(c.unit)).Add(float64(fr.Chars))
	level.Debug(c.logger).Log(
		"msg", "file counted",
		"path", path,
		"method", c.method,
		"lines", fr.Lines,
		"chars", fr.Chars,
		"size", humanize.Bytes(uint64(fr.Size)),
	)
	return fr, nil
}

func (c *Counter) countIterator(path string, add func(string)) error {
	it, err := iterfile.Iterate(c.fs, path)
	if err != nil {
		return err
	}
	defer it.Close()
	for it.Next() {
		add(it.Line())
	}
	return it.Err()
}

func (c *Counter) countChannel(ctx context.Context, path string, add func(string)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s, err := iterfile.Channel(ctx, c.fs, path)
	if err != nil {
		return err
	}
	for line := range s.C {
		add(line)
	}
	return s.Err()
}
