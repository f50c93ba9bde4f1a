// Package fixtures writes files of random words used as benchmark input.
package fixtures

import (
	"bufio"
	"context"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

const (
	DefaultMinWords = 20
	DefaultMaxWords = 100
)

// DefaultWords is the vocabulary lines are drawn from.
var DefaultWords = []string{"fizz", "buzz", "foo", "bar", "baz"}

// Config describes the shape of every line in a fixture.
type Config struct {
	Words    []string
	MinWords int
	MaxWords int
}

// DefaultConfig returns the default vocabulary and line bounds.
func DefaultConfig() Config {
	return Config{
		Words:    DefaultWords,
		MinWords: DefaultMinWords,
		MaxWords: DefaultMaxWords,
	}
}

// Validate reports whether lines can be generated from cfg.
func (cfg Config) Validate() error {
	if len(cfg.Words) == 0 {
		return errors.New("vocabulary is empty")
	}
	if w, ok := lo.Find(cfg.Words, func(w string) bool {
		return w == "" || strings.ContainsAny(w, " \r\n")
	}); ok {
		return errors.Errorf("invalid word %q: words must be non-empty and contain no spaces or newlines", w)
	}
	if cfg.MinWords < 1 {
		return errors.Errorf("minimum words per line must be at least 1, got %d", cfg.MinWords)
	}
	if cfg.MaxWords < cfg.MinWords {
		return errors.Errorf("maximum words per line (%d) is less than the minimum (%d)", cfg.MaxWords, cfg.MinWords)
	}
	return nil
}

// Fixture is a file name and the number of lines it holds.
type Fixture struct {
	Name  string
	Lines int
}

// DefaultFixtures returns the fixture set written by the fixtures command.
func DefaultFixtures() []Fixture {
	return []Fixture{
		{Name: "small.txt", Lines: 100},
		{Name: "medium.txt", Lines: 1000},
		{Name: "large.txt", Lines: 10000},
		// Profiling fixture, needs MinWords: 100, MaxWords: 2000.
		// {Name: "jumbo.txt", Lines: 750000},
	}
}

// Generator writes fixtures of random lines shaped by its Config.
type Generator struct {
	fs     afero.Fs
	logger log.Logger
	cfg    Config
	rnd    *rand.Rand
}

// NewGenerator returns a Generator writing to fs. If rnd is nil, a randomly
// seeded source is used so every run produces different content.
func NewGenerator(fs afero.Fs, logger log.Logger, cfg Config, rnd *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Generator{fs: fs, logger: logger, cfg: cfg, rnd: rnd}, nil
}

// WriteLines writes the given number of random lines to w and returns the
// number of bytes written.
func (g *Generator) WriteLines(ctx context.Context, w io.Writer, lines int) (int64, error) {
	var (
		written int64
		buf     []byte
	)
	for i := 0; i < lines; i++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		buf = g.appendLine(buf[:0])
		n, err := w.Write(buf)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func (g *Generator) appendLine(buf []byte) []byte {
	n := g.cfg.MinWords + g.rnd.IntN(g.cfg.MaxWords-g.cfg.MinWords+1)
	for i := 0; i < n; i++ {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, g.cfg.Words[g.rnd.IntN(len(g.cfg.Words))]...)
	}
	return append(buf, '\n')
}

// Make creates or truncates path and fills it with the given number of lines.
func (g *Generator) Make(ctx context.Context, path string, lines int) (err error) {
	f, err := g.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "create fixture %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierror.Append(err, errors.Wrapf(cerr, "close fixture %s", path))
		}
	}()

	w := bufio.NewWriter(f)
	n, err := g.WriteLines(ctx, w, lines)
	if err != nil {
		return errors.Wrapf(err, "write fixture %s", path)
	}
	if err = w.Flush(); err != nil {
		return errors.Wrapf(err, "write fixture %s", path)
	}

	level.Info(g.logger).Log("msg", "fixture written", "path", path, "lines", lines, "size", humanize.Bytes(uint64(n)))
	return nil
}

// MakeAll writes every fixture into dir, creating it if needed. It stops at
// the first fixture that fails.
func (g *Generator) MakeAll(ctx context.Context, dir string, fixtures []Fixture) error {
	if err := g.fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create fixtures directory %s", dir)
	}
	for _, fx := range fixtures {
		if err := g.Make(ctx, filepath.Join(dir, fx.Name), fx.Lines); err != nil {
			return err
		}
	}
	return nil
}
