package iterfile

import (
	"bufio"
	"io"

	"github.com/spf13/afero"
)

// Iterator reads a file line by line on demand:
//
//	it, err := iterfile.Iterate(fs, "myfile.txt")
//	if err != nil {
//		return err
//	}
//	defer it.Close()
//	for it.Next() {
//		// use it.Line()
//	}
//	return it.Err()
type Iterator struct {
	f    afero.File
	r    *bufio.Reader
	line string
	err  error
	done bool
}

// Iterate opens path and returns an Iterator positioned before the first
// line.
func Iterate(fs afero.Fs, path string) (*Iterator, error) {
	f, r, err := open(fs, path)
	if err != nil {
		return nil, err
	}
	return &Iterator{f: f, r: r}, nil
}

// Next advances to the next line. It returns false at the end of the file or
// on the first read error. The file is closed once Next returns false.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	line, err := readLine(it.r)
	if err != nil {
		if err != io.EOF {
			it.err = err
		}
		it.line = ""
		it.finish()
		return false
	}
	it.line = line
	return true
}

// Line returns the line read by the last call to Next.
func (it *Iterator) Line() string { return it.line }

// Err returns the first non-EOF error encountered.
func (it *Iterator) Err() error { return it.err }

// Close releases the file. It is safe to call more than once.
func (it *Iterator) Close() error {
	if it.done {
		return nil
	}
	it.done = true
	return it.f.Close()
}

func (it *Iterator) finish() {
	if err := it.Close(); err != nil && it.err == nil {
		it.err = err
	}
}
