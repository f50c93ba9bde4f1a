// Package iterfile provides several mechanisms for reading a file one line at
// a time. They exist side by side so that the cost of each iteration style
// can be profiled and benchmarked against the others.
//
// A line is every byte up to and including the next '\n'. Line terminators
// are returned verbatim, so "\r\n" is two characters. The last line of a file
// may lack a terminator.
package iterfile

import (
	"bufio"
	"io"

	"github.com/spf13/afero"
)

const readBufferSize = 64 << 10

func open(fs afero.Fs, path string) (afero.File, *bufio.Reader, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, bufio.NewReaderSize(f, readBufferSize), nil
}

// readLine returns the next line including its terminator. io.EOF is
// returned only once no bytes are left.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		return line, nil
	}
	return line, err
}

// Callback calls fn for every line in the file. If fn returns an error,
// reading stops and that error is returned unchanged.
func Callback(fs afero.Fs, path string, fn func(line string) error) error {
	f, r, err := open(fs, path)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		line, err := readLine(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err = fn(line); err != nil {
			return err
		}
	}
}
