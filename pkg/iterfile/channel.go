package iterfile

import (
	"context"
	"io"

	"github.com/spf13/afero"
)

// Stream delivers the lines of a file over a channel. C is closed once the
// whole file has been read, a read error occurs, or the context passed to
// Channel is done. Err must only be called after C is closed.
type Stream struct {
	C   <-chan string
	err error
}

// Err returns the error that stopped the producer, if any. Context
// cancellation is reported as the context's error.
func (s *Stream) Err() error { return s.err }

// Channel opens path and starts a goroutine sending every line on the
// returned Stream. Basic usage is:
//
//	s, err := iterfile.Channel(ctx, fs, "myfile.txt")
//	if err != nil {
//		return err
//	}
//	for line := range s.C {
//		// do something with the line
//	}
//	return s.Err()
//
// Callers that stop ranging early must cancel ctx to release the goroutine.
func Channel(ctx context.Context, fs afero.Fs, path string) (*Stream, error) {
	f, r, err := open(fs, path)
	if err != nil {
		return nil, err
	}

	c := make(chan string)
	s := &Stream{C: c}
	go func() {
		defer close(c)
		defer f.Close()
		for {
			line, err := readLine(r)
			if err == io.EOF {
				return
			}
			if err != nil {
				s.err = err
				return
			}
			select {
			case c <- line:
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			}
		}
	}()

	return s, nil
}
