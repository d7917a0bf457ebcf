package toolbox

import (
	"context"
	"io"
)

// Stream adapts a read/write pair into the io.ReadWriteCloser and
// jsonrpc2.Dialer shapes the connection machinery wants. It covers both the
// real stdio channel and in-process pipes in tests.
type Stream struct {
	reader io.Reader
	writer io.Writer
}

// NewStream wraps a reader/writer pair.
func NewStream(r io.Reader, w io.Writer) *Stream {
	return &Stream{reader: r, writer: w}
}

func (s *Stream) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *Stream) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *Stream) Close() error {
	var err error
	if closer, ok := s.writer.(io.Closer); ok {
		err = closer.Close()
	}
	if closer, ok := s.reader.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Dial implements jsonrpc2.Dialer over the already-open stream.
func (s *Stream) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	return s, nil
}
