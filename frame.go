package toolbox

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/exp/jsonrpc2"
)

// NewLineFramer returns a Framer that encodes/decodes raw JSON messages
// like jsonrpc2.RawFramer, but terminates each message on the wire with a
// newline. MCP stdio servers and clients frame messages this way.
func NewLineFramer() jsonrpc2.Framer {
	return lineFramer{}
}

type lineFramer struct{}

type lineReader struct {
	in *bufio.Reader
}

type lineWriter struct {
	out io.Writer
}

func (lineFramer) Reader(r io.Reader) jsonrpc2.Reader {
	return &lineReader{in: bufio.NewReader(r)}
}

func (lineFramer) Writer(w io.Writer) jsonrpc2.Writer {
	return &lineWriter{out: w}
}

func (r *lineReader) Read(ctx context.Context) (jsonrpc2.Message, int64, error) {
	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	default:
	}

	// Skip blank lines between frames. EOF passes through untouched so
	// the connection shuts down cleanly when the client closes its end.
	var line string
	for {
		var err error
		line, err = r.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, 0, err
			}
			return nil, 0, fmt.Errorf("failed to read line: %w", err)
		}
		line = strings.TrimSpace(line)
		if line != "" {
			break
		}
	}

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	msg, err := jsonrpc2.DecodeMessage(raw)
	return msg, int64(len(line)), err
}

func (w *lineWriter) Write(ctx context.Context, msg jsonrpc2.Message) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	data, err := jsonrpc2.EncodeMessage(msg)
	if err != nil {
		return 0, fmt.Errorf("marshaling message: %w", err)
	}

	data = append(data, '\n')

	n, err := w.out.Write(data)
	return int64(n), err
}

// LoggingFramer decorates another Framer with frame-level tracing. Frames
// are logged at debug level; the logger must write to stderr, never to the
// protocol stream.
type LoggingFramer struct {
	Base   jsonrpc2.Framer
	Logger *slog.Logger
}

func (f *LoggingFramer) Reader(r io.Reader) jsonrpc2.Reader {
	return &loggingReader{base: f.Base.Reader(r), logger: f.Logger}
}

func (f *LoggingFramer) Writer(w io.Writer) jsonrpc2.Writer {
	return &loggingWriter{base: f.Base.Writer(w), logger: f.Logger}
}

type loggingReader struct {
	base   jsonrpc2.Reader
	logger *slog.Logger
}

func (r *loggingReader) Read(ctx context.Context) (jsonrpc2.Message, int64, error) {
	msg, n, err := r.base.Read(ctx)
	if err != nil {
		r.logger.Debug("frame read failed", "error", err)
		return msg, n, err
	}
	r.logger.Debug("frame read", "bytes", n, "message", fmt.Sprintf("%+v", msg))
	return msg, n, err
}

type loggingWriter struct {
	base   jsonrpc2.Writer
	logger *slog.Logger
}

func (w *loggingWriter) Write(ctx context.Context, msg jsonrpc2.Message) (int64, error) {
	n, err := w.base.Write(ctx, msg)
	if err != nil {
		w.logger.Debug("frame write failed", "error", err)
		return n, err
	}
	w.logger.Debug("frame written", "bytes", n, "message", fmt.Sprintf("%+v", msg))
	return n, err
}
