package shell

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"sync"

	"go.trai.ch/mach/internal/core/domain"
)

// handler receives the lines of one output stream. Each drain worker owns
// its handler, so handlers need no locking of their own.
type handler struct {
	mode domain.OutputMode
	out  io.Writer
	buf  bytes.Buffer
}

func newHandler(mode domain.OutputMode, out io.Writer) *handler {
	if mode == "" {
		mode = domain.OutputLine
	}
	return &handler{mode: mode, out: out}
}

// line handles one line, terminator included.
func (h *handler) line(p []byte) error {
	switch h.mode {
	case domain.OutputMute:
		return nil
	case domain.OutputDeferred:
		_, _ = h.buf.Write(p)
		return nil
	default:
		_, err := h.out.Write(p)
		return err
	}
}

// end signals that the stream is exhausted.
func (h *handler) end() error {
	if h.mode != domain.OutputDeferred || h.buf.Len() == 0 {
		return nil
	}
	_, err := h.out.Write(h.buf.Bytes())
	h.buf.Reset()
	return err
}

// drain reads r line by line into h until end of stream.
func drain(r io.Reader, h *handler) error {
	br := bufio.NewReader(r)
	for {
		p, err := br.ReadBytes('\n')
		if len(p) > 0 {
			if herr := h.line(p); herr != nil {
				// Keep reading so the process never blocks on a full pipe.
				_, _ = io.Copy(io.Discard, br)
				return herr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return h.end()
			}
			return err
		}
	}
}

// syncWriter serializes writes from the two drain workers to a shared sink.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSyncWriter(w io.Writer) *syncWriter {
	if sw, ok := w.(*syncWriter); ok {
		return sw
	}
	return &syncWriter{w: w}
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
