// Package progrock records build progress on a progrock tape.
package progrock

import (
	"context"
	"fmt"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Telemetry = (*Recorder)(nil)

// ErrUnfinished completes vertices still open when the recorder closes.
var ErrUnfinished = zerr.New("build stopped before rule finished")

// Recorder implements ports.Telemetry with one progrock vertex per rule run.
type Recorder struct {
	w       progrock.Writer
	rec     *progrock.Recorder
	newTape func() progrock.Writer

	mu   sync.Mutex
	seq  int
	open map[digest.Digest]*Vertex
}

// New creates a new Recorder on an in-memory tape. After Close, the next
// Record starts a new tape.
func New() *Recorder {
	r := NewRecorder(progrock.NewTape())
	r.newTape = func() progrock.Writer { return progrock.NewTape() }
	return r
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:    w,
		rec:  progrock.NewRecorder(w),
		open: make(map[digest.Digest]*Vertex),
	}
}

// Record starts a vertex named after the rule. A rule rebuilt in watch mode
// gets a fresh vertex each time.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	r.mu.Lock()
	if r.rec == nil {
		r.w = r.newTape()
		r.rec = progrock.NewRecorder(r.w)
	}
	r.seq++
	d := digest.FromString(fmt.Sprintf("%s#%d", name, r.seq))
	vertex := &Vertex{vertex: r.rec.Vertex(d, name)}
	vertex.done = func() { r.finish(d) }
	r.open[d] = vertex
	r.mu.Unlock()

	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Open returns the number of vertices not yet completed.
func (r *Recorder) Open() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.open)
}

func (r *Recorder) finish(d digest.Digest) {
	r.mu.Lock()
	delete(r.open, d)
	r.mu.Unlock()
}

// Close fails vertices left open, then flushes and closes the recording session.
func (r *Recorder) Close() error {
	r.mu.Lock()
	open := make([]*Vertex, 0, len(r.open))
	for _, v := range r.open {
		open = append(open, v)
	}
	r.mu.Unlock()

	for _, v := range open {
		v.Complete(ErrUnfinished)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil {
		return nil
	}
	err := r.w.Close()
	if r.newTape != nil {
		r.w, r.rec = nil, nil
	}
	if err != nil {
		return zerr.Wrap(err, "failed to close progress tape")
	}
	return nil
}
