package practice

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultSettleDelay is how long the cursor must sit still before a
// checkpoint is written.
const DefaultSettleDelay = 1500 * time.Millisecond

// Recorder turns a stream of cursor positions into debounced checkpoint
// upserts. The timer is rearmed on every observation, so rapid movement
// coalesces into a single write of the final settled position. Writes are
// best-effort: failures are logged and swallowed, never surfaced.
type Recorder struct {
	store CheckpointStore
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending Checkpoint
	armed   bool
	closed  bool
}

func NewRecorder(store CheckpointStore, delay time.Duration) *Recorder {
	if delay <= 0 {
		delay = DefaultSettleDelay
	}
	return &Recorder{store: store, delay: delay}
}

// Observe notes a cursor position. Missing identity, file, or an empty
// sequence means the session is not yet ready to record; the observation
// is skipped silently.
func (r *Recorder) Observe(cp Checkpoint) {
	if cp.UserID == "" || cp.FileID == "" || cp.TotalQuestions <= 0 {
		return
	}
	if cp.LastViewedQuestionIndex < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.pending = cp
	r.armed = true
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, r.settle)
}

func (r *Recorder) settle() {
	r.mu.Lock()
	if !r.armed || r.closed {
		r.mu.Unlock()
		return
	}
	cp := r.pending
	r.armed = false
	r.mu.Unlock()
	r.write(cp)
}

// Flush writes any pending checkpoint immediately, cancelling the timer.
func (r *Recorder) Flush() {
	r.mu.Lock()
	if !r.armed {
		r.mu.Unlock()
		return
	}
	cp := r.pending
	r.armed = false
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()
	r.write(cp)
}

// Close flushes the pending checkpoint and stops the recorder for good.
func (r *Recorder) Close() {
	r.Flush()
	r.mu.Lock()
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()
}

func (r *Recorder) write(cp Checkpoint) {
	cp.UpdatedAt = time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.store.UpsertCheckpoint(ctx, cp); err != nil {
		log.Printf("practice: progress save failed (user=%s file=%s): %v", cp.UserID, cp.FileID, err)
	}
}
