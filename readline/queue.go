package readline

import (
	"context"
	"io"
	"sync"
)

// lineQueue buffers committed lines for ReadLine.
// push never blocks and drops lines once the queue has ended. Whether the
// consumer is behind is reported by paused.
type lineQueue struct {
	mu        sync.Mutex
	lines     []string
	highWater int
	ended     bool
	wake      chan struct{} // Closed and replaced on every change
}

func newLineQueue(highWater int) *lineQueue {
	return &lineQueue{highWater: highWater, wake: make(chan struct{})}
}

func (q *lineQueue) push(line string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ended {
		return
	}
	q.lines = append(q.lines, line)
	q.signal()
}

func (q *lineQueue) end() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ended {
		return
	}
	q.ended = true
	q.signal()
}

func (q *lineQueue) signal() {
	close(q.wake)
	q.wake = make(chan struct{})
}

func (q *lineQueue) pop(ctx context.Context) (string, error) {
	for {
		q.mu.Lock()
		if len(q.lines) > 0 {
			line := q.lines[0]
			q.lines = q.lines[1:]
			q.mu.Unlock()
			return line, nil
		}
		if q.ended {
			q.mu.Unlock()
			return "", io.EOF
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (q *lineQueue) paused() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines) >= q.highWater
}

func (q *lineQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}

// ReadLine returns the next committed line, waiting until one is available.
// Lines committed before Close are still delivered; afterwards io.EOF is returned.
func (e *Editor) ReadLine(ctx context.Context) (string, error) {
	return e.queue.pop(ctx)
}

// Paused reports whether the ReadLine queue has reached its high-water mark.
// Key handling continues regardless; lines keep queueing.
func (e *Editor) Paused() bool {
	return e.queue.paused()
}

// Pending returns the number of committed lines not yet read.
func (e *Editor) Pending() int {
	return e.queue.len()
}
