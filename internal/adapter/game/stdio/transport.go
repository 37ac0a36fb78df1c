// Package stdio carries the game protocol over the process's own standard
// streams: the communication mod launches the bridge and speaks
// newline-delimited JSON on its stdin/stdout.
package stdio

import (
	"bufio"
	"context"
	"io"
	"sync"

	"spirebridge/internal/app/ports"
)

// State reports routinely run to hundreds of kilobytes; give the scanner
// plenty of headroom.
const maxLineSize = 10 * 1024 * 1024

type Transport struct {
	w io.Writer

	lines   chan string
	done    chan struct{}
	readErr error

	writeMu sync.Mutex
	closeMu sync.Mutex
	closed  bool
}

// New starts reading lines from r immediately. Writes go to w, one line per
// call, flushed by virtue of being unbuffered.
func New(r io.Reader, w io.Writer) *Transport {
	t := &Transport{
		w:     w,
		lines: make(chan string, 64),
		done:  make(chan struct{}),
	}
	go t.readLoop(r)
	return t
}

func (t *Transport) readLoop(r io.Reader) {
	defer close(t.lines)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		select {
		case <-t.done:
			return
		case t.lines <- scanner.Text():
		}
	}
	t.readErr = scanner.Err()
}

// ReadLine blocks until a line arrives, the context is cancelled, or the
// stream ends. A clean EOF surfaces as ports.ErrClosed.
func (t *Transport) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-t.lines:
		if !ok {
			if t.readErr != nil {
				return "", t.readErr
			}
			return "", ports.ErrClosed
		}
		return line, nil
	}
}

func (t *Transport) WriteLine(line string) error {
	t.closeMu.Lock()
	closed := t.closed
	t.closeMu.Unlock()
	if closed {
		return ports.ErrClosed
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_, err := io.WriteString(t.w, line+"\n")
	return err
}

func (t *Transport) Close() error {
	t.closeMu.Lock()
	defer t.closeMu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.done)
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
