package stdio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"spirebridge/internal/app/ports"
)

// syncBuffer guards a bytes.Buffer; the transport writes from another
// goroutine in some tests.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReadLine_DeliversLinesInOrder(t *testing.T) {
	tr := New(strings.NewReader("first\nsecond\n"), io.Discard)
	defer tr.Close()

	ctx := context.Background()
	line, err := tr.ReadLine(ctx)
	if err != nil || line != "first" {
		t.Fatalf("first read: %q, %v", line, err)
	}
	line, err = tr.ReadLine(ctx)
	if err != nil || line != "second" {
		t.Fatalf("second read: %q, %v", line, err)
	}
}

func TestReadLine_EOFIsErrClosed(t *testing.T) {
	tr := New(strings.NewReader(""), io.Discard)
	defer tr.Close()

	_, err := tr.ReadLine(context.Background())
	if !errors.Is(err, ports.ErrClosed) {
		t.Fatalf("expected ErrClosed on EOF, got %v", err)
	}
}

func TestReadLine_ContextCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	tr := New(r, io.Discard)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := tr.ReadLine(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestReadLine_LargeLine(t *testing.T) {
	// Past the scanner's initial buffer but under the cap.
	big := strings.Repeat("x", 256*1024)
	tr := New(strings.NewReader(big+"\n"), io.Discard)
	defer tr.Close()

	line, err := tr.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if len(line) != len(big) {
		t.Fatalf("line length: got %d want %d", len(line), len(big))
	}
}

func TestWriteLine_AppendsNewline(t *testing.T) {
	out := &syncBuffer{}
	tr := New(strings.NewReader(""), out)
	defer tr.Close()

	if err := tr.WriteLine("play 1"); err != nil {
		t.Fatalf("WriteLine: %v", err)
	}
	if err := tr.WriteLine("end"); err != nil {
		t.Fatalf("WriteLine: %v", err)
	}
	if got, want := out.String(), "play 1\nend\n"; got != want {
		t.Fatalf("output: got %q want %q", got, want)
	}
}

func TestWriteLine_AfterCloseFails(t *testing.T) {
	tr := New(strings.NewReader(""), io.Discard)
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := tr.WriteLine("end"); !errors.Is(err, ports.ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	tr := New(strings.NewReader(""), io.Discard)
	if err := tr.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
