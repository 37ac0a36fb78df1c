package ports

import "context"

// LineTransport is the bridge's view of the game process: newline-delimited
// text both directions, no other framing. ReadLine blocks until a line
// arrives, the context is cancelled, or the stream closes (ErrClosed).
// WriteLine appends the newline itself and must be safe for concurrent use;
// the dispatcher and the handshake manager both write.
type LineTransport interface {
	ReadLine(ctx context.Context) (string, error)
	WriteLine(line string) error
	Close() error
}
