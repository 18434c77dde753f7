package sig

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

type ReceivedHandler interface {
	Handle(os.Signal)
}

type ReceivedHandlerFunc func(os.Signal)

// Handle calls the underlying function with the received signal.
func (s ReceivedHandlerFunc) Handle(sig os.Signal) {
	s(sig)
}

// Handler stops an input session when the process is asked to
// terminate. SIGINT is rarely seen with the terminal in raw mode, as
// C-c arrives as a byte, but it can still come from kill(1).
type Handler struct {
	onSignalReceived ReceivedHandler
	sigCh            chan os.Signal

	mutex    sync.Mutex
	received os.Signal
}

// New creates a new signal handler that forwards the specified signals (default: SIGTERM, SIGINT, SIGHUP) to h.
// h may be nil.
func New(h ReceivedHandler, sigs ...os.Signal) *Handler {
	if len(sigs) == 0 {
		sigs = append(sigs, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	return &Handler{
		onSignalReceived: h,
		sigCh:            ch,
	}
}

// Loop waits for a signal or for ctx to be done. When a signal arrives
// it is recorded, handed to the handler, and cancel is called.
func (h *Handler) Loop(ctx context.Context, cancel func()) error {
	defer cancel()
	defer signal.Stop(h.sigCh)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-h.sigCh:
		h.mutex.Lock()
		h.received = sig
		h.mutex.Unlock()

		if h.onSignalReceived != nil {
			h.onSignalReceived.Handle(sig)
		}
		return nil
	}
}

// Received returns the signal that ended Loop, or nil.
func (h *Handler) Received() os.Signal {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.received
}

// ExitStatus returns the conventional shell exit status for a process
// killed by s: 128 plus the signal number.
func ExitStatus(s os.Signal) int {
	if n, ok := s.(syscall.Signal); ok {
		return 128 + int(n)
	}
	return 1
}
