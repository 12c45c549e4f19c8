package operation

import (
	"sync"

	"github.com/jcarver/jobagent/internal/domain"
)

// Token is the cooperative cancellation flag paired 1:1 with an operation.
// It makes a single one-way transition from active to cancel-requested and
// never resumes. Task code polls it at its checkpoints; nothing is ever
// interrupted preemptively.
//
// The flag is set only through Registry.RequestCancel, which refuses the
// request once the operation is terminal.
type Token struct {
	once sync.Once
	done chan struct{}
}

func newToken() *Token {
	return &Token{done: make(chan struct{})}
}

// cancel flips the token. Safe to call more than once.
func (t *Token) cancel() {
	t.once.Do(func() { close(t.done) })
}

// Cancelled reports whether cancellation has been requested. It never
// blocks.
func (t *Token) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when cancellation is requested, for use in
// select statements alongside other blocking work.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Err returns domain.ErrCancelled if cancellation has been requested, nil
// otherwise. Task code typically ends its checkpoint with
//
//	if err := token.Err(); err != nil { return nil, err }
func (t *Token) Err() error {
	if t.Cancelled() {
		return domain.ErrCancelled
	}
	return nil
}
