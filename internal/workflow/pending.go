package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/posediver/media-picker/internal/media"
)

// Pending is the token for one presented picker. It resolves exactly once,
// to a result (possibly canceled) or an error.
type Pending struct {
	id     string
	source media.Source
	done   chan struct{}

	result media.SelectionResult
	err    error
}

func newPending(source media.Source) *Pending {
	return &Pending{
		id:     uuid.NewString(),
		source: source,
		done:   make(chan struct{}),
	}
}

func (p *Pending) ID() string { return p.id }

func (p *Pending) Source() media.Source { return p.source }

// Done is closed when the picker finishes.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the picker finishes or ctx ends. A canceled picker yields
// a result with Canceled set and a nil error.
func (p *Pending) Wait(ctx context.Context) (media.SelectionResult, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return media.SelectionResult{}, ctx.Err()
	}
}

func (p *Pending) resolve(result media.SelectionResult, err error) {
	p.result = result
	p.err = err
	close(p.done)
}
