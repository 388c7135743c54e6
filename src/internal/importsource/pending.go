package importsource

import "context"

// Pending is the handle of a lookup started with Start.
type Pending struct {
	done    chan struct{}
	outcome Outcome
	err     error
}

// Start runs RunGetData in its own goroutine. Calls are independent of each other.
func (s *ImportSource) Start(ctx context.Context, identifier, depositionType string) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.outcome, p.err = s.RunGetData(ctx, identifier, depositionType)
	}()
	return p
}

// Done is closed once the lookup has completed.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the lookup completes and returns its result.
func (p *Pending) Wait() (Outcome, error) {
	<-p.done
	return p.outcome, p.err
}
