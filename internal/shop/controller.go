package shop

import (
	"context"
	"sync"
)

// Controller owns the current State and runs fetches for it. Each fetch is
// tagged with a sequence number; a response that is not for the latest tag
// is dropped, so the state always reflects the most recent request.
type Controller struct {
	mu      sync.Mutex
	fetcher Fetcher
	state   State
	seq     uint64
}

func NewController(fetcher Fetcher, initial State) *Controller {
	return &Controller{fetcher: fetcher, state: initial}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Apply runs a transition that needs no fetch, such as AddToCart.
func (c *Controller) Apply(transition func(State) State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = transition(c.state)
	return c.state
}

// Update applies transition, then fetches the page the new state asks for.
// The returned error is the fetch error of this request, if it was still
// current when it completed; it is also recorded in State.Err.
func (c *Controller) Update(ctx context.Context, transition func(State) State) (State, error) {
	c.mu.Lock()
	c.state = transition(c.state).Started()
	c.seq++
	tag := c.seq
	req := c.state.Request()
	c.mu.Unlock()

	res, err := c.fetcher.FetchPage(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if tag != c.seq {
		return c.state, nil
	}
	if err != nil {
		c.state = c.state.Failed(err)
		return c.state, err
	}
	c.state = c.state.Loaded(res)
	return c.state, nil
}

// Refresh refetches the current page. It doubles as retry after a failure.
func (c *Controller) Refresh(ctx context.Context) (State, error) {
	return c.Update(ctx, func(s State) State { return s })
}

func (c *Controller) Search(ctx context.Context, q string) (State, error) {
	return c.Update(ctx, func(s State) State { return s.WithSearch(q) })
}

func (c *Controller) GoToPage(ctx context.Context, n int) (State, error) {
	return c.Update(ctx, func(s State) State { return s.GoToPage(n) })
}
