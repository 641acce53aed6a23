package dispatch

import (
	"context"
)

// Dispatcher executes utility statements
type Dispatcher interface {
	Dispatch(ctx context.Context, stmt Statement) error
}

// DispatcherFunc adapts a function to the Dispatcher interface
type DispatcherFunc func(ctx context.Context, stmt Statement) error

// Dispatch calls f(ctx, stmt)
func (f DispatcherFunc) Dispatch(ctx context.Context, stmt Statement) error {
	return f(ctx, stmt)
}

// Interceptor sits in front of a dispatcher. It may reject the
// statement or forward it to next.
type Interceptor interface {
	Intercept(ctx context.Context, stmt Statement, next Dispatcher) error
}

// Chain is an ordered chain of interceptors terminating in a base
// dispatcher. Interceptors are installed at the front; the most
// recently installed one sees each statement first.
type Chain struct {
	head  Dispatcher
	saved []Dispatcher
}

// NewChain creates a chain with only the base dispatcher installed
func NewChain(base Dispatcher) *Chain {
	return &Chain{head: base}
}

// Install puts an interceptor at the front of the chain, saving the
// previous head as its next handler
func (c *Chain) Install(i Interceptor) {
	prev := c.head
	c.saved = append(c.saved, prev)
	c.head = DispatcherFunc(func(ctx context.Context, stmt Statement) error {
		return i.Intercept(ctx, stmt, prev)
	})
}

// Uninstall removes the most recently installed interceptor, restoring
// exactly the previously saved head. Returns false if no interceptor
// is installed.
func (c *Chain) Uninstall() bool {
	if len(c.saved) == 0 {
		return false
	}
	c.head = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
	return true
}

// Dispatch runs a statement through the chain
func (c *Chain) Dispatch(ctx context.Context, stmt Statement) error {
	return c.head.Dispatch(ctx, stmt)
}
