// Package parallel holds small helpers shared by goroutine fan-outs.
package parallel

import (
	"sync"
	"sync/atomic"
)

// ErrorCollector keeps the first error reported by a set of goroutines.
// Workers may poll Failed to stop early once any of them has failed.
//
//	var ec parallel.ErrorCollector
//	for w := 0; w < workers; w++ {
//	    go func() {
//	        defer wg.Done()
//	        for row := w; row < n && !ec.Failed(); row += workers {
//	            ec.SetError(computeRow(row))
//	        }
//	    }()
//	}
type ErrorCollector struct {
	once   sync.Once
	failed atomic.Bool
	err    error
}

// SetError records err if no error has been recorded yet. Nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.once.Do(func() {
		c.err = err
		c.failed.Store(true)
	})
}

// Failed reports whether an error has been recorded.
func (c *ErrorCollector) Failed() bool {
	return c.failed.Load()
}

// Err returns the first recorded error, or nil. Call it after every
// goroutine has been joined.
func (c *ErrorCollector) Err() error {
	return c.err
}

// Reset clears the collector. Not safe while goroutines still use it.
func (c *ErrorCollector) Reset() {
	c.once = sync.Once{}
	c.failed.Store(false)
	c.err = nil
}
