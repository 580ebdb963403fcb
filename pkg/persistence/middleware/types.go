// Package middleware decorates action journals with redaction and encryption at rest.
package middleware

import "github.com/aretw0/excursion/pkg/ports"

// Middleware allows wrapping a Journal to add behavior.
type Middleware func(ports.Journal) ports.Journal

// Chain wraps j so that entries pass through mws in the order given before reaching j.
func Chain(j ports.Journal, mws ...Middleware) ports.Journal {
	for i := len(mws) - 1; i >= 0; i-- {
		j = mws[i](j)
	}
	return j
}
