// Package httpserver builds the HTTP server with the project's timeout
// defaults so main only wires address and handler.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server with bounded read and idle timeouts. Write timeout
// stays unset because bulk batches legitimately run up to their own
// configured deadline.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
