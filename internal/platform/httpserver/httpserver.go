package httpserver

import (
	"net/http"
	"time"
)

// Timeouts for the prior-auth service. A single determination can wait on up
// to five sequential capability calls, so the write timeout must comfortably
// exceed the worst-case pipeline run; header and idle limits stay tight.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 3 * time.Minute
	idleTimeout       = 2 * time.Minute
)

// New builds the HTTP server with timeouts sized for long pipeline runs.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
