package api

import (
	"fmt"
	"net/http"
	"time"
)

// NewServer builds the main HTTP server with sane timeouts. The metrics
// endpoint lives on its own port, see internal/metrics.
func NewServer(port uint16, h *HandlerProvider) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
