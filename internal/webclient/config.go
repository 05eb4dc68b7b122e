package webclient

import "time"

type Client string

const (
	ClientNetHTTP Client = "nethttp"
)

// Config selects and tunes the WebClient backend.
type Config struct {
	Client Client

	// Timeout bounds a whole request including reading the body.
	// Zero means no timeout: a silent server blocks the caller until the
	// request context is cancelled.
	Timeout time.Duration
}

// DefaultConfig returns the nethttp backend with no timeout.
func DefaultConfig() Config {
	return Config{
		Client:  ClientNetHTTP,
		Timeout: 0,
	}
}
