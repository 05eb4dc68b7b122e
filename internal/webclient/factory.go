package webclient

import (
	"fmt"
	"strings"

	"github.com/raysh454/pagesource/internal/logging"
)

// New constructs the WebClient backend named by cfg.Client. An empty name
// selects nethttp.
func New(cfg Config, logger logging.Logger) (WebClient, error) {
	backend := Client(strings.ToLower(strings.TrimSpace(string(cfg.Client))))
	if backend == "" {
		backend = ClientNetHTTP
	}

	switch backend {
	case ClientNetHTTP:
		client, err := NewNetHTTPClient(cfg, logger, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to construct webclient backend %q: %w", backend, err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("webclient backend %q not supported: available backends=%v", backend, []Client{ClientNetHTTP})
	}
}
