package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/raysh454/pagesource/internal/fetcher"
	"github.com/raysh454/pagesource/internal/logging"
	"github.com/raysh454/pagesource/internal/webclient"
)

// Application holds the config and shared services for one run.
type Application struct {
	Config *Config
	Logger logging.Logger

	// RunID tags every log line of this run.
	RunID string
}

// NewApplication constructs an Application. A nil cfg means DefaultConfig and
// a nil logger discards output.
func NewApplication(cfg *Config, logger logging.Logger) *Application {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	runID := uuid.NewString()

	return &Application{
		Config: cfg,
		Logger: logger.With(logging.Field{Key: "run_id", Value: runID}),
		RunID:  runID,
	}
}

// Run fetches Config.Target once, printing the page to stdout and saving it
// to the configured output path.
func (a *Application) Run(ctx context.Context, stdout io.Writer) (err error) {
	if a == nil || a.Config == nil {
		return errors.New("application is nil")
	}

	a.Logger.Info("application starting",
		logging.Field{Key: "target", Value: a.Config.Target},
		logging.Field{Key: "output", Value: a.Config.FetcherCfg.OutputPath})

	wc, err := webclient.New(a.Config.WebClientCfg, a.Logger)
	if err != nil {
		return fmt.Errorf("create webclient: %w", err)
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close webclient: %w", cerr)
		}
	}()

	f, err := fetcher.New(a.Config.FetcherCfg, wc, stdout, a.Logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}

	if err := f.FetchAndSave(ctx, a.Config.Target); err != nil {
		a.Logger.Error("run failed", logging.Field{Key: "error", Value: err})
		return err
	}

	a.Logger.Debug("application finished")
	return nil
}
