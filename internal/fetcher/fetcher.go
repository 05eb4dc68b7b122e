package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/raysh454/pagesource/internal/logging"
	"github.com/raysh454/pagesource/internal/webclient"
)

// Module: fetcher
// Fetches one page, prints its text and saves the same text to disk.
type Fetcher struct {
	cfg    Config
	wc     webclient.WebClient
	out    io.Writer
	logger logging.Logger
}

// New creates a Fetcher that prints to out and saves to cfg.OutputPath.
func New(cfg Config, wc webclient.WebClient, out io.Writer, logger logging.Logger) (*Fetcher, error) {
	if wc == nil {
		return nil, fmt.Errorf("fetcher: webclient is nil")
	}
	if out == nil {
		return nil, fmt.Errorf("fetcher: output writer is nil")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = 0o644
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Fetcher{
		cfg:    cfg,
		wc:     wc,
		out:    out,
		logger: logger.With(logging.Field{Key: "component", Value: "fetcher"}),
	}, nil
}

// OutputPath returns the file FetchAndSave overwrites.
func (f *Fetcher) OutputPath() string {
	return f.cfg.OutputPath
}

// FetchAndSave GETs address, writes the decoded body to the output writer
// and then overwrites the output file with the same text.
//
// The status code is not checked: an error page is printed and saved like
// any other. Nothing is written if the request itself fails.
func (f *Fetcher) FetchAndSave(ctx context.Context, address string) error {
	resp, err := f.HTTPGet(ctx, address)
	if err != nil {
		return err
	}

	text, err := resp.Text()
	if err != nil {
		return fmt.Errorf("fetch %s: %w", address, err)
	}

	fields := []logging.Field{
		{Key: "url", Value: address},
		{Key: "status", Value: resp.StatusCode},
		{Key: "encoding", Value: resp.Encoding()},
		{Key: "bytes", Value: len(resp.Body)},
	}
	if resp.StatusCode >= http.StatusBadRequest {
		f.logger.Warn("server returned error status, saving body anyway", fields...)
	} else {
		f.logger.Info("fetched page", fields...)
	}

	if _, err := io.WriteString(f.out, text); err != nil {
		return fmt.Errorf("print page: %w", err)
	}

	if err := writeTextFile(f.cfg.OutputPath, text, f.cfg.FileMode); err != nil {
		return fmt.Errorf("save page: %w", err)
	}

	f.logger.Info("saved page",
		logging.Field{Key: "path", Value: f.cfg.OutputPath},
		logging.Field{Key: "text_bytes", Value: len(text)})
	return nil
}

// HTTPGet makes an HTTP GET request to page and returns the raw response.
func (f *Fetcher) HTTPGet(ctx context.Context, page string) (*webclient.Response, error) {
	resp, err := f.wc.Get(ctx, page)
	if err != nil {
		f.logger.Error("error while fetching page",
			logging.Field{Key: "url", Value: page},
			logging.Field{Key: "error", Value: err})
		return nil, fmt.Errorf("fetch %s: %w", page, err)
	}
	return resp, nil
}
