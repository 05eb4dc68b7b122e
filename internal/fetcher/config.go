package fetcher

import "os"

// DefaultOutputPath is where the page text is saved, relative to the
// working directory.
const DefaultOutputPath = "page_source.html"

type Config struct {
	// OutputPath is overwritten in full on every run. Its directory must
	// already exist.
	OutputPath string
	FileMode   os.FileMode
}

func DefaultConfig() Config {
	return Config{
		OutputPath: DefaultOutputPath,
		FileMode:   0o644,
	}
}
