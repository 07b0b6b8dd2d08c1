package log

// Config holds details necessary for logging.
type Config struct {
	// Format specifies the output log format.
	// Accepted values are: json, logfmt
	Format string

	// Level is the minimum log level that should appear on the output.
	Level string

	// NoColor makes sure that no log output gets colorized.
	NoColor bool
}

func DefaultConfig() *Config {
	return &Config{
		Format:  "logfmt",
		Level:   "info",
		NoColor: false,
	}
}
