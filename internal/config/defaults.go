package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Workers: 0,
		// Version control metadata never holds installed dependencies.
		ExcludePattern: []string{
			".git",
			".hg",
			".svn",
		},
		ProtectedPaths: []string{
			// User can add paths they want to explicitly protect
		},
		DeleteRetries: 2,
		Verbose:       false,
		Log: LogConfig{
			Level: "info",
		},
	}
}
