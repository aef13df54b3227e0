package config

const (
	defaultConfigPath       = "~/.config/keywordtagger/config.toml"
	defaultStateDirFallback = "~/.local/state/keywordtagger"
	defaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	defaultTMDBTimeout      = 20
	defaultScanExtension    = ".nfo"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogMaxSizeMB     = 10
	defaultLogMaxBackups    = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Providers: Providers{
			TMDB: true,
			IMDb: false,
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			TimeoutSeconds: defaultTMDBTimeout,
		},
		Scan: Scan{
			Extension: defaultScanExtension,
		},
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
