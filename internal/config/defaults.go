package config

const (
	defaultDataDir                = "~/.local/share/shortlist"
	defaultLogDir                 = "~/.local/share/shortlist/logs"
	defaultTMDBBaseURL            = "https://api.themoviedb.org/3"
	defaultTMDBLanguage           = "en-US"
	defaultOMDBBaseURL            = "https://www.omdbapi.com/"
	defaultEnrichDelayMS          = 300
	defaultEnrichRequestTimeout   = 10
	defaultNotifyRequestTimeout   = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		OMDB: OMDB{
			BaseURL: defaultOMDBBaseURL,
		},
		Enrichment: Enrichment{
			DelayMS:        defaultEnrichDelayMS,
			RequestTimeout: defaultEnrichRequestTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Enrichment:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
