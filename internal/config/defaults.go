package config

const (
	defaultOutputDir        = "~/Downloads/ytdlx"
	defaultLogDir           = "~/.local/share/ytdlx/logs"
	defaultHistoryDir       = "~/.local/share/ytdlx"
	defaultLocateTimeout    = 15
	defaultProxyAddress     = "socks5://127.0.0.1:9050"
	defaultRequestTimeout   = 120
	defaultSearchResults    = 10
	defaultAudioContainer   = "m4a"
	defaultVideoContainer   = "mp4"
	defaultMinFreeSpaceMiB  = 512
	defaultHistoryMax       = 500
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			HistoryDir: defaultHistoryDir,
		},
		Tools: Tools{
			LocateTimeout: defaultLocateTimeout,
		},
		Engine: Engine{
			ProxyAddress:   defaultProxyAddress,
			RequestTimeout: defaultRequestTimeout,
			SearchResults:  defaultSearchResults,
		},
		Output: Output{
			AudioContainer:  defaultAudioContainer,
			VideoContainer:  defaultVideoContainer,
			VerifyDownloads: true,
			MinFreeSpaceMiB: defaultMinFreeSpaceMiB,
		},
		History: History{
			Enabled:    true,
			MaxEntries: defaultHistoryMax,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
