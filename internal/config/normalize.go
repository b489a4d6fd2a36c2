package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	if err := c.normalizeEngine(); err != nil {
		return err
	}
	c.normalizeOutput()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDir) == "" {
		c.Paths.HistoryDir = defaultHistoryDir
	}
	if c.Paths.HistoryDir, err = expandPath(c.Paths.HistoryDir); err != nil {
		return fmt.Errorf("paths.history_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	var err error
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"tools.engine", &c.Tools.Engine},
		{"tools.ffmpeg", &c.Tools.FFmpeg},
		{"tools.ffprobe", &c.Tools.FFprobe},
		{"tools.tor", &c.Tools.Tor},
	} {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			*field.value = ""
			continue
		}
		if *field.value, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	if c.Tools.LocateTimeout <= 0 {
		c.Tools.LocateTimeout = defaultLocateTimeout
	}
	return nil
}

func (c *Config) normalizeEngine() error {
	c.Engine.ProxyAddress = strings.TrimSpace(c.Engine.ProxyAddress)
	if c.Engine.ProxyAddress == "" {
		c.Engine.ProxyAddress = defaultProxyAddress
	}
	if value, ok := os.LookupEnv("YTDLX_PROXY"); ok && strings.TrimSpace(value) != "" {
		c.Engine.ProxyAddress = strings.TrimSpace(value)
		c.Engine.ProxyEnabled = true
	}
	if strings.TrimSpace(c.Engine.CookiesFile) != "" {
		expanded, err := expandPath(c.Engine.CookiesFile)
		if err != nil {
			return fmt.Errorf("engine.cookies_file: %w", err)
		}
		c.Engine.CookiesFile = expanded
	} else {
		c.Engine.CookiesFile = ""
	}
	if c.Engine.RequestTimeout <= 0 {
		c.Engine.RequestTimeout = defaultRequestTimeout
	}
	if c.Engine.SearchResults <= 0 {
		c.Engine.SearchResults = defaultSearchResults
	}
	return nil
}

func (c *Config) normalizeOutput() {
	c.Output.AudioContainer = strings.ToLower(strings.TrimSpace(c.Output.AudioContainer))
	if c.Output.AudioContainer == "" {
		c.Output.AudioContainer = defaultAudioContainer
	}
	c.Output.VideoContainer = strings.ToLower(strings.TrimSpace(c.Output.VideoContainer))
	if c.Output.VideoContainer == "" {
		c.Output.VideoContainer = defaultVideoContainer
	}
	if c.Output.MinFreeSpaceMiB < 0 {
		c.Output.MinFreeSpaceMiB = 0
	}
}

func (c *Config) normalizeHistory() {
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = defaultHistoryMax
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = defaultLogRetentionDays
	}
}
