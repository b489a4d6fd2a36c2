package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var audioContainers = []string{"mp3", "m4a", "opus", "flac", "wav"}

var videoContainers = []string{"mp4", "mkv", "webm"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.ProxyEnabled {
		parsed, err := url.Parse(c.Engine.ProxyAddress)
		if err != nil || parsed.Host == "" {
			return fmt.Errorf("engine.proxy_address %q is not a valid proxy URL (expected e.g. socks5://127.0.0.1:9050)", c.Engine.ProxyAddress)
		}
		switch parsed.Scheme {
		case "socks5", "socks4", "http", "https":
		default:
			return fmt.Errorf("engine.proxy_address scheme %q is unsupported (use socks5, socks4, http, or https)", parsed.Scheme)
		}
	}
	if c.Engine.SearchResults > 50 {
		return errors.New("engine.search_results must be 50 or fewer")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if !containsString(audioContainers, c.Output.AudioContainer) {
		return fmt.Errorf("output.audio_container %q is unsupported (valid: %s)", c.Output.AudioContainer, strings.Join(audioContainers, ", "))
	}
	if !containsString(videoContainers, c.Output.VideoContainer) {
		return fmt.Errorf("output.video_container %q is unsupported (valid: %s)", c.Output.VideoContainer, strings.Join(videoContainers, ", "))
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is unsupported (valid: console, json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is unsupported (valid: debug, info, warn, error)", c.Logging.Level)
	}
	return nil
}

// AudioContainers lists the audio output containers ytdlx can produce.
func AudioContainers() []string {
	return append([]string(nil), audioContainers...)
}

// VideoContainers lists the video output containers ytdlx can produce.
func VideoContainers() []string {
	return append([]string(nil), videoContainers...)
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
