package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ytdlx"
	"ytdlx/internal/config"
	"ytdlx/internal/logging"
	"ytdlx/internal/pipeline"
	"ytdlx/internal/progressui"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// withClient builds a fully wired client, runs fn, and releases the history
// store afterwards. With quiet set, progress rendering is suppressed so
// stdout stays clean for piped media or JSON.
func (c *commandContext) withClient(quiet bool, fn func(*ytdlx.Client) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	opts := []ytdlx.Option{
		ytdlx.WithConfig(cfg),
		ytdlx.WithLogger(logger),
	}
	if quiet {
		opts = append(opts, ytdlx.WithProgress(func(string) pipeline.Progress {
			return progressui.NewQuiet()
		}))
	}

	client, err := ytdlx.New(opts...)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
