// Copyright (C) 2021-2025 Chronicle Labs, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads the fileinfo configuration file.
//
// The configuration is written in HCL. All blocks and attributes are
// optional, missing values fall back to the defaults returned by Default:
//
//	log {
//	  level  = "warn"
//	  format = "text"
//	}
//
//	exit {
//	  strict = false
//	}
//
//	file {
//	  working_dir = "/"
//	}
//
//	http {
//	  enabled    = true
//	  timeout    = "30s"
//	  user_agent = format("fileinfo/%s", "1.0")
//	  headers    = { Authorization = env("FILEINFO_TOKEN", "") }
//	}
//
// Expressions may use the env, format, lower, upper and coalesce functions.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/chronicleprotocol/fileinfo/hcl/funcs"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Settings is the resolved configuration with defaults applied.
type Settings struct {
	LogLevel    slog.Level
	LogFormat   string
	Strict      bool
	WorkingDir  string
	HTTPEnabled bool
	HTTPTimeout time.Duration
	UserAgent   string
	Headers     map[string]string
}

// Default returns the settings used when no configuration file is given.
func Default() Settings {
	return Settings{
		LogLevel:    slog.LevelWarn,
		LogFormat:   LogFormatText,
		Strict:      false,
		WorkingDir:  "/",
		HTTPEnabled: true,
		HTTPTimeout: 30 * time.Second,
		UserAgent:   "fileinfo",
	}
}

// Config is the raw content of a configuration file. Nil fields were not
// set in the file.
type Config struct {
	Log  *LogConfig  `hcl:"log,block"`
	Exit *ExitConfig `hcl:"exit,block"`
	File *FileConfig `hcl:"file,block"`
	HTTP *HTTPConfig `hcl:"http,block"`
}

type LogConfig struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

type ExitConfig struct {
	Strict *bool `hcl:"strict,optional"`
}

type FileConfig struct {
	WorkingDir *string `hcl:"working_dir,optional"`
}

type HTTPConfig struct {
	Enabled   *bool             `hcl:"enabled,optional"`
	Timeout   *string           `hcl:"timeout,optional"`
	UserAgent *string           `hcl:"user_agent,optional"`
	Headers   map[string]string `hcl:"headers,optional"`
}

// Load reads and decodes the configuration file at the given path.
func Load(path string) (Settings, error) {
	f, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return Settings{}, errConfigFn(diags)
	}
	return decode(f)
}

// Parse decodes configuration from src. The filename is used only in
// diagnostic messages.
func Parse(src []byte, filename string) (Settings, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return Settings{}, errConfigFn(diags)
	}
	return decode(f)
}

func decode(f *hcl.File) (Settings, error) {
	var cfg Config
	if diags := gohcl.DecodeBody(f.Body, evalContext(), &cfg); diags.HasErrors() {
		return Settings{}, errConfigFn(diags)
	}
	s, err := cfg.Settings()
	if err != nil {
		return Settings{}, errConfigFn(err)
	}
	return s, nil
}

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env":      funcs.Env(),
			"format":   stdlib.FormatFunc,
			"lower":    stdlib.LowerFunc,
			"upper":    stdlib.UpperFunc,
			"coalesce": stdlib.CoalesceFunc,
		},
	}
}

// Settings applies the values set in the configuration on top of the
// defaults and validates them.
func (c *Config) Settings() (Settings, error) {
	s := Default()
	if c.Log != nil {
		if c.Log.Level != nil {
			lvl, err := ParseLogLevel(*c.Log.Level)
			if err != nil {
				return Settings{}, err
			}
			s.LogLevel = lvl
		}
		if c.Log.Format != nil {
			format, err := ParseLogFormat(*c.Log.Format)
			if err != nil {
				return Settings{}, err
			}
			s.LogFormat = format
		}
	}
	if c.Exit != nil && c.Exit.Strict != nil {
		s.Strict = *c.Exit.Strict
	}
	if c.File != nil && c.File.WorkingDir != nil {
		if *c.File.WorkingDir == "" {
			return Settings{}, errEmptyWorkingDir
		}
		s.WorkingDir = *c.File.WorkingDir
	}
	if c.HTTP != nil {
		if c.HTTP.Enabled != nil {
			s.HTTPEnabled = *c.HTTP.Enabled
		}
		if c.HTTP.Timeout != nil {
			d, err := time.ParseDuration(*c.HTTP.Timeout)
			if err != nil {
				return Settings{}, fmt.Errorf("invalid http timeout: %w", err)
			}
			if d < 0 {
				return Settings{}, fmt.Errorf("invalid http timeout: %s is negative", d)
			}
			s.HTTPTimeout = d
		}
		if c.HTTP.UserAgent != nil {
			s.UserAgent = *c.HTTP.UserAgent
		}
		if len(c.HTTP.Headers) > 0 {
			s.Headers = c.HTTP.Headers
		}
	}
	return s, nil
}

// ParseLogLevel parses one of "debug", "info", "warn" or "error".
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", level)
}

// ParseLogFormat parses one of "text" or "json".
func ParseLogFormat(format string) (string, error) {
	switch f := strings.ToLower(format); f {
	case LogFormatText, LogFormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("invalid log format %q: must be 'text' or 'json'", format)
}

var errEmptyWorkingDir = errors.New("file working_dir must not be empty")

func errConfigFn(err error) error {
	return fmt.Errorf("config: %w", err)
}
