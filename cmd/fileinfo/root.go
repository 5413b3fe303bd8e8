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

package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chronicleprotocol/fileinfo/config"
	"github.com/chronicleprotocol/fileinfo/metadata"
)

type options struct {
	configPath  string
	strict      bool
	verbose     bool
	noColor     bool
	paths       bool
	logLevel    string
	logFormat   string
	workDir     string
	httpTimeout time.Duration
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "fileinfo [flags] URI [URI...]",
		Short: "Query the content type of files identified by URIs",
		Long: `fileinfo queries the metadata of each given URI and reports whether it
could be read. Supported schemes are file, http and https.

By default the exit status is 0 for every query outcome. With --strict the
exit status is 1 if a resource could not be read and 2 if the metadata
backend reported neither metadata nor an error.`,
		Example: `  fileinfo file:///etc/hosts
  fileinfo --verbose https://example.com/index.html
  fileinfo --strict --paths /etc/hosts /etc/passwd`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.settings(cmd.Flags())
			if err != nil {
				return err
			}
			return query(cmd, s, opts, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "path to an HCL configuration file")
	f.BoolVar(&opts.strict, "strict", false, "exit with a non-zero status if a query fails")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "print the content type of found resources to stdout")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	f.BoolVar(&opts.paths, "paths", false, "treat arguments without a scheme as local file paths")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	f.StringVar(&opts.logFormat, "log-format", config.LogFormatText, "log format: text or json")
	f.StringVar(&opts.workDir, "workdir", "/", "root directory for file URIs")
	f.DurationVar(&opts.httpTimeout, "http-timeout", 30*time.Second, "timeout for HTTP metadata requests")
	return cmd
}

// settings loads the configuration file, if any, and applies the flags that
// were explicitly set on top of it.
func (o *options) settings(f *pflag.FlagSet) (config.Settings, error) {
	s := config.Default()
	if o.configPath != "" {
		var err error
		if s, err = config.Load(o.configPath); err != nil {
			return config.Settings{}, err
		}
	}
	if f.Changed("log-level") {
		lvl, err := config.ParseLogLevel(o.logLevel)
		if err != nil {
			return config.Settings{}, err
		}
		s.LogLevel = lvl
	}
	if f.Changed("log-format") {
		format, err := config.ParseLogFormat(o.logFormat)
		if err != nil {
			return config.Settings{}, err
		}
		s.LogFormat = format
	}
	if f.Changed("strict") {
		s.Strict = o.strict
	}
	if f.Changed("workdir") {
		s.WorkingDir = o.workDir
	}
	if f.Changed("http-timeout") {
		s.HTTPTimeout = o.httpTimeout
	}
	return s, nil
}

func query(cmd *cobra.Command, s config.Settings, opts *options, uris []string, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, s)
	logger.Debug("Configuration loaded", "strict", s.Strict, "working_dir", s.WorkingDir, "http", s.HTTPEnabled)

	capability := newCapability(cmd.Context(), s, opts.paths)
	defer func() {
		if err := capability.Close(); err != nil {
			logger.Warn("Failed to release metadata capability", "error", err)
		}
	}()

	q := metadata.NewQuerier(capability, metadata.WithLogger(logger))
	r := newReporter(stdout, stderr, opts.noColor, opts.verbose)
	code := 0
	for _, uri := range uris {
		res := q.Query(uri)
		r.report(uri, res)
		if s.Strict {
			code = max(code, exitCode(res))
		}
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func newLogger(w io.Writer, s config.Settings) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: s.LogLevel}
	if s.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}
