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
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/chronicleprotocol/fileinfo/metadata"
)

const (
	msgFound          = "seems to be alright"
	msgNotFound       = "Unable to read file: %s"
	msgUnknownFailure = "No file info and no error set"
)

// reporter writes one diagnostic line per query result.
type reporter struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
	green   *color.Color
	red     *color.Color
	yellow  *color.Color
}

func newReporter(out, errOut io.Writer, noColor, verbose bool) *reporter {
	r := &reporter{
		out:     out,
		errOut:  errOut,
		verbose: verbose,
		green:   color.New(color.FgGreen),
		red:     color.New(color.FgRed),
		yellow:  color.New(color.FgYellow),
	}
	// Colors follow errOut, not stdout.
	colored := !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(errOut)
	for _, c := range []*color.Color{r.green, r.red, r.yellow} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *reporter) report(uri string, res metadata.Result) {
	switch v := res.(type) {
	case metadata.Found:
		r.green.Fprintln(r.errOut, msgFound)
		if r.verbose {
			fmt.Fprintf(r.out, "%s\t%s\n", uri, v.ContentType)
		}
	case metadata.NotFound:
		r.red.Fprintf(r.errOut, msgNotFound+"\n", v.Message)
	default:
		r.yellow.Fprintln(r.errOut, msgUnknownFailure)
	}
}

// exitCode maps a result to the exit status used in strict mode.
func exitCode(res metadata.Result) int {
	switch res.Kind() {
	case metadata.KindFound:
		return 0
	case metadata.KindNotFound:
		return 1
	default:
		return 2
	}
}
