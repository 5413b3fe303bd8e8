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

package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	netURL "net/url"
	"slices"
	"strings"
)

// ProtoFunc is a function that creates a Protocol from a URL.
type ProtoFunc func(*netURL.URL) (Protocol, error)

// NewMux creates a new protocol multiplexer that routes URIs to registered protocols
// based on their scheme. Schemes are matched case-insensitively and URIs
// without a scheme are routed to the "file" protocol.
func NewMux(ps map[string]ProtoFunc) Protocol {
	m := &mux{ps: make(map[string]ProtoFunc, len(ps))}
	for s, f := range ps {
		m.ps[strings.ToLower(s)] = f
	}
	return m
}

type mux struct {
	ps map[string]ProtoFunc
}

// FileSystem implements the Protocol interface.
func (m *mux) FileSystem(uri *netURL.URL) (fs.FS, string, error) {
	if uri == nil {
		return nil, "", errMuxNilURI
	}
	uri = uriCopy(uri)
	uri.Scheme = strings.ToLower(uri.Scheme)
	if uri.Scheme == "" {
		uri.Scheme = "file"
	}
	f, ok := m.ps[uri.Scheme]
	if !ok {
		return nil, "", errMuxUnknownSchemeFn(uri.Scheme, m.schemes())
	}
	p, err := f(uri)
	if err != nil {
		return nil, "", errMuxFn(err)
	}
	return p.FileSystem(uri)
}

func (m *mux) schemes() []string {
	s := make([]string, 0, len(m.ps))
	for k := range m.ps {
		s = append(s, k)
	}
	slices.Sort(s)
	return s
}

var (
	errMuxNilURI        = errors.New("fsutil.mux: nil URI")
	errMuxUnknownScheme = errors.New("fsutil.mux: unknown scheme")
)

func errMuxFn(err error) error {
	return fmt.Errorf("fsutil.mux: %w", err)
}

func errMuxUnknownSchemeFn(scheme string, known []string) error {
	return fmt.Errorf("%w: %s (supported: %s)", errMuxUnknownScheme, scheme, strings.Join(known, ", "))
}
