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

package metadata

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/chronicleprotocol/go-lib/errutil"

	"github.com/chronicleprotocol/fileinfo/contenttype"
	"github.com/chronicleprotocol/fileinfo/fsutil"
)

// Capability provides access to resource metadata.
type Capability interface {
	// Resolve creates a reference for the given URI without performing I/O.
	Resolve(uri string) Reference

	// QueryInfo performs a single blocking metadata request. A well-behaved
	// implementation returns either metadata or an error.
	QueryInfo(ref Reference) (*Info, error)
}

type FSOption func(*FSCapability)

// WithPathFallback makes the capability accept URIs without a scheme and
// treat them as local file paths. By default such URIs are rejected.
func WithPathFallback() FSOption {
	return func(c *FSCapability) {
		c.parse = fsutil.ParseURI
	}
}

// WithRelease registers a function that is called when the capability is
// closed. Functions are called in the order they were registered.
func WithRelease(fn func() error) FSOption {
	return func(c *FSCapability) {
		c.release = append(c.release, fn)
	}
}

// FSCapability is a Capability backed by an fsutil.Protocol. Resources are
// stated through the file system returned by the protocol and their content
// type is detected with the contenttype package.
//
// An FSCapability must be closed after use to release the resources held by
// its protocols. It is not safe for concurrent use.
type FSCapability struct {
	proto   fsutil.Protocol
	parse   func(fsutil.Protocol, string) (fs.FS, string, error)
	release []func() error
	closed  bool
}

// NewFSCapability creates a new capability that uses the given protocol.
func NewFSCapability(proto fsutil.Protocol, opts ...FSOption) *FSCapability {
	c := &FSCapability{proto: proto, parse: fsutil.ParseStrictURI}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve implements the Capability interface.
func (c *FSCapability) Resolve(uri string) Reference {
	return NewReference(uri)
}

// QueryInfo implements the Capability interface.
func (c *FSCapability) QueryInfo(ref Reference) (*Info, error) {
	if c.closed {
		return nil, errFSCapabilityFn(ref, errFSCapabilityClosed)
	}
	if c.proto == nil {
		return nil, errFSCapabilityFn(ref, errFSCapabilityNilProto)
	}
	fsys, name, err := c.parse(c.proto, ref.String())
	if err != nil {
		return nil, errFSCapabilityFn(ref, err)
	}
	st, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, errFSCapabilityFn(ref, err)
	}
	ct, err := contenttype.Detect(fsys, name, st)
	if err != nil {
		return nil, errFSCapabilityFn(ref, err)
	}
	return &Info{
		Name:        st.Name(),
		ContentType: ct,
		Size:        st.Size(),
		Mode:        st.Mode(),
		ModTime:     st.ModTime(),
	}, nil
}

// Close releases the capability. Subsequent queries fail. Calling Close more
// than once has no effect.
func (c *FSCapability) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var err error
	for _, fn := range c.release {
		err = errutil.Append(err, fn())
	}
	if err != nil {
		return fmt.Errorf("metadata.FSCapability: close: %w", err)
	}
	return nil
}

var (
	errFSCapabilityClosed   = errors.New("capability closed")
	errFSCapabilityNilProto = errors.New("nil protocol")
)

func errFSCapabilityFn(ref Reference, err error) error {
	return fmt.Errorf("metadata.FSCapability: %q: %w", ref.String(), err)
}
