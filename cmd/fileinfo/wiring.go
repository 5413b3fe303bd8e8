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
	"context"
	"net/http"
	netURL "net/url"

	"github.com/chronicleprotocol/fileinfo/config"
	"github.com/chronicleprotocol/fileinfo/fsutil"
	"github.com/chronicleprotocol/fileinfo/metadata"
)

// newProtocol creates the scheme multiplexer for the given settings. The
// returned client is nil if HTTP is disabled.
func newProtocol(ctx context.Context, s config.Settings) (fsutil.Protocol, *http.Client) {
	file := fsutil.NewFileProto(fsutil.WithFileWorkingDir(s.WorkingDir))
	protos := map[string]fsutil.ProtoFunc{
		"file": func(*netURL.URL) (fsutil.Protocol, error) { return file, nil },
	}
	if !s.HTTPEnabled {
		return fsutil.NewMux(protos), nil
	}
	client := &http.Client{Timeout: s.HTTPTimeout}
	opts := []fsutil.HTTPFSOption{fsutil.WithHTTPClient(client)}
	if s.UserAgent != "" {
		opts = append(opts, fsutil.WithHTTPHeader("User-Agent", s.UserAgent))
	}
	for k, v := range s.Headers {
		opts = append(opts, fsutil.WithHTTPHeader(k, v))
	}
	web := fsutil.NewHTTPProto(ctx, opts...)
	protos["http"] = func(*netURL.URL) (fsutil.Protocol, error) { return web, nil }
	protos["https"] = protos["http"]
	return fsutil.NewMux(protos), client
}

func newCapability(ctx context.Context, s config.Settings, paths bool) *metadata.FSCapability {
	proto, client := newProtocol(ctx, s)
	var opts []metadata.FSOption
	if paths {
		opts = append(opts, metadata.WithPathFallback())
	}
	if client != nil {
		opts = append(opts, metadata.WithRelease(func() error {
			client.CloseIdleConnections()
			return nil
		}))
	}
	return metadata.NewFSCapability(proto, opts...)
}
