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

// Package fsutil maps URIs to fs.FS implementations so that files behind
// different URI schemes can be inspected through the same interface.
//
// The Protocol interface takes a URI and returns an appropriate fs.FS
// implementation and the path to the entry within that file system. The
// "file" protocol serves the local file system, the "http" protocol serves
// remote resources and answers fs.Stat with a HEAD request.
//
// To support multiple URI schemes, the package provides the "Mux" protocol,
// which delegates the URI to the appropriate protocol based on the scheme.
//
// Example:
//
//	mux := NewMux(map[string]ProtoFunc{
//		"file":  func(uri *url.URL) (Protocol, error) { return NewFileProto(), nil },
//		"http":  func(uri *url.URL) (Protocol, error) { return NewHTTPProto(context.Background()), nil },
//		"https": func(uri *url.URL) (Protocol, error) { return NewHTTPProto(context.Background()), nil },
//	})
//
//	fsys, path, err := ParseURI(mux, "https://example.com/index.html")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	info, err := fs.Stat(fsys, path)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(info.Size())
package fsutil
