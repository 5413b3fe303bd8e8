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

// Package metadata queries the content type of resources identified by URIs.
//
// A Querier resolves a URI through a Capability and reports exactly one of
// three outcomes:
//
//   - Found: the resource exists and its content type is known.
//   - NotFound: the resource could not be queried. The result carries the
//     diagnostic message of the underlying failure.
//   - UnknownFailure: the capability reported neither metadata nor an error.
//
// Failures are returned as values, the Querier never panics, never retries
// and never caches.
//
// Example:
//
//	capability := metadata.NewFSCapability(fsutil.NewFileProto())
//	defer capability.Close()
//
//	switch r := metadata.NewQuerier(capability).Query("file:///etc/hosts").(type) {
//	case metadata.Found:
//		fmt.Println(r.ContentType)
//	case metadata.NotFound:
//		fmt.Println("unable to read file:", r.Message)
//	case metadata.UnknownFailure:
//		fmt.Println("no file info and no error set")
//	}
package metadata
