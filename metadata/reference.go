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

// Reference identifies a resource by its URI. The zero value refers to the
// empty URI. References are immutable.
type Reference struct {
	uri string
}

// NewReference creates a reference for the given URI. No validation or I/O
// is performed.
func NewReference(uri string) Reference {
	return Reference{uri: uri}
}

// String returns the URI of the reference.
func (r Reference) String() string {
	return r.uri
}
