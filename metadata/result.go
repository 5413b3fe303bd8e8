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
	"io/fs"
	"time"
)

// Kind identifies the variant of a Result.
type Kind int

const (
	KindFound Kind = iota
	KindNotFound
	KindUnknownFailure
)

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindNotFound:
		return "not found"
	case KindUnknownFailure:
		return "unknown failure"
	default:
		return "invalid"
	}
}

// Result is the outcome of a metadata query. It is implemented only by
// Found, NotFound and UnknownFailure.
type Result interface {
	Kind() Kind
	isResult()
}

// Found is returned when the resource exists and its metadata was read.
// ContentType is never empty.
type Found struct {
	ContentType string
	Info        Info
}

// NotFound is returned when the resource could not be queried. Message is
// never empty.
type NotFound struct {
	Message string
}

// UnknownFailure is returned when the capability reported neither metadata
// nor an error.
type UnknownFailure struct{}

func (Found) Kind() Kind          { return KindFound }
func (NotFound) Kind() Kind       { return KindNotFound }
func (UnknownFailure) Kind() Kind { return KindUnknownFailure }

func (Found) isResult()          {}
func (NotFound) isResult()       {}
func (UnknownFailure) isResult() {}

// Info holds the standard attributes of a resource returned by a single
// metadata request.
type Info struct {
	Name        string
	ContentType string
	Size        int64
	Mode        fs.FileMode
	ModTime     time.Time
}
