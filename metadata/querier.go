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
	"log/slog"

	"github.com/chronicleprotocol/fileinfo/contenttype"
)

// unknownErrorMessage is reported when a capability fails with an error
// that has no text.
const unknownErrorMessage = "unknown error"

type QuerierOption func(*Querier)

// WithLogger sets the logger used to report query outcomes at debug level.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) QuerierOption {
	return func(q *Querier) {
		q.logger = logger
	}
}

// Querier resolves URIs to their metadata using a Capability.
type Querier struct {
	capability Capability
	logger     *slog.Logger
}

// NewQuerier creates a new querier that uses the given capability.
func NewQuerier(c Capability, opts ...QuerierOption) *Querier {
	q := &Querier{capability: c}
	for _, opt := range opts {
		opt(q)
	}
	if q.logger == nil {
		q.logger = slog.New(slog.DiscardHandler)
	}
	return q
}

// Query issues a single metadata request for the given URI and returns its
// outcome. The URI is not validated, malformed URIs are reported by the
// capability and result in NotFound.
//
// The returned Result is never nil.
func (q *Querier) Query(uri string) Result {
	if q.capability == nil {
		return q.notFound(uri, "metadata: nil capability")
	}
	info, err := q.capability.QueryInfo(q.capability.Resolve(uri))
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = unknownErrorMessage
		}
		return q.notFound(uri, msg)
	}
	if info == nil {
		q.logger.Debug("Capability returned neither metadata nor an error", "uri", uri)
		return UnknownFailure{}
	}
	res := *info
	if res.ContentType == "" {
		res.ContentType = contenttype.Unknown
	}
	q.logger.Debug("Metadata found", "uri", uri, "content_type", res.ContentType, "size", res.Size)
	return Found{ContentType: res.ContentType, Info: res}
}

// QueryAll queries the given URIs one after another and returns the results
// in the same order.
func (q *Querier) QueryAll(uris ...string) []Result {
	res := make([]Result, 0, len(uris))
	for _, uri := range uris {
		res = append(res, q.Query(uri))
	}
	return res
}

func (q *Querier) notFound(uri, msg string) Result {
	q.logger.Debug("Metadata query failed", "uri", uri, "error", msg)
	return NotFound{Message: msg}
}
