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
	"bytes"
	"errors"
	"log/slog"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicleprotocol/fileinfo/contenttype"
	"github.com/chronicleprotocol/fileinfo/fsutil"
)

type stubCapability struct {
	info  *Info
	err   error
	calls int
	refs  []Reference
}

func (s *stubCapability) Resolve(uri string) Reference { return NewReference(uri) }

func (s *stubCapability) QueryInfo(ref Reference) (*Info, error) {
	s.calls++
	s.refs = append(s.refs, ref)
	return s.info, s.err
}

// exactlyOne checks that a result carries exactly one of the three outcomes.
func exactlyOne(t *testing.T, r Result) {
	t.Helper()
	require.NotNil(t, r)
	switch v := r.(type) {
	case Found:
		assert.Equal(t, KindFound, v.Kind())
		assert.NotEmpty(t, v.ContentType)
	case NotFound:
		assert.Equal(t, KindNotFound, v.Kind())
		assert.NotEmpty(t, v.Message)
	case UnknownFailure:
		assert.Equal(t, KindUnknownFailure, v.Kind())
	default:
		t.Fatalf("unexpected result type %T", r)
	}
}

func TestQuerier_Stub(t *testing.T) {
	tests := []struct {
		name string
		info *Info
		err  error
		want Result
	}{
		{
			name: "metadata",
			info: &Info{Name: "hosts", ContentType: "text/plain", Size: 10},
			want: Found{ContentType: "text/plain", Info: Info{Name: "hosts", ContentType: "text/plain", Size: 10}},
		},
		{
			name: "error",
			err:  errors.New("no such file or directory"),
			want: NotFound{Message: "no such file or directory"},
		},
		{
			name: "error without text",
			err:  errors.New(""),
			want: NotFound{Message: unknownErrorMessage},
		},
		{
			name: "error takes precedence over metadata",
			info: &Info{ContentType: "text/plain"},
			err:  errors.New("failed"),
			want: NotFound{Message: "failed"},
		},
		{
			name: "neither metadata nor error",
			want: UnknownFailure{},
		},
		{
			name: "metadata without content type",
			info: &Info{Name: "hosts", Size: 10},
			want: Found{
				ContentType: contenttype.Unknown,
				Info:        Info{Name: "hosts", ContentType: contenttype.Unknown, Size: 10},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stubCapability{info: tt.info, err: tt.err}
			got := NewQuerier(c).Query("file:///hosts")
			exactlyOne(t, got)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, c.calls, "exactly one metadata request")
			assert.Equal(t, "file:///hosts", c.refs[0].String())
		})
	}
}

func TestQuerier_NilCapability(t *testing.T) {
	got := NewQuerier(nil).Query("file:///hosts")
	exactlyOne(t, got)
	assert.Equal(t, KindNotFound, got.Kind())
}

func TestQuerier_FileSystem(t *testing.T) {
	mfs := fstest.MapFS{
		"etc/hosts":   &fstest.MapFile{Data: []byte("127.0.0.1 localhost\n"), Mode: 0o644},
		"etc/empty":   &fstest.MapFile{},
		"var/log.txt": &fstest.MapFile{Data: []byte("line\n")},
	}
	c := NewFSCapability(fsutil.NewFileProto(fsutil.WithFileSystem(mfs)))
	defer c.Close()
	q := NewQuerier(c)

	tests := []struct {
		name     string
		uri      string
		wantKind Kind
		wantType string
	}{
		{name: "nonexistent file", uri: "file:///nonexistentfile", wantKind: KindNotFound},
		{name: "plain text", uri: "file:///etc/hosts", wantKind: KindFound, wantType: "text/plain"},
		{name: "localhost host", uri: "file://localhost/etc/hosts", wantKind: KindFound, wantType: "text/plain"},
		{name: "empty file", uri: "file:///etc/empty", wantKind: KindFound, wantType: "application/x-zerosize"},
		{name: "directory", uri: "file:///etc", wantKind: KindFound, wantType: "inode/directory"},
		{name: "root", uri: "file:///", wantKind: KindFound, wantType: "inode/directory"},
		{name: "malformed URI", uri: "not a uri", wantKind: KindNotFound},
		{name: "invalid escape", uri: "file:///%zz", wantKind: KindNotFound},
		{name: "remote host", uri: "file://example.com/etc/hosts", wantKind: KindNotFound},
		{name: "unsupported scheme", uri: "ftp://example.com/etc/hosts", wantKind: KindNotFound},
		{name: "empty URI", uri: "", wantKind: KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := q.Query(tt.uri)
			exactlyOne(t, got)
			require.Equal(t, tt.wantKind, got.Kind())
			if f, ok := got.(Found); ok {
				assert.Equal(t, tt.wantType, f.ContentType)
				assert.Equal(t, f.ContentType, f.Info.ContentType)
			}
		})
	}
}

func TestQuerier_MalformedURIMessage(t *testing.T) {
	c := NewFSCapability(fsutil.NewFileProto(fsutil.WithFileSystem(fstest.MapFS{})))
	got := NewQuerier(c).Query("not a uri")
	require.IsType(t, NotFound{}, got)
	assert.Contains(t, got.(NotFound).Message, "missing scheme")
}

func TestQuerier_StableVariant(t *testing.T) {
	c := NewFSCapability(fsutil.NewFileProto(fsutil.WithFileWorkingDir(t.TempDir())))
	q := NewQuerier(c)
	first := q.Query("file:///nonexistentfile")
	second := q.Query("file:///nonexistentfile")
	require.IsType(t, NotFound{}, first)
	require.IsType(t, NotFound{}, second)
	assert.Contains(t, first.(NotFound).Message, "no such file")
}

func TestQuerier_PathFallback(t *testing.T) {
	mfs := fstest.MapFS{"etc/hosts": &fstest.MapFile{Data: []byte("127.0.0.1 localhost\n")}}
	c := NewFSCapability(fsutil.NewFileProto(fsutil.WithFileSystem(mfs)), WithPathFallback())
	got := NewQuerier(c).Query("/etc/hosts")
	require.IsType(t, Found{}, got)
	assert.Equal(t, "text/plain", got.(Found).ContentType)
	assert.Equal(t, "hosts", got.(Found).Info.Name)
}

func TestQuerier_SystemHosts(t *testing.T) {
	if _, err := os.Stat("/etc/hosts"); err != nil {
		t.Skip("/etc/hosts not available")
	}
	c := NewFSCapability(fsutil.NewFileProto())
	defer c.Close()
	got := NewQuerier(c).Query("file:///etc/hosts")
	require.IsType(t, Found{}, got)
	assert.NotEmpty(t, got.(Found).ContentType)
}

func TestQuerier_QueryAll(t *testing.T) {
	mfs := fstest.MapFS{"a.json": &fstest.MapFile{Data: []byte(`{"a":1}`)}}
	c := NewFSCapability(fsutil.NewFileProto(fsutil.WithFileSystem(mfs)))
	res := NewQuerier(c).QueryAll("file:///a.json", "file:///missing", "bogus")
	require.Len(t, res, 3)
	assert.Equal(t, KindFound, res[0].Kind())
	assert.Equal(t, "application/json", res[0].(Found).ContentType)
	assert.Equal(t, KindNotFound, res[1].Kind())
	assert.Equal(t, KindNotFound, res[2].Kind())
}

func TestQuerier_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	q := NewQuerier(&stubCapability{err: errors.New("boom")}, WithLogger(logger))
	q.Query("file:///x")
	assert.Contains(t, buf.String(), "Metadata query failed")
	assert.Contains(t, buf.String(), "uri=file:///x")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestFSCapability_Close(t *testing.T) {
	var calls []string
	errRelease := errors.New("release failed")
	c := NewFSCapability(
		fsutil.NewFileProto(fsutil.WithFileSystem(fstest.MapFS{"f": &fstest.MapFile{Data: []byte("x")}})),
		WithRelease(func() error { calls = append(calls, "first"); return nil }),
		WithRelease(func() error { calls = append(calls, "second"); return errRelease }),
	)
	q := NewQuerier(c)
	require.Equal(t, KindFound, q.Query("file:///f").Kind())

	err := c.Close()
	require.ErrorIs(t, err, errRelease)
	assert.Equal(t, []string{"first", "second"}, calls)
	require.NoError(t, c.Close())
	assert.Len(t, calls, 2, "release functions run once")

	got := q.Query("file:///f")
	require.IsType(t, NotFound{}, got)
	assert.Contains(t, got.(NotFound).Message, "capability closed")
}

func TestFSCapability_CloseCollectsErrors(t *testing.T) {
	errFirst := errors.New("first failed")
	errSecond := errors.New("second failed")
	c := NewFSCapability(
		fsutil.NewFileProto(fsutil.WithFileSystem(fstest.MapFS{})),
		WithRelease(func() error { return errFirst }),
		WithRelease(func() error { return errSecond }),
	)
	err := c.Close()
	require.ErrorIs(t, err, errFirst)
	require.ErrorIs(t, err, errSecond)
	assert.Contains(t, err.Error(), "metadata.FSCapability: close:")
}

func TestFSCapability_NilProtocol(t *testing.T) {
	_, err := NewFSCapability(nil).QueryInfo(NewReference("file:///x"))
	require.ErrorIs(t, err, errFSCapabilityNilProto)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "found", KindFound.String())
	assert.Equal(t, "not found", KindNotFound.String())
	assert.Equal(t, "unknown failure", KindUnknownFailure.String())
	assert.Equal(t, "invalid", Kind(42).String())
}
