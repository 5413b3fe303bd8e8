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

// Package contenttype detects the media type of file system entries.
//
// Detection follows the order used by desktop file managers: a type already
// known to the file system wins, special files get an "inode/*" type, empty
// files are "application/x-zerosize", then the file name extension is
// consulted and finally the first bytes of the content are sniffed.
package contenttype

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	Directory   = "inode/directory"
	Symlink     = "inode/symlink"
	FIFO        = "inode/fifo"
	Socket      = "inode/socket"
	CharDevice  = "inode/chardevice"
	BlockDevice = "inode/blockdevice"
	ZeroSize    = "application/x-zerosize"
	Unknown     = "application/octet-stream"
)

// Detect returns the media type of the named entry of fsys. The info
// argument must be the result of stating the entry. The returned type never
// carries parameters, e.g. "text/plain" instead of
// "text/plain; charset=utf-8".
//
// If info implements ContentType() string and returns a non-empty value,
// that value is used without touching the file system.
func Detect(fsys fs.FS, name string, info fs.FileInfo) (string, error) {
	if info == nil {
		return "", errNilInfo
	}
	if ct, ok := info.(interface{ ContentType() string }); ok {
		if t := bare(ct.ContentType()); t != "" {
			return t, nil
		}
	}
	if t := modeType(info.Mode()); t != "" {
		return t, nil
	}
	if info.Size() == 0 {
		return ZeroSize, nil
	}
	if t := ByExtension(name); t != "" {
		return t, nil
	}
	return sniff(fsys, name)
}

// ByExtension returns the media type registered for the extension of the
// given name or an empty string if the extension is unknown. Query strings
// are ignored.
func ByExtension(name string) string {
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	ext := path.Ext(name)
	if ext == "" {
		return ""
	}
	return bare(mime.TypeByExtension(ext))
}

func modeType(mode fs.FileMode) string {
	switch {
	case mode.IsDir():
		return Directory
	case mode&fs.ModeSymlink != 0:
		return Symlink
	case mode&fs.ModeNamedPipe != 0:
		return FIFO
	case mode&fs.ModeSocket != 0:
		return Socket
	case mode&fs.ModeCharDevice != 0:
		return CharDevice
	case mode&fs.ModeDevice != 0:
		return BlockDevice
	}
	return ""
}

func sniff(fsys fs.FS, name string) (string, error) {
	f, err := fsys.Open(name)
	if errors.Is(err, fs.ErrPermission) {
		// Metadata stays available for entries that cannot be read.
		return Unknown, nil
	}
	if err != nil {
		return "", errSniffFn(name, err)
	}
	defer f.Close()
	m, err := mimetype.DetectReader(f)
	if err != nil {
		return "", errSniffFn(name, err)
	}
	if t := bare(m.String()); t != "" {
		return t, nil
	}
	return Unknown, nil
}

// bare strips parameters from a media type and lowercases it.
func bare(t string) string {
	if t == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}

var errNilInfo = errors.New("contenttype: nil file info")

func errSniffFn(name string, err error) error {
	return fmt.Errorf("contenttype: sniff %s: %w", name, err)
}
