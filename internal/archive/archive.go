// SPDX-License-Identifier: MPL-2.0

// Package archive writes compiled documents into the zip container the client
// loads as a module.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a blocked writer retries the destination lock.
const lockRetryDelay = 50 * time.Millisecond

var (
	// ErrInvalidEntry is the sentinel error wrapped by InvalidEntryError.
	ErrInvalidEntry = errors.New("invalid archive entry")
	// ErrNoEntries is returned when Write is called without entries.
	ErrNoEntries = errors.New("archive has no entries")
)

type (
	// Entry is one named file inside the archive.
	Entry struct {
		Name string
		Data []byte
	}

	// Sink receives the finished documents of one compilation.
	Sink interface {
		Write(ctx context.Context, path string, entries []Entry) error
	}

	// ZipSink writes a zip file. The archive at path is replaced only after
	// every entry was written and flushed; on failure it is left untouched.
	ZipSink struct {
		// Method is the zip compression method, zip.Deflate or zip.Store.
		Method uint16
	}

	// InvalidEntryError names an entry that cannot be written.
	InvalidEntryError struct {
		Name   string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidEntry, e.Name, e.Reason)
}

// Unwrap returns ErrInvalidEntry for errors.Is() compatibility.
func (e *InvalidEntryError) Unwrap() error { return ErrInvalidEntry }

// NewZipSink returns a sink using the given compression method.
func NewZipSink(method uint16) *ZipSink {
	return &ZipSink{Method: method}
}

// Write stores entries, in order, in a new archive at dest.
//
// Concurrent writers to the same dest are serialized through an exclusive lock
// on dest+".lock". The archive is assembled in a temporary file next to dest
// and renamed over it, so readers never observe a partial archive.
func (s *ZipSink) Write(ctx context.Context, dest string, entries []Entry) (err error) {
	if err := validateEntries(entries); err != nil {
		return err
	}
	switch s.Method {
	case zip.Store, zip.Deflate:
	default:
		return fmt.Errorf("unsupported compression method %d", s.Method)
	}

	dir := filepath.Dir(dest)
	lock := flock.New(dest + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", dest, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", dest)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("unlock %s: %w", dest, unlockErr)
		}
	}()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := s.writeZip(ctx, tmp, entries); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod temp archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp archive: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("replace %s: %w", dest, err)
	}
	committed = true
	return nil
}

func (s *ZipSink) writeZip(ctx context.Context, w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   s.Method,
			Modified: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("add %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("write %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

// Read returns the entries of the archive at path, in archive order.
func Read(path string) ([]Entry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }() // read-only handle

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		var buf bytes.Buffer
		_, err = io.Copy(&buf, rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		entries = append(entries, Entry{Name: f.Name, Data: buf.Bytes()})
	}
	return entries, nil
}

func validateEntries(entries []Entry) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		switch {
		case e.Name == "":
			return &InvalidEntryError{Name: e.Name, Reason: "empty name"}
		case strings.Contains(e.Name, `\`):
			return &InvalidEntryError{Name: e.Name, Reason: "backslash in name"}
		case path.IsAbs(e.Name):
			return &InvalidEntryError{Name: e.Name, Reason: "absolute path"}
		case path.Clean(e.Name) != e.Name || strings.HasPrefix(e.Name, "../") || e.Name == "..":
			return &InvalidEntryError{Name: e.Name, Reason: "not a clean relative path"}
		case seen[e.Name]:
			return &InvalidEntryError{Name: e.Name, Reason: "duplicate name"}
		}
		seen[e.Name] = true
	}
	return nil
}
