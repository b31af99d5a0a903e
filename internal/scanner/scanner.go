// Package scanner handles source directory listing for imgsorter.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// NotADirectory indicates the path exists but is not a directory.
	NotADirectory ScanErrorType = "NOT_A_DIRECTORY"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Entry represents a file found during scanning, with the metadata the
// classifier needs so no second stat call is required later.
type Entry struct {
	Name     string // filename only
	Path     string // full path
	Size     int64
	ModTime  time.Time
	ReadOnly bool
}

// Extension returns the entry's extension without the leading dot,
// or "" when the name has none.
func (e Entry) Extension() string {
	ext := filepath.Ext(e.Name)
	if ext == "" {
		return ""
	}
	return ext[1:]
}

// Result is the outcome of scanning one directory: the files directly
// inside it and the number of subdirectories that were present.
type Result struct {
	Files       []Entry
	SubdirsSeen int
}

// Scan enumerates the files directly inside directory, without recursion.
// Subdirectories are never descended into here; recursion is handled up
// front by ExpandRecursive, which turns each source root into a flat group
// of directories. The subdirectory count is reported so the caller can
// record ignored directories when recursion is disabled.
func Scan(afs afero.Fs, directory string) (Result, error) {
	info, err := afs.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, &ScanError{Type: DirectoryNotFound, Path: directory, Err: err}
		}
		if os.IsPermission(err) {
			return Result{}, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return Result{}, err
	}
	if !info.IsDir() {
		return Result{}, &ScanError{
			Type: NotADirectory,
			Path: directory,
			Err:  errors.New("path is not a directory"),
		}
	}

	infos, err := afero.ReadDir(afs, directory)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, fi := range infos {
		if fi.IsDir() {
			res.SubdirsSeen++
			continue
		}
		res.Files = append(res.Files, Entry{
			Name:     fi.Name(),
			Path:     filepath.Join(directory, fi.Name()),
			Size:     fi.Size(),
			ModTime:  fi.ModTime(),
			ReadOnly: fi.Mode().Perm()&0o200 == 0,
		})
	}
	return res, nil
}

// ExpandRecursive walks each source root and returns one group per root
// holding the root itself followed by all of its subdirectories, depth
// first. Unreadable subtrees are skipped silently; the root is always
// included in its group.
func ExpandRecursive(afs afero.Fs, roots []string) [][]string {
	groups := make([][]string, 0, len(roots))
	for _, root := range roots {
		var group []string
		walkDirs(afs, root, &group)
		groups = append(groups, group)
	}
	return groups
}

func walkDirs(afs afero.Fs, dir string, accum *[]string) {
	*accum = append(*accum, dir)

	infos, err := afero.ReadDir(afs, dir)
	if err != nil {
		return
	}
	for _, fi := range infos {
		if fi.IsDir() {
			walkDirs(afs, filepath.Join(dir, fi.Name()), accum)
		}
	}
}
