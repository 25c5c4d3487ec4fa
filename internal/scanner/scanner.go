// Package scanner lists SQL script files in a directory.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SQLSuffix is the filename suffix that marks a script file.
const SQLSuffix = ".sql"

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// NotADirectory indicates the path exists but is not a directory.
	NotADirectory ScanErrorType = "NOT_A_DIRECTORY"
	// NoSQLFiles indicates the directory holds no .sql files.
	NoSQLFiles ScanErrorType = "NO_SQL_FILES"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// SymlinkError indicates a symlink was encountered with "error" policy.
	SymlinkError ScanErrorType = "SYMLINK_ERROR"
)

// Symlink policy constants
const (
	SymlinkPolicyFollow = "follow"
	SymlinkPolicySkip   = "skip"
	SymlinkPolicyError  = "error"
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

// IsInvalidDirectory reports whether err means the directory cannot be
// processed at all (missing, not a directory, unreadable or empty).
func IsInvalidDirectory(err error) bool {
	var scanErr *ScanError
	return errors.As(err, &scanErr)
}

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	SymlinkPolicy string // "follow", "skip", or "error"
	Sort          bool   // Return entries in lexicographic order
}

// DefaultScanOptions returns the default scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		SymlinkPolicy: SymlinkPolicyFollow,
	}
}

// FileEntry represents a script file found during scanning.
type FileEntry struct {
	Name     string // Filename only
	FullPath string // Absolute path
}

// IsSQLFile reports whether name carries the .sql suffix. The check is
// case-sensitive.
func IsSQLFile(name string) bool {
	return strings.HasSuffix(name, SQLSuffix)
}

// ListSQLFiles returns the .sql files directly inside directory.
func ListSQLFiles(directory string) ([]FileEntry, error) {
	return ListWithOptions(directory, DefaultScanOptions())
}

// ListWithOptions lists .sql files directly inside directory. Entries are
// returned in directory order unless opts.Sort is set.
func ListWithOptions(directory string, opts ScanOptions) ([]FileEntry, error) {
	if err := CheckDirectory(directory); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &ScanError{
				Type: PermissionDenied,
				Path: directory,
				Err:  err,
			}
		}
		if os.IsNotExist(err) {
			return nil, &ScanError{
				Type: DirectoryNotFound,
				Path: directory,
				Err:  err,
			}
		}
		return nil, err
	}

	files := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		if !IsSQLFile(entry.Name()) {
			continue
		}

		fullPath := filepath.Join(directory, entry.Name())
		info, err := os.Lstat(fullPath)
		if err != nil {
			continue // Skip entries we can't stat
		}

		if info.Mode()&os.ModeSymlink != 0 {
			switch opts.SymlinkPolicy {
			case SymlinkPolicyError:
				return nil, &ScanError{
					Type: SymlinkError,
					Path: fullPath,
					Err:  errors.New("symlink encountered with error policy"),
				}
			case SymlinkPolicySkip:
				continue
			default:
				info, err = os.Stat(fullPath)
				if err != nil {
					continue // Skip broken symlinks
				}
			}
		}

		if info.IsDir() {
			continue
		}

		absPath, err := filepath.Abs(fullPath)
		if err != nil {
			absPath = fullPath
		}
		files = append(files, FileEntry{
			Name:     entry.Name(),
			FullPath: absPath,
		})
	}

	if opts.Sort {
		sort.Slice(files, func(i, j int) bool {
			return files[i].Name < files[j].Name
		})
	}

	return files, nil
}

// Validate checks that directory exists, is a directory and contains at
// least one .sql file. It returns a *ScanError describing the first
// problem found.
func Validate(directory string) error {
	return ValidateWithOptions(directory, DefaultScanOptions())
}

// ValidateWithOptions is Validate with the symlink policy of opts applied,
// so a directory whose only scripts are skipped symlinks is rejected.
func ValidateWithOptions(directory string, opts ScanOptions) error {
	files, err := ListWithOptions(directory, opts)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return &ScanError{
			Type: NoSQLFiles,
			Path: directory,
			Err:  errors.New("directory contains no .sql files"),
		}
	}
	return nil
}

// IsValidDirectory reports whether directory can be processed.
func IsValidDirectory(directory string) bool {
	return Validate(directory) == nil
}

// CheckDirectory verifies that directory exists and is a directory. Unlike
// Validate it does not require any .sql files.
func CheckDirectory(directory string) error {
	info, err := os.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return &ScanError{
				Type: DirectoryNotFound,
				Path: directory,
				Err:  err,
			}
		}
		if os.IsPermission(err) {
			return &ScanError{
				Type: PermissionDenied,
				Path: directory,
				Err:  err,
			}
		}
		return err
	}

	if !info.IsDir() {
		return &ScanError{
			Type: NotADirectory,
			Path: directory,
			Err:  errors.New("path is not a directory"),
		}
	}
	return nil
}
