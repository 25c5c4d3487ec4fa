// Package renamer applies filename changes inside a single directory.
package renamer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// RenameErrorType represents the type of rename error.
type RenameErrorType string

const (
	// SourceNotFound indicates the file vanished before it could be renamed.
	SourceNotFound RenameErrorType = "SOURCE_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied RenameErrorType = "PERMISSION_DENIED"
	// InvalidName indicates a name that would leave the directory.
	InvalidName RenameErrorType = "INVALID_NAME"
	// RenameFailed covers every other filesystem refusal.
	RenameFailed RenameErrorType = "RENAME_FAILED"
)

// RenameError represents an error that occurred while renaming one file.
type RenameError struct {
	Type RenameErrorType
	Name string
	Err  error
}

func (e *RenameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Name)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// Kind returns the error type as a string.
func (e *RenameError) Kind() string {
	return string(e.Type)
}

// Rename renames oldName to newName inside directory. Both names must be
// plain filenames. An existing file at newName is replaced.
func Rename(directory, oldName, newName string) error {
	for _, name := range []string{oldName, newName} {
		if err := checkName(name); err != nil {
			return err
		}
	}

	oldPath := filepath.Join(directory, oldName)
	newPath := filepath.Join(directory, newName)

	if err := os.Rename(oldPath, newPath); err != nil {
		return classify(oldName, err)
	}
	return nil
}

// checkName rejects names that are empty or carry a path separator.
// Only the platform separator counts; a backslash is an ordinary character
// on Unix.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." {
		return &RenameError{
			Type: InvalidName,
			Name: name,
			Err:  errors.New("empty or relative name"),
		}
	}
	if filepath.Base(name) != name {
		return &RenameError{
			Type: InvalidName,
			Name: name,
			Err:  errors.New("name contains a path separator"),
		}
	}
	return nil
}

// classify maps an os.Rename failure onto a RenameError.
func classify(name string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &RenameError{Type: SourceNotFound, Name: name, Err: err}
	case errors.Is(err, os.ErrPermission):
		return &RenameError{Type: PermissionDenied, Name: name, Err: err}
	default:
		return &RenameError{Type: RenameFailed, Name: name, Err: err}
	}
}
