package vault

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a Vault matches exactly one of them.
var (
	ErrInvalidPath         = errors.New("the path is invalid")
	ErrInvalidFormat       = errors.New("the format is invalid")
	ErrFolderAlreadyExists = errors.New("the folder already exists")
	ErrFolderNotFound      = errors.New("the folder does not exist")
	ErrNotAFolder          = errors.New("the path is not a folder")
	ErrFileAlreadyExists   = errors.New("the file already exists")
	ErrFileNotFound        = errors.New("the file does not exist")
	ErrNotAFile            = errors.New("the path is not a file")
	ErrInternal            = errors.New("internal error")
)

var kindNames = []struct {
	kind error
	name string
}{
	{ErrInvalidPath, "invalid_path"},
	{ErrInvalidFormat, "invalid_format"},
	{ErrFolderAlreadyExists, "folder_already_exists"},
	{ErrFolderNotFound, "folder_not_found"},
	{ErrNotAFolder, "not_a_folder"},
	{ErrFileAlreadyExists, "file_already_exists"},
	{ErrFileNotFound, "file_not_found"},
	{ErrNotAFile, "not_a_file"},
	{ErrInternal, "internal"},
}

// Error describes a failed vault operation.
type Error struct {
	Op   string // operation name, e.g. "create_folder"
	Path string // caller-supplied path the failure refers to
	Kind error  // one of the Err* sentinels
	Err  error  // underlying cause, may be nil
}

var _ error = (*Error)(nil)

func newError(op, path string, kind, cause error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return "(*vault.Error)(nil)"
	}
	msg := fmt.Sprintf("%s %q: %s", e.Op, e.Path, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the kind sentinel carried by err. Errors that did not
// originate from a Vault are reported as ErrInternal; nil yields nil.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	var ve *Error
	if errors.As(err, &ve) && ve.Kind != nil {
		return ve.Kind
	}
	for _, k := range kindNames {
		if errors.Is(err, k.kind) {
			return k.kind
		}
	}
	return ErrInternal
}

// KindName returns a stable snake_case label for the kind of err, or "ok"
// for nil. Used for metric labels and API responses.
func KindName(err error) string {
	if err == nil {
		return "ok"
	}
	kind := KindOf(err)
	for _, k := range kindNames {
		if k.kind == kind {
			return k.name
		}
	}
	return "internal"
}
