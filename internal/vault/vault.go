package vault

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Operation names, used in errors, logs and metrics.
const (
	OpValidate         = "validate"
	OpCreateFolder     = "create_folder"
	OpDeleteFolder     = "delete_folder"
	OpRenameFolder     = "rename_folder"
	OpMoveFolder       = "move_folder"
	OpGetFolderTree    = "get_folder_tree"
	OpGetFolderContent = "get_folder_content"
	OpListFolder       = "list_folder"
	OpSearch           = "search"
	OpArchive          = "archive"
	OpCreateFile       = "create_file"
	OpReadFile         = "read_file"
	OpRenameFile       = "rename_file"
	OpMoveFile         = "move_file"
	OpDeleteFile       = "delete_file"
)

// DefaultMaxTreeDepth bounds folder tree recursion unless overridden.
const DefaultMaxTreeDepth = 64

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// Observer receives one call per finished operation. Outcome is "ok" or the
// KindName of the returned error.
type Observer interface {
	ObserveOperation(op, outcome string, duration time.Duration)
}

// Vault is a filesystem gateway bound to one base directory.
type Vault struct {
	base     string
	absBase  string
	logger   *zap.Logger
	observer Observer
	maxDepth int
}

// Option configures a Vault.
type Option func(*Vault)

// WithLogger attaches a logger. Internal failures are logged at error level,
// everything else at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Vault) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithObserver attaches an operation observer, typically a metrics collector.
func WithObserver(observer Observer) Option {
	return func(v *Vault) {
		v.observer = observer
	}
}

// WithMaxTreeDepth limits how many folder levels GetFolderTree descends.
// Zero or a negative value removes the limit.
func WithMaxTreeDepth(depth int) Option {
	return func(v *Vault) {
		v.maxDepth = depth
	}
}

// New creates a Vault confined to baseDir. The directory is not created or
// checked here.
func New(baseDir string, opts ...Option) *Vault {
	v := &Vault{
		base:     baseDir,
		absBase:  baseDir,
		logger:   zap.NewNop(),
		maxDepth: DefaultMaxTreeDepth,
	}
	if abs, err := filepath.Abs(baseDir); err == nil {
		v.absBase = abs
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Base returns the base directory the vault was created with.
func (v *Vault) Base() string {
	return v.base
}

// Validate reports ErrInvalidPath if path contains a ".." segment. No other
// normalization is applied.
func (v *Vault) Validate(path string) error {
	return v.validate(OpValidate, path)
}

func (v *Vault) validate(op, path string) error {
	if hasParentSegment(path) {
		return newError(op, path, ErrInvalidPath, nil)
	}
	return nil
}

func hasParentSegment(path string) bool {
	for _, segment := range strings.FieldsFunc(path, isSeparator) {
		if segment == ".." {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}

// resolve joins a validated relative path with the base directory.
func (v *Vault) resolve(path string) string {
	return filepath.Join(v.base, path)
}

func (v *Vault) isBase(resolved string) bool {
	return resolved == filepath.Clean(v.base)
}

// guardBase rejects mutations that target the base directory itself.
func (v *Vault) guardBase(op, path, resolved string) error {
	if v.isBase(resolved) {
		return newError(op, path, ErrInvalidPath, errors.New("the base directory cannot be modified"))
	}
	return nil
}

// stat follows symlinks and returns nil info when nothing exists at p.
func stat(p string) (fs.FileInfo, error) {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) || errors.Is(err, syscall.ELOOP) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

// requireFolder checks that resolved exists and is a directory.
func requireFolder(op, path, resolved string) (fs.FileInfo, error) {
	info, err := stat(resolved)
	switch {
	case err != nil:
		return nil, newError(op, path, ErrInternal, err)
	case info == nil:
		return nil, newError(op, path, ErrFolderNotFound, nil)
	case !info.IsDir():
		return nil, newError(op, path, ErrNotAFolder, nil)
	}
	return info, nil
}

// requireFile checks that resolved exists and is a regular file.
func requireFile(op, path, resolved string) (fs.FileInfo, error) {
	info, err := stat(resolved)
	switch {
	case err != nil:
		return nil, newError(op, path, ErrInternal, err)
	case info == nil:
		return nil, newError(op, path, ErrFileNotFound, nil)
	case !info.Mode().IsRegular():
		return nil, newError(op, path, ErrNotAFile, nil)
	}
	return info, nil
}

// observe logs and reports the outcome of an operation. Call it deferred with
// a pointer to the named error result.
func (v *Vault) observe(op, path string, start time.Time, errp *error) {
	duration := time.Since(start)
	outcome := KindName(*errp)

	switch {
	case *errp == nil:
		v.logger.Debug("vault operation completed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Duration("duration", duration),
		)
	case errors.Is(*errp, ErrInternal):
		v.logger.Error("vault operation failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Error(*errp),
		)
	default:
		v.logger.Debug("vault operation rejected",
			zap.String("op", op),
			zap.String("path", path),
			zap.String("kind", outcome),
		)
	}

	if v.observer != nil {
		v.observer.ObserveOperation(op, outcome, duration)
	}
}
