package vault

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestVault(t *testing.T, opts ...Option) (*Vault, string) {
	t.Helper()
	base := t.TempDir()
	return New(base, opts...), base
}

func mkdirs(t *testing.T, base string, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(base, dir), 0o755))
	}
}

func writeFile(t *testing.T, base, name, content string) {
	t.Helper()
	full := filepath.Join(base, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingObserver) ObserveOperation(op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op+":"+outcome)
}

func TestValidate(t *testing.T) {
	v, _ := newTestVault(t)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "empty", path: "", wantErr: false},
		{name: "simple", path: "folder", wantErr: false},
		{name: "nested", path: "a/b/c.txt", wantErr: false},
		{name: "dots in name", path: "a/..b/c..", wantErr: false},
		{name: "single dot", path: "./a", wantErr: false},
		{name: "absolute looking", path: "/etc/passwd", wantErr: false},
		{name: "redundant separators", path: "a//b///c", wantErr: false},
		{name: "parent only", path: "..", wantErr: true},
		{name: "leading parent", path: "../secret", wantErr: true},
		{name: "inner parent", path: "a/../../b", wantErr: true},
		{name: "trailing parent", path: "a/b/..", wantErr: true},
		{name: "absolute with parent", path: "/a/../b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEveryOperationRejectsParentSegments(t *testing.T) {
	v, base := newTestVault(t)
	mkdirs(t, base, "inside")
	writeFile(t, base, "inside/file.txt", "x")

	// A sibling of the base directory that must never be touched.
	outside := filepath.Join(filepath.Dir(base), "outside-"+filepath.Base(base))
	require.NoError(t, os.MkdirAll(outside, 0o755))
	t.Cleanup(func() { os.RemoveAll(outside) })

	escape := "../" + filepath.Base(outside)

	ops := map[string]func() error{
		"create folder":   func() error { _, err := v.CreateFolder(escape + "/new"); return err },
		"delete folder":   func() error { return v.DeleteFolder(escape) },
		"rename folder":   func() error { _, err := v.RenameFolder("inside", "../escaped"); return err },
		"move folder":     func() error { _, err := v.MoveFolder("inside", escape); return err },
		"folder tree":     func() error { _, err := v.GetFolderTree(escape); return err },
		"folder content":  func() error { _, err := v.GetFolderContent(".."); return err },
		"list folder":     func() error { _, err := v.ListFolder(".."); return err },
		"create file":     func() error { _, err := v.CreateFile(escape+"/f.txt", []byte("x")); return err },
		"read file":       func() error { _, err := v.ReadFile("inside/../../x"); return err },
		"rename file":     func() error { _, err := v.RenameFile("inside/file.txt", "../../f.txt"); return err },
		"move file":       func() error { _, err := v.MoveFile("inside/file.txt", escape); return err },
		"delete file":     func() error { return v.DeleteFile(escape + "/f.txt") },
		"search":          func() error { _, err := v.Search(t.Context(), "..", "**"); return err },
		"archive":         func() error { return v.Archive(t.Context(), "..", &discard{}, FormatGzip) },
		"validate parent": func() error { return v.Validate("a/..") },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}

	entries, err := os.ReadDir(outside)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written outside the base directory")
	assert.FileExists(t, filepath.Join(base, "inside/file.txt"))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestBaseDirectoryCannotBeMutated(t *testing.T) {
	v, base := newTestVault(t)
	mkdirs(t, base, "dst")

	assert.ErrorIs(t, v.DeleteFolder(""), ErrInvalidPath)
	assert.ErrorIs(t, v.DeleteFolder("."), ErrInvalidPath)

	_, err := v.RenameFolder("", "renamed")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = v.MoveFolder("/", "dst")
	assert.ErrorIs(t, err, ErrInvalidPath)

	assert.DirExists(t, base)
	assert.NoDirExists(t, filepath.Join(filepath.Dir(base), "renamed"))
}

func TestErrorCarriesContext(t *testing.T) {
	v, base := newTestVault(t)
	writeFile(t, base, "file.txt", "x")

	err := v.DeleteFolder("file.txt")
	require.Error(t, err)

	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, OpDeleteFolder, ve.Op)
	assert.Equal(t, "file.txt", ve.Path)
	assert.Equal(t, ErrNotAFolder, ve.Kind)
	assert.Contains(t, err.Error(), "delete_folder")
	assert.Contains(t, err.Error(), "the path is not a folder")
}

func TestInternalErrorWrapsCause(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	v, base := newTestVault(t)
	mkdirs(t, base, "locked")
	require.NoError(t, os.Chmod(filepath.Join(base, "locked"), 0o500))
	t.Cleanup(func() { os.Chmod(filepath.Join(base, "locked"), 0o755) })

	_, err := v.CreateFolder("locked/child")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, ErrInternal, KindOf(err))
}

func TestKindOf(t *testing.T) {
	assert.Nil(t, KindOf(nil))
	assert.Equal(t, ErrInternal, KindOf(errors.New("boom")))
	assert.Equal(t, ErrFileNotFound, KindOf(newError(OpReadFile, "x", ErrFileNotFound, nil)))
	assert.Equal(t, ErrNotAFile, KindOf(ErrNotAFile))
}

func TestKindName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrInvalidPath, "invalid_path"},
		{ErrInvalidFormat, "invalid_format"},
		{ErrFolderAlreadyExists, "folder_already_exists"},
		{ErrFolderNotFound, "folder_not_found"},
		{ErrNotAFolder, "not_a_folder"},
		{ErrFileAlreadyExists, "file_already_exists"},
		{ErrFileNotFound, "file_not_found"},
		{ErrNotAFile, "not_a_file"},
		{ErrInternal, "internal"},
		{errors.New("foreign"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, KindName(tt.err))
		})
	}
}

func TestObserverAndLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rec := &recordingObserver{}
	v, _ := newTestVault(t, WithLogger(zap.New(core)), WithObserver(rec))

	_, err := v.CreateFolder("a")
	require.NoError(t, err)
	_, err = v.CreateFolder("a")
	require.ErrorIs(t, err, ErrFolderAlreadyExists)

	assert.Equal(t, []string{
		"create_folder:ok",
		"create_folder:folder_already_exists",
	}, rec.calls)

	assert.Equal(t, 1, logs.FilterMessage("vault operation completed").Len())
	assert.Equal(t, 1, logs.FilterMessage("vault operation rejected").Len())
}

func TestNewDefaults(t *testing.T) {
	v := New("relative/base")

	assert.Equal(t, "relative/base", v.Base())
	assert.Equal(t, DefaultMaxTreeDepth, v.maxDepth)
	assert.True(t, filepath.IsAbs(v.absBase))
	assert.NotNil(t, v.logger)

	v = New("x", WithLogger(nil), WithMaxTreeDepth(0))
	assert.NotNil(t, v.logger)
	assert.Equal(t, 0, v.maxDepth)
}
