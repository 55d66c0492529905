package vault

import (
	"os"
	"path/filepath"
	"time"
)

// CreateFolder creates the folder at path together with any missing parents
// and returns its resolved path. The folder itself must not exist yet.
func (v *Vault) CreateFolder(path string) (resolved string, err error) {
	defer v.observe(OpCreateFolder, path, time.Now(), &err)

	if err := v.validate(OpCreateFolder, path); err != nil {
		return "", err
	}

	folder := v.resolve(path)
	info, err := stat(folder)
	if err != nil {
		return "", newError(OpCreateFolder, path, ErrInternal, err)
	}
	if info != nil {
		return "", newError(OpCreateFolder, path, ErrFolderAlreadyExists, nil)
	}

	if err := os.MkdirAll(folder, dirPerm); err != nil {
		return "", newError(OpCreateFolder, path, ErrInternal, err)
	}
	return folder, nil
}

// DeleteFolder removes the folder at path and everything below it.
func (v *Vault) DeleteFolder(path string) (err error) {
	defer v.observe(OpDeleteFolder, path, time.Now(), &err)

	if err := v.validate(OpDeleteFolder, path); err != nil {
		return err
	}

	folder := v.resolve(path)
	if err := v.guardBase(OpDeleteFolder, path, folder); err != nil {
		return err
	}
	if _, err := requireFolder(OpDeleteFolder, path, folder); err != nil {
		return err
	}

	if err := os.RemoveAll(folder); err != nil {
		return newError(OpDeleteFolder, path, ErrInternal, err)
	}
	return nil
}

// RenameFolder moves the folder at path to newName under the same parent.
// newName may itself contain several segments. Collisions are left to the
// underlying rename call.
func (v *Vault) RenameFolder(path, newName string) (resolved string, err error) {
	defer v.observe(OpRenameFolder, path, time.Now(), &err)

	if err := v.validate(OpRenameFolder, path); err != nil {
		return "", err
	}
	if err := v.validate(OpRenameFolder, newName); err != nil {
		return "", err
	}

	source := v.resolve(path)
	if err := v.guardBase(OpRenameFolder, path, source); err != nil {
		return "", err
	}
	if _, err := requireFolder(OpRenameFolder, path, source); err != nil {
		return "", err
	}

	target := filepath.Join(filepath.Dir(source), newName)
	if err := os.Rename(source, target); err != nil {
		return "", newError(OpRenameFolder, path, ErrInternal, err)
	}
	return target, nil
}

// MoveFolder moves the folder at path into the folder at newPath, keeping
// its name.
func (v *Vault) MoveFolder(path, newPath string) (resolved string, err error) {
	defer v.observe(OpMoveFolder, path, time.Now(), &err)

	if err := v.validate(OpMoveFolder, path); err != nil {
		return "", err
	}
	if err := v.validate(OpMoveFolder, newPath); err != nil {
		return "", err
	}

	source := v.resolve(path)
	if err := v.guardBase(OpMoveFolder, path, source); err != nil {
		return "", err
	}
	parent := v.resolve(newPath)
	target := filepath.Join(parent, filepath.Base(source))

	sourceInfo, err := stat(source)
	if err != nil {
		return "", newError(OpMoveFolder, path, ErrInternal, err)
	}
	parentInfo, err := stat(parent)
	if err != nil {
		return "", newError(OpMoveFolder, newPath, ErrInternal, err)
	}

	switch {
	case sourceInfo == nil:
		return "", newError(OpMoveFolder, path, ErrFolderNotFound, nil)
	case parentInfo == nil:
		return "", newError(OpMoveFolder, newPath, ErrFolderNotFound, nil)
	case !sourceInfo.IsDir():
		return "", newError(OpMoveFolder, path, ErrNotAFolder, nil)
	case !parentInfo.IsDir():
		return "", newError(OpMoveFolder, newPath, ErrNotAFolder, nil)
	}

	if err := os.Rename(source, target); err != nil {
		return "", newError(OpMoveFolder, path, ErrInternal, err)
	}
	return target, nil
}

// GetFolderContent returns the names of the immediate children of the
// folder at path, files and folders alike.
func (v *Vault) GetFolderContent(path string) (names []string, err error) {
	defer v.observe(OpGetFolderContent, path, time.Now(), &err)

	if err := v.validate(OpGetFolderContent, path); err != nil {
		return nil, err
	}

	folder := v.resolve(path)
	if _, err := requireFolder(OpGetFolderContent, path, folder); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, newError(OpGetFolderContent, path, ErrInternal, err)
	}

	names = make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}
