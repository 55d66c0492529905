package vault

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// CreateFile writes data to a new file at path, creating missing parent
// folders, and returns the resolved path. The file must not exist yet.
func (v *Vault) CreateFile(path string, data []byte) (resolved string, err error) {
	defer v.observe(OpCreateFile, path, time.Now(), &err)

	if err := v.validate(OpCreateFile, path); err != nil {
		return "", err
	}

	file := v.resolve(path)
	info, err := stat(file)
	if err != nil {
		return "", newError(OpCreateFile, path, ErrInternal, err)
	}
	if info != nil {
		return "", newError(OpCreateFile, path, ErrFileAlreadyExists, nil)
	}

	if err := os.MkdirAll(filepath.Dir(file), dirPerm); err != nil {
		return "", newError(OpCreateFile, path, ErrInternal, err)
	}

	// O_EXCL closes the window between the existence check and the write.
	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", newError(OpCreateFile, path, ErrFileAlreadyExists, err)
		}
		return "", newError(OpCreateFile, path, ErrInternal, err)
	}

	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return "", newError(OpCreateFile, path, ErrInternal, err)
	}
	return file, nil
}

// ReadFile returns the full contents of the file at path.
func (v *Vault) ReadFile(path string) (data []byte, err error) {
	defer v.observe(OpReadFile, path, time.Now(), &err)

	if err := v.validate(OpReadFile, path); err != nil {
		return nil, err
	}

	file := v.resolve(path)
	if _, err := requireFile(OpReadFile, path, file); err != nil {
		return nil, err
	}

	data, err = os.ReadFile(file)
	if err != nil {
		return nil, newError(OpReadFile, path, ErrInternal, err)
	}
	return data, nil
}

// RenameFile moves the file at path to newName under the same parent.
func (v *Vault) RenameFile(path, newName string) (resolved string, err error) {
	defer v.observe(OpRenameFile, path, time.Now(), &err)

	if err := v.validate(OpRenameFile, path); err != nil {
		return "", err
	}
	if err := v.validate(OpRenameFile, newName); err != nil {
		return "", err
	}

	source := v.resolve(path)
	if _, err := requireFile(OpRenameFile, path, source); err != nil {
		return "", err
	}

	target := filepath.Join(filepath.Dir(source), newName)
	if err := os.Rename(source, target); err != nil {
		return "", newError(OpRenameFile, path, ErrInternal, err)
	}
	return target, nil
}

// MoveFile moves the file at path into the folder at newPath, keeping its
// name. Like MoveFolder, the destination must be an existing folder.
func (v *Vault) MoveFile(path, newPath string) (resolved string, err error) {
	defer v.observe(OpMoveFile, path, time.Now(), &err)

	if err := v.validate(OpMoveFile, path); err != nil {
		return "", err
	}
	if err := v.validate(OpMoveFile, newPath); err != nil {
		return "", err
	}

	source := v.resolve(path)
	parent := v.resolve(newPath)
	target := filepath.Join(parent, filepath.Base(source))

	sourceInfo, err := stat(source)
	if err != nil {
		return "", newError(OpMoveFile, path, ErrInternal, err)
	}
	parentInfo, err := stat(parent)
	if err != nil {
		return "", newError(OpMoveFile, newPath, ErrInternal, err)
	}

	switch {
	case sourceInfo == nil:
		return "", newError(OpMoveFile, path, ErrFileNotFound, nil)
	case parentInfo == nil:
		return "", newError(OpMoveFile, newPath, ErrFileNotFound, nil)
	case !sourceInfo.Mode().IsRegular():
		return "", newError(OpMoveFile, path, ErrNotAFile, nil)
	case !parentInfo.IsDir():
		return "", newError(OpMoveFile, newPath, ErrNotAFolder, nil)
	}

	if err := os.Rename(source, target); err != nil {
		return "", newError(OpMoveFile, path, ErrInternal, err)
	}
	return target, nil
}

// DeleteFile removes the file at path.
func (v *Vault) DeleteFile(path string) (err error) {
	defer v.observe(OpDeleteFile, path, time.Now(), &err)

	if err := v.validate(OpDeleteFile, path); err != nil {
		return err
	}

	file := v.resolve(path)
	if _, err := requireFile(OpDeleteFile, path, file); err != nil {
		return err
	}

	if err := os.Remove(file); err != nil {
		return newError(OpDeleteFile, path, ErrInternal, err)
	}
	return nil
}
