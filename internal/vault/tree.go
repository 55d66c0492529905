package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Tree maps each child folder name to its own subtree. Files are not part
// of a Tree; a folder without subfolders maps to an empty Tree. A folder at
// the depth limit also maps to an empty Tree whether or not it has
// subfolders; the vault logs a debug entry when that happens.
type Tree map[string]Tree

// GetFolderTree returns the folder structure below path.
//
// An absolute path that already lies inside the base directory is used
// as-is; anything else is joined with the base directory. Recursion stops at
// the configured maximum depth (deeper folders appear as empty trees) and
// skips any folder that is the same directory as one of its ancestors.
func (v *Vault) GetFolderTree(path string) (tree Tree, err error) {
	defer v.observe(OpGetFolderTree, path, time.Now(), &err)

	if err := v.validate(OpGetFolderTree, path); err != nil {
		return nil, err
	}

	folder := v.treeRoot(path)
	info, err := requireFolder(OpGetFolderTree, path, folder)
	if err != nil {
		return nil, err
	}

	return v.buildTree(path, folder, []fs.FileInfo{info})
}

func (v *Vault) treeRoot(path string) string {
	if filepath.IsAbs(path) && within(v.absBase, path) {
		return filepath.Clean(path)
	}
	return v.resolve(path)
}

func within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// buildTree descends into dir. ancestors holds dir and every folder above it
// up to the tree root.
func (v *Vault) buildTree(path, dir string, ancestors []fs.FileInfo) (Tree, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, newError(OpGetFolderTree, path, ErrInternal, err)
	}

	tree := make(Tree)
	for _, entry := range entries {
		child := filepath.Join(dir, entry.Name())

		// Stat follows symlinks; broken links are skipped like plain files.
		info, err := os.Stat(child)
		if err != nil || !info.IsDir() {
			continue
		}
		if isAncestor(info, ancestors) {
			v.logger.Debug("skipping folder cycle", zap.String("path", child))
			continue
		}
		if v.maxDepth > 0 && len(ancestors) >= v.maxDepth {
			v.logger.Debug("folder tree depth limit reached",
				zap.String("path", child),
				zap.Int("max_depth", v.maxDepth),
			)
			tree[entry.Name()] = Tree{}
			continue
		}

		subtree, err := v.buildTree(path, child, append(ancestors[:len(ancestors):len(ancestors)], info))
		if err != nil {
			return nil, err
		}
		tree[entry.Name()] = subtree
	}
	return tree, nil
}

func isAncestor(info fs.FileInfo, ancestors []fs.FileInfo) bool {
	for _, ancestor := range ancestors {
		if os.SameFile(info, ancestor) {
			return true
		}
	}
	return false
}
