package vault

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// Search walks the folder at path and returns every regular file whose path
// relative to that folder matches pattern, a doublestar glob such as
// "**/*.txt". Results are relative to the base directory, slash separated
// and sorted.
func (v *Vault) Search(ctx context.Context, path, pattern string) (matches []string, err error) {
	defer v.observe(OpSearch, path, time.Now(), &err)

	if err := v.validate(OpSearch, path); err != nil {
		return nil, err
	}
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return nil, newError(OpSearch, path, ErrInvalidFormat, fmt.Errorf("bad pattern %q", pattern))
	}

	folder := v.resolve(path)
	if _, err := requireFolder(OpSearch, path, folder); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	matches = []string{}

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, folder, func(p string, d fs.DirEntry, err error) error {
		// Check for context cancellation
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(folder, p)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); !ok {
			return nil
		}

		// fastwalk invokes the callback from several goroutines
		mu.Lock()
		matches = append(matches, v.Rel(p))
		mu.Unlock()
		return nil
	})
	if walkErr != nil {
		return nil, newError(OpSearch, path, ErrInternal, walkErr)
	}

	sort.Strings(matches)
	return matches, nil
}
