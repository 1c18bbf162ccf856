// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type (
	// trackedEntry is the blob and mode a commit records for a path.
	trackedEntry struct {
		hash plumbing.Hash
		mode filemode.FileMode
	}

	// checkoutPlan lists the working-tree updates that move the tracked
	// files of one commit to those of another.
	checkoutPlan struct {
		write     []*object.File
		remove    []string
		conflicts []string
	}
)

// switchTree moves the working tree at dir from HEAD's commit to target.
// Only tracked paths whose content differs between the two commits are
// written or removed; untracked and ignored files, where emsdk keeps the
// installed SDKs, are never visited. Without force, local changes to any
// of those paths abort the switch before anything is written.
//
// HEAD is left detached at target with the index matching its tree.
func switchTree(repo *git.Repository, dir string, target plumbing.Hash, force bool) error {
	from, err := headEntries(repo)
	if err != nil {
		return err
	}

	commit, err := repo.CommitObject(target)
	if err != nil {
		return err
	}
	tree, err := commit.Tree()
	if err != nil {
		return err
	}

	plan, err := planCheckout(dir, from, tree, force)
	if err != nil {
		return err
	}
	if len(plan.conflicts) > 0 {
		slices.Sort(plan.conflicts)
		return fmt.Errorf("local changes to %s would be overwritten (enable force_checkout to discard them)", strings.Join(plan.conflicts, ", "))
	}

	for _, f := range plan.write {
		if err := writeTracked(dir, f); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}
	for _, name := range plan.remove {
		if err := removeTracked(dir, name); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}

	// Detach first: a mixed reset moves whatever branch HEAD points at.
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, target)); err != nil {
		return err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	return worktree.Reset(&git.ResetOptions{Commit: target, Mode: git.MixedReset})
}

// headEntries returns the tracked files of HEAD's commit. An unborn HEAD
// tracks nothing.
func headEntries(repo *git.Repository) (map[string]trackedEntry, error) {
	entries := make(map[string]trackedEntry)

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	err = tree.Files().ForEach(func(f *object.File) error {
		entries[f.Name] = trackedEntry{hash: f.Hash, mode: f.Mode}
		return nil
	})
	return entries, err
}

func planCheckout(dir string, from map[string]trackedEntry, to *object.Tree, force bool) (*checkoutPlan, error) {
	plan := &checkoutPlan{}
	kept := make(map[string]bool, len(from))

	err := to.Files().ForEach(func(f *object.File) error {
		kept[f.Name] = true
		old, tracked := from[f.Name]
		if tracked && old == (trackedEntry{hash: f.Hash, mode: f.Mode}) && !force {
			return nil
		}

		current, exists, err := worktreeHash(trackedPath(dir, f.Name))
		if err != nil {
			return err
		}
		switch {
		case exists && current == f.Hash && (!tracked || old.mode == f.Mode):
			// Already in place.
		case force || !exists || current == f.Hash || (tracked && current == old.hash):
			plan.write = append(plan.write, f)
		default:
			plan.conflicts = append(plan.conflicts, f.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for name, old := range from {
		if kept[name] {
			continue
		}
		current, exists, err := worktreeHash(trackedPath(dir, name))
		if err != nil {
			return nil, err
		}
		switch {
		case !exists:
		case force || current == old.hash:
			plan.remove = append(plan.remove, name)
		default:
			plan.conflicts = append(plan.conflicts, name)
		}
	}
	return plan, nil
}

// worktreeHash returns the blob hash of the file at path and whether
// anything exists there. A directory reports the zero hash.
func worktreeHash(path string) (plumbing.Hash, bool, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, err
	}

	var content []byte
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return plumbing.ZeroHash, true, err
		}
		content = []byte(filepath.ToSlash(target))
	case info.IsDir():
		return plumbing.ZeroHash, true, nil
	default:
		if content, err = os.ReadFile(path); err != nil {
			return plumbing.ZeroHash, true, err
		}
	}
	return plumbing.ComputeHash(plumbing.BlobObject, content), true, nil
}

func writeTracked(dir string, f *object.File) error {
	path := trackedPath(dir, f.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	content, err := f.Contents()
	if err != nil {
		return err
	}
	// Recreate so the recorded mode applies to files that already exist.
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	switch f.Mode {
	case filemode.Symlink:
		return os.Symlink(content, path)
	case filemode.Executable:
		return os.WriteFile(path, []byte(content), 0o755)
	default:
		return os.WriteFile(path, []byte(content), 0o644)
	}
}

// removeTracked deletes a tracked file and the directories it leaves empty.
func removeTracked(dir, name string) error {
	path := trackedPath(dir, name)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	root := filepath.Clean(dir)
	for parent := filepath.Dir(path); len(parent) > len(root); parent = filepath.Dir(parent) {
		if os.Remove(parent) != nil {
			break
		}
	}
	return nil
}

func trackedPath(dir, name string) string {
	return filepath.Join(dir, filepath.FromSlash(name))
}
