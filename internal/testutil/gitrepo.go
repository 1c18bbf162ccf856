// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	// FixtureFile is the tracked file whose content changes per commit.
	FixtureFile = "README"
	// FixtureBranch is the default branch of fixture repositories.
	FixtureBranch = "main"
	// FixtureLegacyBranch points at the first commit.
	FixtureLegacyBranch = "legacy"
	// FixtureTag is a lightweight tag on the first commit.
	FixtureTag = "v1"
	// FixtureAnnotatedTag is an annotated tag on the first commit.
	FixtureAnnotatedTag = "v1-annotated"
)

// GitFixture is a small repository with two commits on FixtureBranch:
//
//	First  (README "first")  <- legacy, v1, v1-annotated
//	Second (README "second") <- main, HEAD
type GitFixture struct {
	Dir    string
	Repo   *git.Repository
	First  plumbing.Hash
	Second plumbing.Hash
}

// NewGitFixture creates a fixture repository in a fresh temporary directory.
func NewGitFixture(t testing.TB) *GitFixture {
	t.Helper()
	return InitGitFixture(t, t.TempDir())
}

// InitGitFixture creates a fixture repository at dir.
func InitGitFixture(t testing.TB, dir string) *GitFixture {
	t.Helper()

	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(FixtureBranch)},
	})
	if err != nil {
		t.Fatalf("failed to init repository at %s: %v", dir, err)
	}

	f := &GitFixture{Dir: dir, Repo: repo}
	f.First = f.commit(t, "first")

	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName(FixtureLegacyBranch), f.First)); err != nil {
		t.Fatalf("failed to create branch %s: %v", FixtureLegacyBranch, err)
	}
	if _, err := repo.CreateTag(FixtureTag, f.First, nil); err != nil {
		t.Fatalf("failed to create tag %s: %v", FixtureTag, err)
	}
	if _, err := repo.CreateTag(FixtureAnnotatedTag, f.First, &git.CreateTagOptions{
		Tagger:  signature(),
		Message: "annotated",
	}); err != nil {
		t.Fatalf("failed to create tag %s: %v", FixtureAnnotatedTag, err)
	}

	f.Second = f.commit(t, "second")
	return f
}

// CommitDir initializes dir as a repository on FixtureBranch and commits
// every file already in it. File modes, including the executable bit, are
// recorded as found on disk.
func CommitDir(dir, message string) (plumbing.Hash, error) {
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(FixtureBranch)},
	})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("init %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("stage %s: %w", dir, err)
	}
	return wt.Commit(message, &git.CommitOptions{Author: signature()})
}

// ReadFile returns the working-tree content of a tracked file.
func (f *GitFixture) ReadFile(t testing.TB, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.Dir, name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// Head returns the repository's HEAD reference without resolving it.
func (f *GitFixture) Head(t testing.TB) *plumbing.Reference {
	t.Helper()
	ref, err := f.Repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		t.Fatalf("failed to read HEAD: %v", err)
	}
	return ref
}

func (f *GitFixture) commit(t testing.TB, content string) plumbing.Hash {
	t.Helper()

	if err := os.WriteFile(filepath.Join(f.Dir, FixtureFile), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", FixtureFile, err)
	}
	wt, err := f.Repo.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	if _, err := wt.Add(FixtureFile); err != nil {
		t.Fatalf("failed to stage %s: %v", FixtureFile, err)
	}
	hash, err := wt.Commit(content, &git.CommitOptions{Author: signature()})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return hash
}

func signature() *object.Signature {
	return &object.Signature{
		Name:  "emprep",
		Email: "emprep@example.invalid",
		When:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
