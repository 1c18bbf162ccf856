// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/invowk/emprep/pkg/toolchain"
	"github.com/invowk/emprep/pkg/types"
)

// defaultRemote is the remote name go-git gives a fresh clone.
const defaultRemote = "origin"

type (
	// Cloner creates a repository at dest from url.
	Cloner func(ctx context.Context, url toolchain.GitURL, dest types.FilesystemPath) (*git.Repository, error)

	// RevisionResolver keeps the destination's git working tree at a pinned revision.
	RevisionResolver struct {
		clone Cloner
		// force discards local modifications to tracked files on checkout.
		force bool
		auth  transport.AuthMethod
	}

	// ResolvedRevision describes where HEAD ended up after a resolution.
	ResolvedRevision struct {
		// Commit is the commit the working tree matches.
		Commit plumbing.Hash
		// Branch is the branch HEAD points at; empty when HEAD is detached.
		Branch plumbing.ReferenceName
		// Cloned is true when the repository had to be cloned first.
		Cloned bool
	}

	// ResolverOption configures a RevisionResolver.
	ResolverOption func(*RevisionResolver)

	// revisionMatch is the outcome of looking a revision string up.
	revisionMatch struct {
		commit plumbing.Hash
		// ref is set when the revision named a reference.
		ref plumbing.ReferenceName
	}
)

// WithCloner replaces the clone implementation, mainly for tests.
func WithCloner(c Cloner) ResolverOption {
	return func(r *RevisionResolver) {
		r.clone = c
	}
}

// WithForceCheckout discards local modifications to tracked files when
// checking out. Untracked and ignored files (such as installed SDKs) are
// never touched.
func WithForceCheckout(force bool) ResolverOption {
	return func(r *RevisionResolver) {
		r.force = force
	}
}

// WithAuth sets an explicit transport authentication method, overriding
// the credentials discovered from the environment.
func WithAuth(auth transport.AuthMethod) ResolverOption {
	return func(r *RevisionResolver) {
		r.auth = auth
	}
}

// NewRevisionResolver creates a resolver that clones with go-git.
func NewRevisionResolver(opts ...ResolverOption) *RevisionResolver {
	r := &RevisionResolver{}
	r.clone = r.plainClone
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve makes destination a clone of source.RepositoryURL whose tracked
// files and HEAD match source.Revision. An existing repository at destination
// is reused and its untracked files are kept. Branch revisions leave HEAD attached to the branch; commits,
// tags and remote refs leave HEAD detached at the commit. Running Resolve
// again with the same inputs is a no-op.
func (r *RevisionResolver) Resolve(ctx context.Context, source toolchain.Source, destination types.FilesystemPath) (*ResolvedRevision, error) {
	repo, cloned, err := r.openOrClone(ctx, source.RepositoryURL, destination)
	if err != nil {
		return nil, newError(KindRepositoryUnavailable, err)
	}

	match, err := r.lookup(ctx, repo, source.Revision, !cloned)
	if err != nil {
		return nil, err
	}

	if err := switchTree(repo, string(destination), match.commit, r.force); err != nil {
		return nil, newError(KindCheckoutFailed, err)
	}

	head, err := r.updateHead(repo, match)
	if err != nil {
		return nil, err
	}

	return &ResolvedRevision{Commit: match.commit, Branch: head, Cloned: cloned}, nil
}

// openOrClone opens destination as a repository or clones url into it.
func (r *RevisionResolver) openOrClone(ctx context.Context, url toolchain.GitURL, destination types.FilesystemPath) (*git.Repository, bool, error) {
	repo, openErr := git.PlainOpen(string(destination))
	if openErr == nil {
		return repo, false, nil
	}

	repo, err := r.clone(ctx, url, destination)
	if err != nil {
		return nil, false, err
	}
	return repo, true, nil
}

// lookup resolves rev the way git's DWIM rules do. When the repository was
// reused and the revision is unknown, it fetches once and retries.
func (r *RevisionResolver) lookup(ctx context.Context, repo *git.Repository, rev toolchain.Revision, allowFetch bool) (revisionMatch, error) {
	match, err := r.match(repo, rev)
	if err == nil || !allowFetch || !errors.Is(err, ErrRevisionNotFound) {
		return match, err
	}

	// The pinned revision may be newer than the clone.
	if fetchErr := r.fetch(ctx, repo); fetchErr != nil {
		var notFound *Error
		if !errors.As(err, &notFound) {
			return revisionMatch{}, err
		}
		detail := fmt.Sprintf("%s (fetch from %s failed: %v)", notFound.Detail, defaultRemote, fetchErr)
		return revisionMatch{}, newErrorDetail(KindRevisionNotFound, detail, errors.Join(notFound.Err, fetchErr))
	}
	return r.match(repo, rev)
}

// match looks rev up among references first and commit ids second.
func (r *RevisionResolver) match(repo *git.Repository, rev toolchain.Revision) (revisionMatch, error) {
	name := string(rev)

	for _, candidate := range referenceCandidates(name) {
		ref, err := repo.Reference(candidate, true)
		if err != nil {
			continue
		}
		commit, err := peelToCommit(repo, ref.Hash())
		if err != nil {
			return revisionMatch{}, newError(KindRevisionNotFound, err)
		}
		return revisionMatch{commit: commit, ref: candidate}, nil
	}

	// A remote-tracking branch without a local counterpart gets a local
	// branch so HEAD can stay attached, as "git checkout <branch>" does.
	remoteRef := plumbing.NewRemoteReferenceName(defaultRemote, name)
	if ref, err := repo.Reference(remoteRef, true); err == nil {
		commit, err := peelToCommit(repo, ref.Hash())
		if err != nil {
			return revisionMatch{}, newError(KindRevisionNotFound, err)
		}
		local := plumbing.NewBranchReferenceName(name)
		if err := repo.Storer.SetReference(plumbing.NewHashReference(local, commit)); err != nil {
			return revisionMatch{}, newError(KindHeadUpdateFailed, err)
		}
		return revisionMatch{commit: commit, ref: local}, nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return revisionMatch{}, newErrorDetail(KindRevisionNotFound, fmt.Sprintf("revspec '%s' not found: %v", name, err), err)
	}
	return revisionMatch{commit: *hash}, nil
}

// updateHead points HEAD at the matched branch, or detaches it at the commit
// for every other kind of match.
func (r *RevisionResolver) updateHead(repo *git.Repository, match revisionMatch) (plumbing.ReferenceName, error) {
	var head *plumbing.Reference
	var branch plumbing.ReferenceName
	if match.ref.IsBranch() {
		branch = match.ref
		head = plumbing.NewSymbolicReference(plumbing.HEAD, branch)
	} else {
		head = plumbing.NewHashReference(plumbing.HEAD, match.commit)
	}

	if err := repo.Storer.SetReference(head); err != nil {
		return "", newError(KindHeadUpdateFailed, err)
	}
	return branch, nil
}

// plainClone is the default Cloner.
func (r *RevisionResolver) plainClone(ctx context.Context, url toolchain.GitURL, destination types.FilesystemPath) (*git.Repository, error) {
	dest := string(destination)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}

	return git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:  string(url),
		Auth: r.authFor(url),
	})
}

// fetch updates remote-tracking refs; an up-to-date remote is not an error.
func (r *RevisionResolver) fetch(ctx context.Context, repo *git.Repository) error {
	remote, err := repo.Remote(defaultRemote)
	if err != nil {
		return err
	}

	var auth transport.AuthMethod
	if urls := remote.Config().URLs; len(urls) > 0 {
		auth = r.authFor(toolchain.GitURL(urls[0]))
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: defaultRemote,
		Auth:       auth,
		Tags:       git.AllTags,
		Force:      true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}

// referenceCandidates lists the reference names git tries for a short name.
func referenceCandidates(name string) []plumbing.ReferenceName {
	if name == "" {
		return nil
	}
	return []plumbing.ReferenceName{
		plumbing.ReferenceName(name),
		plumbing.ReferenceName("refs/" + name),
		plumbing.NewTagReferenceName(name),
		plumbing.NewBranchReferenceName(name),
		plumbing.ReferenceName("refs/remotes/" + name),
		plumbing.ReferenceName("refs/remotes/" + name + "/HEAD"),
	}
}

// peelToCommit follows annotated tags down to the commit they point at.
func peelToCommit(repo *git.Repository, hash plumbing.Hash) (plumbing.Hash, error) {
	if tag, err := repo.TagObject(hash); err == nil {
		commit, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("tag %s does not point at a commit: %w", tag.Name, err)
		}
		return commit.Hash, nil
	}

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("object %s is not a commit: %w", hash, err)
	}
	return commit.Hash, nil
}

// authFor picks credentials matching the URL's transport. Explicit auth
// from WithAuth always wins.
func (r *RevisionResolver) authFor(url toolchain.GitURL) transport.AuthMethod {
	if r.auth != nil {
		return r.auth
	}

	s := string(url)
	switch {
	case strings.HasPrefix(s, "git@"), strings.HasPrefix(s, "ssh://"):
		if auth := sshAuth(); auth != nil {
			return auth
		}
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"):
		if auth := tokenAuth(os.Getenv); auth != nil {
			return auth
		}
	}
	return nil
}

// sshAuth loads the first usable private key from ~/.ssh.
func sshAuth() transport.AuthMethod {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	keyPaths := []string{
		filepath.Join(homeDir, ".ssh", "id_ed25519"),
		filepath.Join(homeDir, ".ssh", "id_rsa"),
		filepath.Join(homeDir, ".ssh", "id_ecdsa"),
	}

	for _, keyPath := range keyPaths {
		if _, err := os.Stat(keyPath); err != nil {
			continue
		}
		if auth, err := ssh.NewPublicKeysFromFile("git", keyPath, ""); err == nil {
			return auth
		}
	}
	return nil
}

// tokenAuth builds HTTPS basic auth from well-known token variables.
func tokenAuth(getenv func(string) string) transport.AuthMethod {
	tokens := []struct{ env, user string }{
		{"GITHUB_TOKEN", "x-access-token"},
		{"GITLAB_TOKEN", "gitlab-ci-token"},
		{"GIT_TOKEN", "git"},
	}
	for _, tok := range tokens {
		if value := getenv(tok.env); value != "" {
			return &http.BasicAuth{Username: tok.user, Password: value}
		}
	}
	return nil
}
