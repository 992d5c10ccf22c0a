package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

const commitMessage = "Update website"

// Author signs the commits made by the publisher.
type Author struct {
	Name  string
	Email string
}

// GitSyncer keeps one local working copy per repository and pushes over
// HTTPS with token authentication.
type GitSyncer struct {
	auth   transport.AuthMethod
	branch string
	author Author
}

func NewGitSyncer(token, branch string, author Author) *GitSyncer {
	return &GitSyncer{
		auth:   &githttp.BasicAuth{Username: "x-access-token", Password: token},
		branch: branch,
		author: author,
	}
}

// Sync brings the working copy in dir up to date with the remote branch,
// writes files, commits and pushes. It reports whether a commit was made.
func (g *GitSyncer) Sync(ctx context.Context, dir, remoteURL string, files map[string]string) (bool, error) {
	repo, err := g.open(ctx, dir, remoteURL)
	if err != nil {
		return false, err
	}
	changed, err := commitFiles(repo, files, g.author, time.Now())
	if err != nil || !changed {
		return false, err
	}
	ref := plumbing.NewBranchReferenceName(g.branch)
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: git.DefaultRemoteName,
		Auth:       g.auth,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref + ":" + ref)},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return false, fmt.Errorf("push: %w", err)
	}
	return true, nil
}

// open returns a working copy whose branch matches the remote. A missing
// copy is cloned; an existing one is fetched and hard-reset so commits from a
// failed earlier push are discarded.
func (g *GitSyncer) open(ctx context.Context, dir, remoteURL string) (*git.Repository, error) {
	branch := plumbing.NewBranchReferenceName(g.branch)
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return g.clone(ctx, dir, remoteURL)
	}
	if err != nil {
		return nil, fmt.Errorf("open working copy: %w", err)
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: git.DefaultRemoteName,
		Auth:       g.auth,
		RefSpecs: []config.RefSpec{config.RefSpec(fmt.Sprintf("+%s:refs/remotes/%s/%s",
			branch, git.DefaultRemoteName, g.branch))},
		Force: true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(git.DefaultRemoteName, g.branch), true)
	if err != nil {
		return nil, fmt.Errorf("resolve remote branch: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	if err := wt.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return nil, fmt.Errorf("reset working copy: %w", err)
	}
	return repo, nil
}

func (g *GitSyncer) clone(ctx context.Context, dir, remoteURL string) (*git.Repository, error) {
	// A directory without .git is leftover state; start clean.
	if err := os.RemoveAll(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, err
	}
	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           remoteURL,
		Auth:          g.auth,
		ReferenceName: plumbing.NewBranchReferenceName(g.branch),
		SingleBranch:  true,
	})
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return initEmpty(dir, remoteURL, g.branch)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("clone: %w", err)
	}
	return repo, nil
}

func initEmpty(dir, remoteURL, branch string) (*git.Repository, error) {
	_ = os.RemoveAll(dir)
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return nil, err
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{Name: git.DefaultRemoteName, URLs: []string{remoteURL}}); err != nil {
		return nil, err
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	if err := repo.Storer.SetReference(head); err != nil {
		return nil, err
	}
	return repo, nil
}

// commitFiles writes files into the worktree, stages them and commits. No
// commit is made when the tree already matches.
func commitFiles(repo *git.Repository, files map[string]string, author Author, when time.Time) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return false, err
	}
	for name, content := range files {
		path := filepath.Join(wt.Filesystem.Root(), name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return false, fmt.Errorf("write %s: %w", name, err)
		}
		if _, err := wt.Add(name); err != nil {
			return false, fmt.Errorf("stage %s: %w", name, err)
		}
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	if status.IsClean() {
		return false, nil
	}
	_, err = wt.Commit(commitMessage, &git.CommitOptions{
		Author: &object.Signature{Name: author.Name, Email: author.Email, When: when},
	})
	if err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
