// Package publish pushes generated sites to GitHub repositories served by
// GitHub Pages. Each user gets one repository in the configured organization;
// every step is idempotent, so a failed publish is repaired by the next one.
package publish

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/go-github/v57/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"site-builder/internal/sanitize"
	"site-builder/internal/site"
)

// RepositoryService is the subset of the GitHub repositories API used here.
// *github.RepositoriesService satisfies it.
type RepositoryService interface {
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	Create(ctx context.Context, org string, repo *github.Repository) (*github.Repository, *github.Response, error)
	GetPagesInfo(ctx context.Context, owner, repo string) (*github.Pages, *github.Response, error)
	EnablePages(ctx context.Context, owner, repo string, pages *github.Pages) (*github.Pages, *github.Response, error)
}

// Syncer makes the branch of a remote repository hold exactly files.
type Syncer interface {
	Sync(ctx context.Context, dir, remoteURL string, files map[string]string) (bool, error)
}

type Config struct {
	Org        string
	RepoPrefix string
	Branch     string
	WorkDir    string
}

type Publisher struct {
	repos RepositoryService
	git   Syncer
	cfg   Config
}

func New(repos RepositoryService, git Syncer, cfg Config) *Publisher {
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	return &Publisher{repos: repos, git: git, cfg: cfg}
}

// NewGitHub builds a publisher that talks to github.com with a personal
// access token, for both the REST API and git pushes.
func NewGitHub(ctx context.Context, token string, cfg Config, author Author) (*Publisher, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token not set")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	return New(client.Repositories, NewGitSyncer(token, cfg.Branch, author), cfg), nil
}

// RepoName is the repository that holds userID's site.
func (p *Publisher) RepoName(userID string) string {
	return p.cfg.RepoPrefix + userID
}

// URL is the public GitHub Pages address of userID's site.
func (p *Publisher) URL(userID string) string {
	return fmt.Sprintf("https://%s.github.io/%s/", p.cfg.Org, p.RepoName(userID))
}

func (p *Publisher) remoteURL(userID string) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", p.cfg.Org, p.RepoName(userID))
}

// Publish makes the user's repository hold exactly the given site and makes
// sure Pages serves it.
func (p *Publisher) Publish(ctx context.Context, userID string, a site.Artifact) (string, error) {
	id, err := sanitize.UserID(userID)
	if err != nil {
		return "", err
	}
	repo := p.RepoName(id)
	lg := log.With().Str("user_id", id).Str("repo", repo).Logger()

	if err := p.ensureRepo(ctx, id); err != nil {
		return "", err
	}

	files := a.Files()
	files[site.NoJekyll] = ""
	changed, err := p.git.Sync(ctx, filepath.Join(p.cfg.WorkDir, id), p.remoteURL(id), files)
	if err != nil {
		return "", classify("push", nil, err)
	}
	lg.Debug().Bool("changed", changed).Msg("working copy synced")

	if err := p.ensurePages(ctx, repo); err != nil {
		return "", err
	}
	return p.URL(id), nil
}

func (p *Publisher) ensureRepo(ctx context.Context, userID string) error {
	repo := p.RepoName(userID)
	_, resp, err := p.repos.Get(ctx, p.cfg.Org, repo)
	if err == nil {
		return nil
	}
	if statusCode(resp) != http.StatusNotFound {
		return classify("get repository", resp, err)
	}
	_, resp, err = p.repos.Create(ctx, p.cfg.Org, &github.Repository{
		Name:        github.String(repo),
		Private:     github.Bool(false),
		AutoInit:    github.Bool(true),
		Description: github.String("Website for user " + userID),
		Homepage:    github.String(p.URL(userID)),
	})
	if err != nil {
		return classify("create repository", resp, err)
	}
	log.Info().Str("repo", repo).Msg("repository created")
	return nil
}

func (p *Publisher) ensurePages(ctx context.Context, repo string) error {
	_, resp, err := p.repos.GetPagesInfo(ctx, p.cfg.Org, repo)
	if err == nil {
		return nil
	}
	if statusCode(resp) != http.StatusNotFound {
		return classify("get pages", resp, err)
	}
	_, resp, err = p.repos.EnablePages(ctx, p.cfg.Org, repo, &github.Pages{
		Source: &github.PagesSource{
			Branch: github.String(p.cfg.Branch),
			Path:   github.String("/"),
		},
	})
	// 409 means Pages got enabled in the meantime.
	if err != nil && statusCode(resp) != http.StatusConflict {
		return classify("enable pages", resp, err)
	}
	return nil
}
