package publish

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-builder/internal/site"
)

func ghResp(code int) *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: code}}
}

type fakeRepos struct {
	exists     bool
	pages      bool
	getStatus  int
	createCode int
	created    []*github.Repository
	enabled    []*github.Pages
}

func (f *fakeRepos) Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	if f.getStatus != 0 {
		return nil, ghResp(f.getStatus), errors.New("get failed")
	}
	if !f.exists {
		return nil, ghResp(http.StatusNotFound), errors.New("not found")
	}
	return &github.Repository{Name: github.String(repo)}, ghResp(http.StatusOK), nil
}

func (f *fakeRepos) Create(ctx context.Context, org string, repo *github.Repository) (*github.Repository, *github.Response, error) {
	if f.createCode != 0 {
		return nil, ghResp(f.createCode), errors.New("create failed")
	}
	f.created = append(f.created, repo)
	f.exists = true
	return repo, ghResp(http.StatusCreated), nil
}

func (f *fakeRepos) GetPagesInfo(ctx context.Context, owner, repo string) (*github.Pages, *github.Response, error) {
	if !f.pages {
		return nil, ghResp(http.StatusNotFound), errors.New("not found")
	}
	return &github.Pages{}, ghResp(http.StatusOK), nil
}

func (f *fakeRepos) EnablePages(ctx context.Context, owner, repo string, pages *github.Pages) (*github.Pages, *github.Response, error) {
	f.enabled = append(f.enabled, pages)
	f.pages = true
	return pages, ghResp(http.StatusCreated), nil
}

type syncCall struct {
	dir, remote string
	files       map[string]string
}

type fakeSyncer struct {
	calls []syncCall
	err   error
}

func (f *fakeSyncer) Sync(ctx context.Context, dir, remoteURL string, files map[string]string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.calls = append(f.calls, syncCall{dir: dir, remote: remoteURL, files: files})
	return true, nil
}

func testConfig() Config {
	return Config{Org: "acme", RepoPrefix: "user-website-", Branch: "main", WorkDir: "/work"}
}

func TestPublish_CreatesRepoAndEnablesPages(t *testing.T) {
	repos := &fakeRepos{}
	syncer := &fakeSyncer{}
	p := New(repos, syncer, testConfig())

	url, err := p.Publish(context.Background(), "42", site.Artifact{HTML: "<h1>hi</h1>", CSS: "h1{}", JS: "x()"})
	require.NoError(t, err)
	assert.Equal(t, "https://acme.github.io/user-website-42/", url)

	require.Len(t, repos.created, 1)
	created := repos.created[0]
	assert.Equal(t, "user-website-42", created.GetName())
	assert.False(t, created.GetPrivate())
	assert.True(t, created.GetAutoInit())
	assert.Equal(t, url, created.GetHomepage())

	require.Len(t, syncer.calls, 1)
	call := syncer.calls[0]
	assert.Equal(t, "/work/42", call.dir)
	assert.Equal(t, "https://github.com/acme/user-website-42.git", call.remote)
	assert.Equal(t, map[string]string{
		site.HTMLFile: "<h1>hi</h1>",
		site.CSSFile:  "h1{}",
		site.JSFile:   "x()",
		site.NoJekyll: "",
	}, call.files)

	require.Len(t, repos.enabled, 1)
	assert.Equal(t, "main", repos.enabled[0].GetSource().GetBranch())
	assert.Equal(t, "/", repos.enabled[0].GetSource().GetPath())
}

func TestPublish_SecondRunReusesRepo(t *testing.T) {
	repos := &fakeRepos{}
	syncer := &fakeSyncer{}
	p := New(repos, syncer, testConfig())

	_, err := p.Publish(context.Background(), "42", site.Artifact{HTML: "one"})
	require.NoError(t, err)
	_, err = p.Publish(context.Background(), "42", site.Artifact{HTML: "two"})
	require.NoError(t, err)

	assert.Len(t, repos.created, 1)
	assert.Len(t, repos.enabled, 1)
	require.Len(t, syncer.calls, 2)
	assert.Equal(t, "two", syncer.calls[1].files[site.HTMLFile])
}

func TestPublish_ClassifiesFailures(t *testing.T) {
	cases := []struct {
		name   string
		repos  *fakeRepos
		syncer *fakeSyncer
		check  func(t *testing.T, err error)
	}{
		{
			name:   "forbidden on get",
			repos:  &fakeRepos{getStatus: http.StatusForbidden},
			syncer: &fakeSyncer{},
			check: func(t *testing.T, err error) {
				var ae *AuthError
				assert.True(t, errors.As(err, &ae))
			},
		},
		{
			name:   "org missing on create",
			repos:  &fakeRepos{createCode: http.StatusNotFound},
			syncer: &fakeSyncer{},
			check: func(t *testing.T, err error) {
				var te *TargetMissingError
				assert.True(t, errors.As(err, &te))
			},
		},
		{
			name:   "push rejected",
			repos:  &fakeRepos{exists: true, pages: true},
			syncer: &fakeSyncer{err: transport.ErrAuthorizationFailed},
			check: func(t *testing.T, err error) {
				var ae *AuthError
				assert.True(t, errors.As(err, &ae))
			},
		},
		{
			name:   "server error",
			repos:  &fakeRepos{getStatus: http.StatusBadGateway},
			syncer: &fakeSyncer{},
			check: func(t *testing.T, err error) {
				var pe *Error
				assert.True(t, errors.As(err, &pe))
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(tc.repos, tc.syncer, testConfig())
			_, err := p.Publish(context.Background(), "42", site.Artifact{HTML: "x"})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestPublish_RejectsInvalidUserID(t *testing.T) {
	p := New(&fakeRepos{}, &fakeSyncer{}, testConfig())
	_, err := p.Publish(context.Background(), "../etc", site.Artifact{HTML: "x"})
	assert.Error(t, err)
}
