package publish

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-builder/internal/site"
)

func headFiles(t *testing.T, repo *git.Repository) map[string]string {
	t.Helper()
	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	files := map[string]string{}
	iter, err := commit.Files()
	require.NoError(t, err)
	for {
		f, err := iter.Next()
		if err != nil {
			break
		}
		content, err := f.Contents()
		require.NoError(t, err)
		files[f.Name] = content
	}
	return files
}

func TestCommitFiles_SecondArtifactReplacesFirst(t *testing.T) {
	repo, err := git.PlainInit(t.TempDir(), false)
	require.NoError(t, err)
	author := Author{Name: "bot", Email: "bot@example.com"}
	when := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first := site.Artifact{HTML: "<h1>one</h1>", CSS: "a{}", JS: "1"}.Files()
	first[site.NoJekyll] = ""
	changed, err := commitFiles(repo, first, author, when)
	require.NoError(t, err)
	assert.True(t, changed)

	second := site.Artifact{HTML: "<h1>two</h1>", CSS: "b{}", JS: "2"}.Files()
	second[site.NoJekyll] = ""
	changed, err = commitFiles(repo, second, author, when.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, second, headFiles(t, repo))

	changed, err = commitFiles(repo, second, author, when.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, changed, "identical content must not create a commit")

	log, err := repo.Log(&git.LogOptions{})
	require.NoError(t, err)
	count := 0
	require.NoError(t, log.ForEach(func(c *object.Commit) error {
		count++
		assert.Equal(t, commitMessage, c.Message)
		return nil
	}))
	assert.Equal(t, 2, count)
}
