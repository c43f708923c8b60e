package mdblog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFromContentDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.md"), []byte("---\ntags: [go]\n---\n# Hello"), 0o644))

	a := New(SiteConfig{ContentDir: dir, PopularTags: []string{"go"}, CodeStyle: "monokai"})
	require.NoError(t, a.Init(context.Background()))
	defer a.Close()

	svc := a.Library.Service()
	assert.Equal(t, 1, svc.Len())
	assert.False(t, a.Library.UsingSamples())
	assert.Equal(t, []string{"go"}, svc.GetPopularTags())
}

func TestInitEmptyContentDirUsesSamples(t *testing.T) {
	a := New(SiteConfig{ContentDir: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, a.Init(context.Background()))
	defer a.Close()

	assert.True(t, a.Library.UsingSamples())
	assert.Equal(t, 3, a.Library.Service().Len())
}
