package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/mdblog"
)

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"hello.md": "---\ntitle: Hello\ncategory: Intro\ntags: [go, meta]\ndate: 2024-02-01\n---\n# Hello\n\nFirst post.\n\n## Part\n",
		"later.md": "---\ntitle: Later\ncategory: Go\ntags: [go]\ndate: 2024-03-01\n---\nSecond post about channels.\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func resetFlags() {
	configPath, contentDir = "mdblog.toml", ""
	postsCategory, postsTag, postsSearch, postsLimit, postsOutput = "", "", "", 0, "table"
	showTOC, showOutput = false, ""
	readWidth, readStyle = defaultReadWidth, ""
	tagsPopular = false
	serveAddr, serveWatch = "", false
}

// execute runs the root command and returns what it wrote to stdout and
// stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// site runs a command against the content in dir with no config file.
func site(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	base := []string{"--config", filepath.Join(dir, "missing.toml"), "--content", dir}
	out, _, err := execute(t, append(base, args...)...)
	return out, err
}

func slugs(t *testing.T, out string) []string {
	t.Helper()
	var posts []mdblog.Article
	require.NoError(t, json.Unmarshal([]byte(out), &posts), out)
	s := []string{}
	for _, p := range posts {
		s = append(s, p.Slug)
	}
	return s
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mdblog version dev\n", out)
}

func TestPostsCmd_JSON(t *testing.T) {
	out, err := site(t, writeSite(t), "posts", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"later", "hello"}, slugs(t, out))
}

func TestPostsCmd_Filters(t *testing.T) {
	dir := writeSite(t)
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"--tag", "GO", "--limit", "1"}, []string{"later"}},
		{[]string{"--category", "intro"}, []string{"hello"}},
		{[]string{"--search", "channels"}, []string{"later"}},
		{[]string{"--tag", "meta", "--search", "channels"}, []string{}},
	}
	for _, tt := range tests {
		out, err := site(t, dir, append([]string{"posts", "-o", "json"}, tt.args...)...)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.want, slugs(t, out), tt.args)
	}
}

func TestPostsCmd_Table(t *testing.T) {
	dir := writeSite(t)
	out, err := site(t, dir, "posts")
	require.NoError(t, err)
	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "Intro")
	assert.Contains(t, out, "1 min")

	out, err = site(t, dir, "posts", "--tag", "rust")
	require.NoError(t, err)
	assert.Equal(t, "No posts found.\n", out)
}

func TestPostsCmd_YAML(t *testing.T) {
	out, err := site(t, writeSite(t), "posts", "-o", "yaml", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "slug: later")
	assert.Contains(t, out, "readingTime: 1")
}

func TestPostsCmd_UnknownFormat(t *testing.T) {
	_, err := site(t, writeSite(t), "posts", "-o", "xml")
	assert.EqualError(t, err, `unknown output format "xml"`)
}

func TestPostsCmd_FallsBackToSamples(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	out, errOut, err := execute(t, "--config", filepath.Join(dir, "missing.toml"), "--content", dir, "posts", "-o", "json")
	require.NoError(t, err)
	assert.Len(t, slugs(t, out), 3)
	assert.Contains(t, errOut, "sample posts")
}

func TestShowCmd_HTML(t *testing.T) {
	out, err := site(t, writeSite(t), "show", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 id="hello">Hello</h1>`)
	assert.Contains(t, out, `<h2 id="part">Part</h2>`)
}

func TestShowCmd_TOC(t *testing.T) {
	dir := writeSite(t)
	out, err := site(t, dir, "show", "hello", "--toc")
	require.NoError(t, err)
	assert.Equal(t, "- Hello (#hello)\n  - Part (#part)\n", out)

	out, err = site(t, dir, "show", "hello", "--toc", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "id: hello")
	assert.Contains(t, out, "id: part")
}

func TestShowCmd_JSON(t *testing.T) {
	out, err := site(t, writeSite(t), "show", "hello", "-o", "json")
	require.NoError(t, err)

	var rp mdblog.RenderedPost
	require.NoError(t, json.Unmarshal([]byte(out), &rp))
	assert.Equal(t, "hello", rp.Article.Slug)
	assert.Contains(t, rp.HTML, "First post.")
	require.Len(t, rp.TOC, 1)
	assert.Equal(t, "part", rp.TOC[0].Children[0].ID)
}

func TestShowCmd_NotFound(t *testing.T) {
	_, err := site(t, writeSite(t), "show", "nope")
	assert.EqualError(t, err, `post "nope" not found`)
}

func TestShowCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := site(t, writeSite(t), "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestReadCmd_NotATerminal(t *testing.T) {
	out, err := site(t, writeSite(t), "read", "hello")
	require.NoError(t, err)
	assert.Equal(t, "# Hello\n\nFirst post.\n\n## Part\n", out)
}

func TestTagsCmd(t *testing.T) {
	dir := writeSite(t)
	out, err := site(t, dir, "tags")
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^go\s+2$`, out)
	assert.Regexp(t, `(?m)^meta\s+1$`, out)

	config := filepath.Join(dir, "mdblog.toml")
	require.NoError(t, os.WriteFile(config, []byte(`popular_tags = ["FRM", "量化"]`), 0o644))
	out, _, err = execute(t, "--config", config, "--content", dir, "tags", "--popular")
	require.NoError(t, err)
	assert.Equal(t, "FRM\n量化\n", out)
}

func TestCategoriesCmd(t *testing.T) {
	out, err := site(t, writeSite(t), "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `(?m)^Go\s+1\s+Go$`, out)
	assert.Regexp(t, `(?m)^Intro\s+1\s+Intro$`, out)
}

func TestServeCmd_Flags(t *testing.T) {
	require.NotNil(t, serveCmd.Flags().Lookup("addr"))
	flag := serveCmd.Flags().Lookup("watch")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestNewCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-blog")
	out, _, err := execute(t, "new", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	config, err := os.ReadFile(filepath.Join(dir, "mdblog.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(config), `name = "My Blog"`)
	assert.FileExists(t, filepath.Join(dir, ".env.example"))
	assert.NoFileExists(t, filepath.Join(dir, "dotenv"))

	out, _, err = execute(t,
		"--config", filepath.Join(dir, "mdblog.toml"),
		"--content", filepath.Join(dir, "content"),
		"posts", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello-world"}, slugs(t, out))

	_, _, err = execute(t, "new", dir)
	assert.Error(t, err)
}

func TestToTitle(t *testing.T) {
	assert.Equal(t, "My Blog", toTitle("my-blog"))
	assert.Equal(t, "Myblog", toTitle("myblog"))
	assert.Equal(t, "", toTitle(""))
}
