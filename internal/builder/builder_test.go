package builder

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/big-mon/app-hub/internal/domain"
	"github.com/big-mon/app-hub/internal/exec"
	"github.com/big-mon/app-hub/internal/logging"
	"github.com/big-mon/app-hub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	steps []string
}

func (o *recordingObserver) StepStarted(tool domain.Tool, step, detail string) {
	o.steps = append(o.steps, "start "+step+" "+detail)
}

func (o *recordingObserver) StepFinished(tool domain.Tool, step string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.steps = append(o.steps, "end "+step+" "+status)
}

func newTestBuilder(runner exec.Runner, obs Observer) *Builder {
	return New(runner, logging.New("builder").WithOutput(&bytes.Buffer{}), obs)
}

func fixtureRepo(t *testing.T) string {
	t.Helper()
	ws := t.TempDir()
	testutil.WriteTree(t, ws, map[string]string{
		"README.md":             "# tool",
		"public/index.html":     "<h1>tool</h1>",
		"public/assets/app.js":  "console.log('hi')",
		"public/assets/app.css": "body{}",
		"src/main.ts":           "export {}",
		"public/.well-known/x":  "x",
		".git/HEAD":             "ref: refs/heads/main",
		"public/assets/app.map": "{}",
	})
	return ws
}

func TestStaticCopiesRepoRootByDefault(t *testing.T) {
	ws := fixtureRepo(t)
	dist := filepath.Join(t.TempDir(), "calc")
	obs := &recordingObserver{}

	err := newTestBuilder(exec.NewMockRunner(), obs).Build(context.Background(),
		domain.Tool{Slug: "calc", Repo: "r", Type: domain.KindStatic}, ws, dist)
	require.NoError(t, err)

	assert.Equal(t, testutil.Snapshot(t, ws), testutil.Snapshot(t, dist))
	assert.Equal(t, []string{"start copy-static .", "end copy-static ok"}, obs.steps)
}

func TestStaticCopiesSubdirectory(t *testing.T) {
	ws := fixtureRepo(t)
	dist := filepath.Join(t.TempDir(), "calc")

	err := newTestBuilder(exec.NewMockRunner(), nil).Build(context.Background(),
		domain.Tool{Slug: "calc", Repo: "r", Type: domain.KindStatic, Src: "public"}, ws, dist)
	require.NoError(t, err)

	assert.Equal(t, testutil.Snapshot(t, filepath.Join(ws, "public")), testutil.Snapshot(t, dist))
}

func TestStaticReplacesExistingContent(t *testing.T) {
	ws := fixtureRepo(t)
	dist := filepath.Join(t.TempDir(), "calc")
	testutil.WriteFile(t, dist, "stale.html", "old")

	err := newTestBuilder(exec.NewMockRunner(), nil).Build(context.Background(),
		domain.Tool{Slug: "calc", Repo: "r", Type: domain.KindStatic, Src: "public"}, ws, dist)
	require.NoError(t, err)
	assert.False(t, testutil.Exists(filepath.Join(dist, "stale.html")))
}

func TestStaticExcludePatterns(t *testing.T) {
	ws := fixtureRepo(t)
	dist := filepath.Join(t.TempDir(), "calc")

	tool := domain.Tool{Slug: "calc", Repo: "r", Type: domain.KindStatic, Exclude: []string{".git", "**/*.map", "src/**"}}
	require.NoError(t, newTestBuilder(exec.NewMockRunner(), nil).Build(context.Background(), tool, ws, dist))

	snap := testutil.Snapshot(t, dist)
	assert.NotContains(t, snap, ".git")
	assert.NotContains(t, snap, ".git/HEAD")
	assert.NotContains(t, snap, "public/assets/app.map")
	assert.NotContains(t, snap, "src/main.ts")
	assert.Equal(t, "<h1>tool</h1>", snap["public/index.html"])
	assert.Equal(t, "x", snap["public/.well-known/x"])
}

func TestStaticInvalidExcludePattern(t *testing.T) {
	ws := fixtureRepo(t)
	tool := domain.Tool{Slug: "calc", Repo: "r", Type: domain.KindStatic, Exclude: []string{"[unclosed"}}

	err := newTestBuilder(exec.NewMockRunner(), nil).Build(context.Background(), tool, ws, filepath.Join(t.TempDir(), "calc"))
	assert.True(t, domain.IsCopy(err))
}

func TestStaticMissingSourceIsCopyError(t *testing.T) {
	ws := fixtureRepo(t)
	tool := domain.Tool{Slug: "calc", Repo: "r", Type: domain.KindStatic, Src: "nope"}

	err := newTestBuilder(exec.NewMockRunner(), nil).Build(context.Background(), tool, ws, filepath.Join(t.TempDir(), "calc"))
	require.Error(t, err)
	assert.True(t, domain.IsCopy(err))
	assert.Contains(t, err.Error(), "source missing")
}

func TestStaticSourceEscapingWorkspace(t *testing.T) {
	ws := fixtureRepo(t)
	tool := domain.Tool{Slug: "calc", Repo: "r", Type: domain.KindStatic, Src: "../.."}

	err := newTestBuilder(exec.NewMockRunner(), nil).Build(context.Background(), tool, ws, filepath.Join(t.TempDir(), "calc"))
	assert.True(t, domain.IsValidation(err))
}

func TestStaticSourceSymlinkOutsideWorkspace(t *testing.T) {
	ws := t.TempDir()
	outside := t.TempDir()
	testutil.WriteFile(t, outside, "passwd", "secret")
	if err := os.Symlink(outside, filepath.Join(ws, "public")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	dist := filepath.Join(t.TempDir(), "calc")

	tool := domain.Tool{Slug: "calc", Repo: "r", Type: domain.KindStatic, Src: "public"}
	err := newTestBuilder(exec.NewMockRunner(), nil).Build(context.Background(), tool, ws, dist)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.False(t, testutil.Exists(dist))
}

func TestStaticSourceSymlinkInsideWorkspace(t *testing.T) {
	ws := t.TempDir()
	testutil.WriteFile(t, ws, "site/index.html", "home")
	if err := os.Symlink("site", filepath.Join(ws, "public")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	dist := filepath.Join(t.TempDir(), "calc")

	tool := domain.Tool{Slug: "calc", Repo: "r", Type: domain.KindStatic, Src: "public"}
	require.NoError(t, newTestBuilder(exec.NewMockRunner(), nil).Build(context.Background(), tool, ws, dist))
	assert.Equal(t, "home", testutil.ReadFile(t, filepath.Join(dist, "index.html")))
}

func TestNodeOutDirSymlinkOutsideWorkspace(t *testing.T) {
	ws := t.TempDir()
	outside := t.TempDir()
	m := exec.NewMockRunner()
	m.OnCommand("sh", func(call exec.MockCall) error {
		return os.Symlink(outside, filepath.Join(call.Dir, "build"))
	})
	dist := filepath.Join(t.TempDir(), "foo")

	tool := domain.Tool{Slug: "foo", Repo: "r", Type: domain.KindNode, Build: "make", OutDir: "build"}
	err := newTestBuilder(m, nil).Build(context.Background(), tool, ws, dist)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.False(t, testutil.Exists(dist))
}

func TestStaticPreservesSymlinks(t *testing.T) {
	ws := t.TempDir()
	testutil.WriteFile(t, ws, "index.html", "home")
	if err := os.Symlink("index.html", filepath.Join(ws, "default.html")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	dist := filepath.Join(t.TempDir(), "site")

	require.NoError(t, newTestBuilder(exec.NewMockRunner(), nil).Build(context.Background(),
		domain.Tool{Slug: "site", Repo: "r", Type: domain.KindStatic}, ws, dist))

	assert.Equal(t, "-> index.html", testutil.Snapshot(t, dist)["default.html"])
}

func TestNodeBuildInjectsBasePath(t *testing.T) {
	ws := t.TempDir()
	dist := filepath.Join(t.TempDir(), "foo")
	m := exec.NewMockRunner()
	m.OnCommand("sh", func(call exec.MockCall) error {
		testutil.WriteTree(t, call.Dir, map[string]string{
			"build/index.html":  "<base href=\"" + call.Env["BASE_PATH"] + "\">",
			"build/static/a.js": "a",
		})
		return nil
	})
	obs := &recordingObserver{}

	tool := domain.Tool{Slug: "foo", Repo: "r", Type: domain.KindNode, Build: "npm ci && npm run build", OutDir: "build", BasePathEnv: "BASE_PATH"}
	require.NoError(t, newTestBuilder(m, obs).Build(context.Background(), tool, ws, dist))

	calls := m.CallsTo("sh")
	require.Len(t, calls, 1)
	assert.Equal(t, "npm ci && npm run build", calls[0].Line)
	assert.Equal(t, ws, calls[0].Dir)
	assert.Equal(t, map[string]string{"BASE_PATH": "/foo/"}, calls[0].Env)

	assert.Equal(t, testutil.Snapshot(t, filepath.Join(ws, "build")), testutil.Snapshot(t, dist))
	assert.Equal(t, `<base href="/foo/">`, testutil.ReadFile(t, filepath.Join(dist, "index.html")))
	assert.Equal(t, []string{
		"start build npm ci && npm run build", "end build ok",
		"start copy-build build", "end copy-build ok",
	}, obs.steps)
}

func TestNodeBuildWithoutBasePathEnv(t *testing.T) {
	ws := t.TempDir()
	m := exec.NewMockRunner()
	m.OnCommand("sh", func(call exec.MockCall) error {
		testutil.WriteFile(t, call.Dir, "out/index.html", "ok")
		return nil
	})

	tool := domain.Tool{Slug: "foo", Repo: "r", Type: domain.KindNode, Build: "make", OutDir: "out"}
	require.NoError(t, newTestBuilder(m, nil).Build(context.Background(), tool, ws, filepath.Join(t.TempDir(), "foo")))
	assert.Empty(t, m.CallsTo("sh")[0].Env)
}

func TestNodeBuildFailure(t *testing.T) {
	ws := t.TempDir()
	dist := filepath.Join(t.TempDir(), "foo")
	m := exec.NewMockRunner()
	m.OnCommand("sh", func(call exec.MockCall) error { return errors.New("exit status 1") })
	obs := &recordingObserver{}

	tool := domain.Tool{Slug: "foo", Repo: "r", Type: domain.KindNode, Build: "npm run build", OutDir: "build"}
	err := newTestBuilder(m, obs).Build(context.Background(), tool, ws, dist)
	require.Error(t, err)
	assert.True(t, domain.IsBuild(err))
	assert.False(t, testutil.Exists(dist))
	assert.Equal(t, []string{"start build npm run build", "end build error"}, obs.steps)
}

func TestNodeMissingFields(t *testing.T) {
	for _, tool := range []domain.Tool{
		{Slug: "foo", Repo: "r", Type: domain.KindNode, OutDir: "build"},
		{Slug: "foo", Repo: "r", Type: domain.KindNode, Build: "make"},
	} {
		m := exec.NewMockRunner()
		err := newTestBuilder(m, nil).Build(context.Background(), tool, t.TempDir(), filepath.Join(t.TempDir(), "foo"))
		require.Error(t, err)
		assert.True(t, domain.IsConfig(err))
		assert.Empty(t, m.Calls, "nothing runs when build fields are missing")
	}
}

func TestNodeOutDirMissingAfterBuild(t *testing.T) {
	m := exec.NewMockRunner()
	tool := domain.Tool{Slug: "foo", Repo: "r", Type: domain.KindNode, Build: "true", OutDir: "build"}

	err := newTestBuilder(m, nil).Build(context.Background(), tool, t.TempDir(), filepath.Join(t.TempDir(), "foo"))
	assert.True(t, domain.IsCopy(err))
}

func TestUnknownType(t *testing.T) {
	m := exec.NewMockRunner()
	tool := domain.Tool{Slug: "py", Repo: "r", Type: "python"}

	err := newTestBuilder(m, nil).Build(context.Background(), tool, t.TempDir(), filepath.Join(t.TempDir(), "py"))
	require.Error(t, err)
	assert.True(t, domain.IsUnknownType(err))
	assert.Contains(t, err.Error(), "python for slug py")
}
