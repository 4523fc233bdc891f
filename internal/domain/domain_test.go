package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTool(t *testing.T, raw string) Tool {
	t.Helper()
	var tool Tool
	require.NoError(t, json.Unmarshal([]byte(raw), &tool))
	return tool
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"plain", `{"slug":"calc"}`, false},
		{"dashes and dots", `{"slug":"my-tool.v2"}`, false},
		{"missing", `{}`, true},
		{"empty", `{"slug":""}`, true},
		{"number", `{"slug":42}`, true},
		{"forward slash", `{"slug":"a/b"}`, true},
		{"backslash", `{"slug":"a\\b"}`, true},
		{"parent token", `{"slug":".."}`, true},
		{"parent token inside", `{"slug":"a..b"}`, true},
		{"current dir", `{"slug":"."}`, true},
		{"not an object", `"calc"`, true},
		{"null entry", `null`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(decodeTool(t, tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				assert.Contains(t, err.Error(), "invalid slug")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToolUnmarshalLenient(t *testing.T) {
	tool := decodeTool(t, `{"slug":"a","repo":"r","type":"node","build":7,"outDir":"out","name":true,"extra":1}`)

	assert.Equal(t, "a", tool.Slug)
	assert.Equal(t, KindNode, tool.Type)
	assert.Empty(t, tool.Build)
	assert.True(t, tool.IsMalformed("build"))
	assert.False(t, tool.IsMalformed("name"))
	assert.False(t, tool.IsMalformed("extra"))
	assert.Equal(t, []string{"build (number)"}, tool.Malformed())
}

func TestNonStringLabelsAreNotFatal(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"slug":"a","repo":"r","type":"static","name":5}`, "5"},
		{`{"slug":"a","repo":"r","type":"static","name":true}`, "true"},
		{`{"slug":"a","repo":"r","type":"static","name":0,"title":"T"}`, "T"},
		{`{"slug":"a","repo":"r","type":"static","name":false,"title":2.5}`, "2.5"},
		{`{"slug":"a","repo":"r","type":"static","name":{"x":1},"title":["y"]}`, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			tool := decodeTool(t, tt.raw)
			assert.Equal(t, tt.want, tool.Label())
			assert.NoError(t, tool.CheckBuildable())
		})
	}
}

func TestToolLabel(t *testing.T) {
	assert.Equal(t, "Name", Tool{Slug: "s", Name: "Name", Title: "Title"}.Label())
	assert.Equal(t, "Title", Tool{Slug: "s", Title: "Title"}.Label())
	assert.Equal(t, "s", Tool{Slug: "s"}.Label())
}

func TestToolBasePathAndSource(t *testing.T) {
	tool := Tool{Slug: "foo"}
	assert.Equal(t, "/foo/", tool.BasePath())
	assert.Equal(t, ".", tool.SourceDir())
	tool.Src = "public"
	assert.Equal(t, "public", tool.SourceDir())
}

func TestCheckRequired(t *testing.T) {
	assert.NoError(t, Tool{Slug: "a", Repo: "r", Type: KindStatic}.CheckRequired())

	err := Tool{Slug: "a", Type: KindStatic}.CheckRequired()
	require.Error(t, err)
	assert.True(t, IsConfig(err))
	assert.Contains(t, err.Error(), "missing repo/type for slug a")

	err = decodeTool(t, `{"slug":"b","repo":"r","type":3}`).CheckRequired()
	assert.True(t, IsConfig(err))
}

func TestCheckBuildable(t *testing.T) {
	assert.NoError(t, Tool{Slug: "a", Type: KindStatic}.CheckBuildable())
	assert.NoError(t, Tool{Slug: "a", Type: KindNode, Build: "npm run build", OutDir: "dist"}.CheckBuildable())

	err := Tool{Slug: "a", Type: KindNode, Build: "npm run build"}.CheckBuildable()
	require.Error(t, err)
	assert.True(t, IsConfig(err))
	assert.True(t, IsBuild(err))
	assert.Contains(t, err.Error(), "requires build and outDir for slug a")

	err = Tool{Slug: "a", Type: "python"}.CheckBuildable()
	assert.True(t, IsUnknownType(err))
	assert.Contains(t, err.Error(), "unknown tool type: python for slug a")

	err = decodeTool(t, `{"slug":"a","repo":"r","type":"static","src":["x"]}`).CheckBuildable()
	assert.True(t, IsConfig(err))
	assert.Contains(t, err.Error(), "src (array)")
}

func TestToolErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("run: %w", NewCopyError("a", "copy static", cause))

	assert.True(t, IsCopy(err))
	assert.False(t, IsBuild(err))
	assert.ErrorIs(t, err, cause)

	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "a", te.Slug)
	assert.Equal(t, "copy error: copy static for slug a: boom", te.Error())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(errors.New("plain")))
	err := &ToolError{Kinds: []error{ErrBuild}, Slug: "a", Op: "build command failed", ExitCode: 2}
	assert.Equal(t, 2, ExitCode(fmt.Errorf("wrapped: %w", err)))
	assert.Contains(t, err.Error(), "(exit code 2)")
}

func TestResolveWithin(t *testing.T) {
	base := filepath.Join(t.TempDir(), "ws")

	got, err := ResolveWithin("a", base, ".")
	require.NoError(t, err)
	assert.Equal(t, base, got)

	got, err = ResolveWithin("a", base, "site/public")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "site", "public"), got)

	for _, rel := range []string{"..", "../other", "a/../../b", "/etc"} {
		_, err := ResolveWithin("a", base, rel)
		assert.True(t, IsValidation(err), rel)
	}
}

func TestEnsureContainedFollowsSymlinks(t *testing.T) {
	base := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "site"), 0755))
	require.NoError(t, os.Symlink("site", filepath.Join(base, "public")))
	require.NoError(t, os.Symlink(outside, filepath.Join(base, "escape")))

	assert.NoError(t, EnsureContained("a", base, filepath.Join(base, "site")))
	assert.NoError(t, EnsureContained("a", base, filepath.Join(base, "public")))
	assert.NoError(t, EnsureContained("a", base, filepath.Join(base, "missing")), "missing paths are left to the copy")

	err := EnsureContained("a", base, filepath.Join(base, "escape"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "escapes tool workspace")
}
