// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package convert_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mdhender/astrepr/convert"
	"github.com/mdhender/astrepr/renderer"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdataPath = "../testdata"

const snippet = `File: test.cj {
    position: (1, 1, 1) (1, 10, 2)
    PackageSpec: pkgname {
    }
    ImportSpec: Foo {
      prefixPaths: std.foo
    }
    SpawnExpr: {
    }
}
`

func TestConvertFixture(t *testing.T) {
	// reads come from disk, writes stay in memory
	fs := afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(afero.NewOsFs()), afero.NewMemMapFs())
	c, err := convert.New(convert.WithFS(fs))
	require.NoError(t, err)

	input := filepath.Join(testdataPath, "desugared-ast-repr.txt")
	output := filepath.Join("out", "resumptions.cj")
	res, err := c.ConvertFile(context.Background(), input, output)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Contains(t, res.Output, fmt.Sprintf("got here %d", i))
	}
	for _, want := range []string{"$frameLambda", "$handlerLambda", "package resumptions", "import std.collection.*", "import std.foo.{Foo}", "main()", "// position:"} {
		assert.Contains(t, res.Output, want)
	}
	assert.Contains(t, res.Output, "class Frame <: Resumable {")
	assert.Contains(t, res.Output, "catch (e: Exception) {")
	assert.Contains(t, res.Output, "/* SpawnExpr: position=(51, 5, 1) (53, 6, 1) mode=detached */")
	assert.Equal(t, 1, res.Placeholders())
	assert.Equal(t, 1, res.Unknown["SpawnExpr"])
	assert.Empty(t, res.Diagnostics)

	written, err := afero.ReadFile(fs, output)
	require.NoError(t, err)
	assert.Equal(t, res.Output, string(written))
}

func TestConvertSanitized(t *testing.T) {
	c, err := convert.New(
		convert.WithFS(afero.NewReadOnlyFs(afero.NewOsFs())),
		convert.WithRenderer(renderer.WithSanitizeIdentifiers(true), renderer.WithPositionComments(false)),
	)
	require.NoError(t, err)

	res, err := c.ConvertFile(context.Background(), filepath.Join(testdataPath, "desugared-ast-repr.txt"), "")
	require.NoError(t, err)
	assert.Contains(t, res.Output, "dollar_frameLambda")
	assert.NotContains(t, res.Output, "$")
	assert.NotContains(t, res.Output, "// position:")
}

func TestConvertCache(t *testing.T) {
	c, err := convert.New(convert.WithCacheSize(4))
	require.NoError(t, err)

	first, err := c.Convert(context.Background(), "a", []byte(snippet))
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := c.Convert(context.Background(), "b", []byte(snippet))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "b", second.Name)
	assert.Equal(t, first.SHA256, second.SHA256)
	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, 4, second.Nodes())

	uncached, err := convert.New(convert.WithCacheSize(0))
	require.NoError(t, err)
	again, err := uncached.Convert(context.Background(), "c", []byte(snippet))
	require.NoError(t, err)
	assert.False(t, again.Cached)
}

func TestConvertFileErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.txt", []byte("ClassDecl: A {\n}\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "good.txt", []byte(snippet), 0o644))

	c, err := convert.New(convert.WithFS(fs))
	require.NoError(t, err)

	ok, err := c.Exists("missing.txt")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = c.Exists("good.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.ConvertFile(context.Background(), "missing.txt", "")
	assert.Equal(t, convert.ErrCodeReadFile, convert.ErrorCode(err))

	_, err = c.ConvertFile(context.Background(), "bad.txt", "")
	assert.Equal(t, convert.ErrCodeFormat, convert.ErrorCode(err))

	c.SetFS(afero.NewReadOnlyFs(fs))
	_, err = c.ConvertFile(context.Background(), "good.txt", "out.cj")
	assert.Equal(t, convert.ErrCodeWriteFile, convert.ErrorCode(err))

	assert.Equal(t, convert.ErrCodeUnknown, convert.ErrorCode(fmt.Errorf("other")))
}

func TestConvertCanceled(t *testing.T) {
	c, err := convert.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Convert(ctx, "a", []byte(snippet))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptions(t *testing.T) {
	_, err := convert.New(convert.WithFS(nil))
	assert.Error(t, err)
	_, err = convert.New(convert.WithCacheSize(-1))
	assert.Error(t, err)
	_, err = convert.New(convert.WithRenderer(renderer.WithIndent("x")))
	assert.Error(t, err)
}
