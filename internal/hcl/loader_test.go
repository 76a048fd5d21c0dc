package hcl

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picoforge/picoforge/internal/ctxlog"
)

const picoManifest = `
board "rpipico" {
  name   = "Raspberry Pi Pico"
  vendor = "Raspberry Pi"
  hwids  = [["0x2E8A", "0x000A"]]

  build {
    f_cpu           = "133000000L"
    variant         = "rpipico"
    filesystem_size = "1MB"
    extra_flags     = "-DUSE_TINYUSB -O3"

    usb {
      vid = "0x2E8A"
      pid = "0x000A"
    }
  }

  upload {
    maximum_size     = "2MB"
    maximum_ram_size = "256K"
  }
}
`

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

// writeManifest writes an HCL manifest into a fresh temp dir and returns
// the directory path.
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "boards.hcl"), []byte(content), 0o600)
	require.NoError(t, err)
	return dir
}

func TestLoad_TranslatesBoard(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, picoManifest)

	boards, err := NewLoader().Load(testContext(t), dir)
	require.NoError(t, err)
	require.Len(t, boards, 1)

	b := boards[0]
	assert.Equal(t, "rpipico", b.ID)
	assert.Equal(t, "Raspberry Pi Pico", b.Name)
	assert.Equal(t, "Raspberry Pi", b.Vendor)
	assert.Equal(t, [][2]string{{"0x2E8A", "0x000A"}}, b.HWIDs)

	assert.Equal(t, int64(2*1024*1024), b.Upload.MaximumSize, "flash size resolved to bytes")
	assert.Equal(t, int64(256*1024), b.Upload.MaximumRAMSize)

	assert.Equal(t, "rpipico", b.Build.Variant)
	assert.Equal(t, "1MB", b.Build.FilesystemSize, "filesystem size stays an expression")
	assert.Equal(t, []string{"-DUSE_TINYUSB", "-O3"}, b.Build.ExtraFlags, "extra flags split into argv form")
	require.NotNil(t, b.Build.USB)
	assert.Equal(t, "0x2E8A", b.Build.USB.VID)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, `
board "bare" {
  name = "Bare Board"

  upload {
    maximum_size     = "2MB"
    maximum_ram_size = "264K"
  }
}
`)

	boards, err := NewLoader().Load(testContext(t), dir)
	require.NoError(t, err)
	require.Len(t, boards, 1)

	b := boards[0]
	assert.Equal(t, "0MB", b.Build.FilesystemSize, "filesystem size defaults to 0MB")
	assert.Empty(t, b.Build.Variant)
	assert.Empty(t, b.HWIDs)
	assert.Nil(t, b.Build.USB)
}

func TestLoad_SingleFilePath(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, picoManifest)

	boards, err := NewLoader().Load(testContext(t), filepath.Join(dir, "boards.hcl"))
	require.NoError(t, err)
	assert.Len(t, boards, 1)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		dir := writeManifest(t, `board "broken" {`)

		_, err := NewLoader().Load(testContext(t), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("missing upload block", func(t *testing.T) {
		t.Parallel()
		dir := writeManifest(t, `
board "noupload" {
  name = "No Upload"
}
`)

		_, err := NewLoader().Load(testContext(t), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upload")
	})

	t.Run("unparsable flash size is a hard error", func(t *testing.T) {
		t.Parallel()
		dir := writeManifest(t, `
board "badflash" {
  name = "Bad Flash"

  upload {
    maximum_size     = "two megabytes"
    maximum_ram_size = "264K"
  }
}
`)

		_, err := NewLoader().Load(testContext(t), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maximum_size")
	})

	t.Run("malformed hwids pair", func(t *testing.T) {
		t.Parallel()
		dir := writeManifest(t, `
board "badhwids" {
  name  = "Bad HWIDs"
  hwids = [["0x2E8A"]]

  upload {
    maximum_size     = "2MB"
    maximum_ram_size = "264K"
  }
}
`)

		_, err := NewLoader().Load(testContext(t), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hwids")
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, err := NewLoader().Load(testContext(t), filepath.Join(t.TempDir(), "does-not-exist"))
		require.Error(t, err)
	})
}
