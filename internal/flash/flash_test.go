package flash

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picoforge/picoforge/internal/ctxlog"
)

// testContext returns a context carrying a logger that writes to the
// returned buffer, so tests can assert on emitted diagnostics.
func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

func TestCompute_NoFilesystem(t *testing.T) {
	t.Parallel()
	ctx, _ := testContext(t)

	const flashSize = 2 * 1024 * 1024
	layout, err := Compute(ctx, flashSize, "0MB")
	require.NoError(t, err)

	assert.Equal(t, int64(flashSize-4096), layout.SketchMaxSize)
	assert.Equal(t, layout.SketchMaxSize, layout.FlashLength)
	// With no filesystem the region collapses to its boundary.
	assert.Equal(t, layout.FSStart, layout.FSEnd)
	assert.Equal(t, int64(Base+flashSize-4096), layout.EEPROMStart)
}

func TestCompute_WithFilesystem(t *testing.T) {
	t.Parallel()
	ctx, _ := testContext(t)

	const flashSize = 2 * 1024 * 1024
	const fsBytes = 1 * 1024 * 1024
	layout, err := Compute(ctx, flashSize, "1MB")
	require.NoError(t, err)

	assert.Equal(t, int64(flashSize-4096-fsBytes), layout.SketchMaxSize)
	assert.Equal(t, int64(fsBytes), layout.FSEnd-layout.FSStart,
		"filesystem region must span exactly the requested size")
	assert.Equal(t, layout.FSEnd, layout.EEPROMStart,
		"EEPROM page and filesystem region share their boundary")
	assert.Equal(t, int64(Base+flashSize-4096), layout.FSEnd)
}

func TestCompute_FilesystemTooLarge(t *testing.T) {
	t.Parallel()
	ctx, _ := testContext(t)

	// 2MB filesystem on a 2MB flash leaves no room for the sketch at all.
	layout, err := Compute(ctx, 2*1024*1024, "2MB")
	require.Error(t, err)
	assert.Nil(t, layout, "no partial layout on the fatal path")

	var overflow *OverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, int64(-4096), overflow.Available)
	assert.Contains(t, err.Error(), "-4096")
}

func TestCompute_MalformedExpressionDefaultsToZero(t *testing.T) {
	t.Parallel()
	ctx, buf := testContext(t)

	const flashSize = 2 * 1024 * 1024
	layout, err := Compute(ctx, flashSize, "garbage")
	require.NoError(t, err, "a malformed expression alone must not abort the build")

	assert.Equal(t, int64(flashSize-4096), layout.SketchMaxSize,
		"malformed filesystem size is treated as 0")
	assert.Contains(t, buf.String(), "Could not parse filesystem size expression")
}

func TestCompute_Idempotent(t *testing.T) {
	t.Parallel()
	ctx, _ := testContext(t)

	first, err := Compute(ctx, 16*1024*1024, "8MB")
	require.NoError(t, err)
	second, err := Compute(ctx, 16*1024*1024, "8MB")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
