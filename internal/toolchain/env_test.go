package toolchain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picoforge/picoforge/internal/config"
)

func testBoard() *config.Board {
	return &config.Board{
		ID:     "rpipico",
		Name:   "Raspberry Pi Pico",
		Vendor: "Raspberry Pi",
		HWIDs:  [][2]string{{"0x2E8A", "0x000A"}},
		Build:  config.BuildOptions{FilesystemSize: "0MB"},
		Upload: config.UploadOptions{
			MaximumSize:    2 * 1024 * 1024,
			MaximumRAMSize: 256 * 1024,
		},
	}
}

func findDefine(t *testing.T, env *Env, name string) Define {
	t.Helper()
	for _, d := range env.CPPDefines {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("define %q not found in %v", name, env.CPPDefines)
	return Define{}
}

func TestNewEnv_BaselineFlags(t *testing.T) {
	t.Parallel()

	env := NewEnv("/fw", testBoard())

	assert.Contains(t, env.CCFlags, "-march=armv6-m")
	assert.Contains(t, env.CCFlags, "-mcpu=cortex-m0plus")
	assert.Contains(t, env.CCFlags, "-fno-exceptions")
	assert.Contains(t, env.CCFlags, "-iprefix/fw")
	assert.Contains(t, env.CCFlags, "@"+filepath.Join("/fw", "lib", "platform_inc.txt"))
	assert.Equal(t, []string{"-std=gnu17"}, env.CFlags)
	assert.Equal(t, []string{"-std=gnu++17"}, env.CXXFlags)

	assert.Contains(t, env.LinkFlags, "-Wl,--gc-sections")
	assert.Contains(t, env.LinkFlags, "@"+filepath.Join("/fw", "lib", "platform_wrap.txt"))

	// lib c is linked twice on purpose, bracketing libstdc++.
	assert.Equal(t, []string{"pico", "m", "c", "stdc++", "c"}, env.Libs)

	assert.Equal(t, Define{Name: "ARDUINO", Value: "10810"}, findDefine(t, env, "ARDUINO"))
	assert.True(t, env.HasDefine("ARDUINO_ARCH_RP2040"))
	assert.Equal(t, defaultFCPU, findDefine(t, env, "F_CPU").Value)
	assert.Equal(t, `"rpipico"`, findDefine(t, env, "BOARD_NAME").Value)

	assert.Contains(t, env.CPPPath, filepath.Join("/fw", "cores", "rp2040"))
	assert.Equal(t, SizeProgRegexp, env.SizeProgRegexp)
}

func TestNewEnv_BoardFCPU(t *testing.T) {
	t.Parallel()

	board := testBoard()
	board.Build.FCPU = "125000000L"
	env := NewEnv("/fw", board)

	assert.Equal(t, "125000000L", findDefine(t, env, "F_CPU").Value)
}

func TestNewEnv_ExtraFlags(t *testing.T) {
	t.Parallel()

	board := testBoard()
	board.Build.ExtraFlags = []string{"-DUSE_TINYUSB", "-DPICO_CYW43_SUPPORTED=1", "-O3"}
	env := NewEnv("/fw", board)

	assert.True(t, env.HasDefine("USE_TINYUSB"))
	assert.Equal(t, "1", findDefine(t, env, "PICO_CYW43_SUPPORTED").Value)
	assert.Contains(t, env.CCFlags, "-O3")
	assert.NotContains(t, env.CCFlags, "-DUSE_TINYUSB", "defines are lifted out of the flag list")

	assert.Equal(t, env.CCFlags, env.ASFlags, "assembly inherits the C compiler flags")
}

func TestEnv_DefineHelpers(t *testing.T) {
	t.Parallel()

	env := NewEnv("/fw", testBoard())
	require.False(t, env.HasDefine("NO_USB"))

	env.AddDefine("NO_USB", "")
	assert.True(t, env.HasDefine("NO_USB"))
	assert.Equal(t, Define{Name: "NO_USB"}, findDefine(t, env, "NO_USB"))
}
