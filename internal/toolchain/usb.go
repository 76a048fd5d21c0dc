package toolchain

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/picoforge/picoforge/internal/config"
	"github.com/picoforge/picoforge/internal/ctxlog"
)

// Upload protocols with special USB identity handling.
const (
	ProtocolPicotool  = "picotool"
	ProtocolPicoprobe = "picoprobe"
	ProtocolPicodebug = "picodebug"
)

// picodebugRAMSize is the reduced RAM budget when pico-debug runs
// alongside the sketch; the debugger claims the upper part of SRAM.
const picodebugRAMSize = 240 * 1024

// ConfigureUSB resolves the USB identity for the build and appends the
// matching include paths and defines to env.
//
// Three USB stacks are possible: Adafruit TinyUSB (USE_TINYUSB define), no
// USB at all (PIO_FRAMEWORK_ARDUINO_NO_USB define), or the standard Pico
// SDK stack. In the no-USB case nothing beyond the disabling defines is
// configured.
//
// The identity compiled into the descriptors prefers the board's explicit
// usb block and falls back to the first hwids pair. The pair used for
// upload autodetection may differ: picoprobe and pico-debug expose their
// own identities, and pico-debug additionally caps the RAM budget. The
// effective autodetection pair is written back into board.HWIDs[0] and the
// RAM budget into board.Upload.MaximumRAMSize.
func ConfigureUSB(ctx context.Context, env *Env, board *config.Board, uploadProtocol string) {
	logger := ctxlog.FromContext(ctx)

	switch {
	case env.HasDefine("USE_TINYUSB"):
		logger.Debug("Configuring USB for the Adafruit TinyUSB stack.")
		env.AddIncludePath(filepath.Join(env.FrameworkDir, "libraries", "Adafruit_TinyUSB_Arduino", "src", "arduino"))
	case env.HasDefine("PIO_FRAMEWORK_ARDUINO_NO_USB"):
		logger.Debug("USB disabled for this build.")
		env.AddIncludePath(filepath.Join(env.FrameworkDir, "tools", "libpico"))
		env.AddDefine("NO_USB", "")
		env.AddDefine("DISABLE_USB_SERIAL", "")
		// No USB stack in the build; do not resolve an identity or touch
		// the upload budgets.
		return
	default:
		logger.Debug("Configuring USB for the standard Pico SDK stack.")
		env.AddIncludePath(filepath.Join(env.FrameworkDir, "tools", "libpico"))
	}

	vid, pid := "0", "0"
	if len(board.HWIDs) > 0 {
		vid, pid = board.HWIDs[0][0], board.HWIDs[0][1]
	}
	manufacturer := board.Vendor
	if manufacturer == "" {
		manufacturer = "Raspberry Pi"
	}
	product := board.Name
	if product == "" {
		product = "Pico"
	}
	if usb := board.Build.USB; usb != nil {
		if usb.VID != "" {
			vid = usb.VID
		}
		if usb.PID != "" {
			pid = usb.PID
		}
		if usb.Manufacturer != "" {
			manufacturer = usb.Manufacturer
		}
		if usb.Product != "" {
			product = usb.Product
		}
	}

	// The upload method can shadow the sketch's own USB identity.
	vidToUse, pidToUse := vid, pid
	switch uploadProtocol {
	case ProtocolPicoprobe:
		pidToUse = "0x0004"
	case ProtocolPicodebug:
		vidToUse = "0x1209"
		pidToUse = "0x2488"
		board.Upload.MaximumRAMSize = picodebugRAMSize
	}

	env.AddDefine("CFG_TUSB_MCU", "OPT_MCU_RP2040")
	env.AddDefine("USB_VID", vid)
	env.AddDefine("USB_PID", pid)
	env.AddDefine("USB_MANUFACTURER", strconv.Quote(manufacturer))
	env.AddDefine("USB_PRODUCT", strconv.Quote(product))
	env.AddDefine("SERIALUSB_PID", pid)

	if len(board.HWIDs) == 0 {
		board.HWIDs = [][2]string{{"0x2E8A", "0x00C0"}}
	}
	board.HWIDs[0][0] = vidToUse
	board.HWIDs[0][1] = pidToUse

	logger.Debug("USB identity resolved.",
		"usb_vid", vid, "usb_pid", pid,
		"autodetect_vid", vidToUse, "autodetect_pid", pidToUse,
		"manufacturer", manufacturer, "product", product)
}
