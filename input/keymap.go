package input

import (
	"github.com/hajimehoshi/ebiten/v2"

	retro "github.com/KecklerHoch/LibRetroWrapper/api"
)

// Mapping binds retropad codes to physical keyboard keys and standard
// gamepad buttons.
type Mapping struct {
	Keys map[retro.KeyCode]ebiten.Key
	Pad  map[retro.KeyCode]ebiten.StandardGamepadButton
}

// keyNameMap maps short key name strings (used in config overrides) to
// ebiten.Key values.
var keyNameMap = map[string]ebiten.Key{
	"A":          ebiten.KeyA,
	"B":          ebiten.KeyB,
	"C":          ebiten.KeyC,
	"D":          ebiten.KeyD,
	"E":          ebiten.KeyE,
	"F":          ebiten.KeyF,
	"G":          ebiten.KeyG,
	"H":          ebiten.KeyH,
	"I":          ebiten.KeyI,
	"J":          ebiten.KeyJ,
	"K":          ebiten.KeyK,
	"L":          ebiten.KeyL,
	"M":          ebiten.KeyM,
	"N":          ebiten.KeyN,
	"O":          ebiten.KeyO,
	"P":          ebiten.KeyP,
	"Q":          ebiten.KeyQ,
	"R":          ebiten.KeyR,
	"S":          ebiten.KeyS,
	"T":          ebiten.KeyT,
	"U":          ebiten.KeyU,
	"V":          ebiten.KeyV,
	"W":          ebiten.KeyW,
	"X":          ebiten.KeyX,
	"Y":          ebiten.KeyY,
	"Z":          ebiten.KeyZ,
	"0":          ebiten.Key0,
	"1":          ebiten.Key1,
	"2":          ebiten.Key2,
	"3":          ebiten.Key3,
	"4":          ebiten.Key4,
	"5":          ebiten.Key5,
	"6":          ebiten.Key6,
	"7":          ebiten.Key7,
	"8":          ebiten.Key8,
	"9":          ebiten.Key9,
	"Enter":      ebiten.KeyEnter,
	"Backspace":  ebiten.KeyBackspace,
	"Space":      ebiten.KeySpace,
	"Tab":        ebiten.KeyTab,
	"Shift":      ebiten.KeyShift,
	"ArrowUp":    ebiten.KeyArrowUp,
	"ArrowDown":  ebiten.KeyArrowDown,
	"ArrowLeft":  ebiten.KeyArrowLeft,
	"ArrowRight": ebiten.KeyArrowRight,
	"Comma":      ebiten.KeyComma,
	"Period":     ebiten.KeyPeriod,
	"Slash":      ebiten.KeySlash,
	"Semicolon":  ebiten.KeySemicolon,
	"[":          ebiten.KeyLeftBracket,
	"]":          ebiten.KeyRightBracket,
	"-":          ebiten.KeyMinus,
	"=":          ebiten.KeyEqual,
	"'":          ebiten.KeyApostrophe,
}

// padNameMap maps gamepad button name strings to ebiten standard gamepad
// buttons.
var padNameMap = map[string]ebiten.StandardGamepadButton{
	"A":         ebiten.StandardGamepadButtonRightBottom,
	"B":         ebiten.StandardGamepadButtonRightRight,
	"X":         ebiten.StandardGamepadButtonRightLeft,
	"Y":         ebiten.StandardGamepadButtonRightTop,
	"L1":        ebiten.StandardGamepadButtonFrontTopLeft,
	"R1":        ebiten.StandardGamepadButtonFrontTopRight,
	"L2":        ebiten.StandardGamepadButtonFrontBottomLeft,
	"R2":        ebiten.StandardGamepadButtonFrontBottomRight,
	"Start":     ebiten.StandardGamepadButtonCenterRight,
	"Select":    ebiten.StandardGamepadButtonCenterLeft,
	"DpadUp":    ebiten.StandardGamepadButtonLeftTop,
	"DpadDown":  ebiten.StandardGamepadButtonLeftBottom,
	"DpadLeft":  ebiten.StandardGamepadButtonLeftLeft,
	"DpadRight": ebiten.StandardGamepadButtonLeftRight,
	"L3":        ebiten.StandardGamepadButtonLeftStick,
	"R3":        ebiten.StandardGamepadButtonRightStick,
}

// defaultKeys is the keyboard layout used when no override is configured.
var defaultKeys = map[retro.KeyCode]ebiten.Key{
	retro.KeyUp:     ebiten.KeyArrowUp,
	retro.KeyDown:   ebiten.KeyArrowDown,
	retro.KeyLeft:   ebiten.KeyArrowLeft,
	retro.KeyRight:  ebiten.KeyArrowRight,
	retro.KeyB:      ebiten.KeyZ,
	retro.KeyA:      ebiten.KeyX,
	retro.KeyY:      ebiten.KeyA,
	retro.KeyX:      ebiten.KeyS,
	retro.KeyStart:  ebiten.KeyEnter,
	retro.KeySelect: ebiten.KeyBackspace,
	retro.KeyL1:     ebiten.KeyQ,
	retro.KeyR1:     ebiten.KeyW,
	retro.KeyL2:     ebiten.KeyE,
	retro.KeyR2:     ebiten.KeyR,
	retro.KeyL3:     ebiten.KeyT,
	retro.KeyR3:     ebiten.KeyY,
}

// defaultPad is the standard-gamepad layout; a one-to-one retropad match.
var defaultPad = map[retro.KeyCode]ebiten.StandardGamepadButton{
	retro.KeyUp:     ebiten.StandardGamepadButtonLeftTop,
	retro.KeyDown:   ebiten.StandardGamepadButtonLeftBottom,
	retro.KeyLeft:   ebiten.StandardGamepadButtonLeftLeft,
	retro.KeyRight:  ebiten.StandardGamepadButtonLeftRight,
	retro.KeyB:      ebiten.StandardGamepadButtonRightBottom,
	retro.KeyA:      ebiten.StandardGamepadButtonRightRight,
	retro.KeyY:      ebiten.StandardGamepadButtonRightLeft,
	retro.KeyX:      ebiten.StandardGamepadButtonRightTop,
	retro.KeyStart:  ebiten.StandardGamepadButtonCenterRight,
	retro.KeySelect: ebiten.StandardGamepadButtonCenterLeft,
	retro.KeyL1:     ebiten.StandardGamepadButtonFrontTopLeft,
	retro.KeyR1:     ebiten.StandardGamepadButtonFrontTopRight,
	retro.KeyL2:     ebiten.StandardGamepadButtonFrontBottomLeft,
	retro.KeyR2:     ebiten.StandardGamepadButtonFrontBottomRight,
	retro.KeyL3:     ebiten.StandardGamepadButtonLeftStick,
	retro.KeyR3:     ebiten.StandardGamepadButtonRightStick,
}

// ParseKey converts a key name string to an ebiten.Key.
func ParseKey(name string) (ebiten.Key, bool) {
	k, ok := keyNameMap[name]
	return k, ok
}

// ParsePad converts a gamepad button name string to an ebiten standard
// gamepad button.
func ParsePad(name string) (ebiten.StandardGamepadButton, bool) {
	b, ok := padNameMap[name]
	return b, ok
}

// DefaultMapping returns the built-in keyboard and gamepad bindings.
func DefaultMapping() Mapping {
	return BuildMapping(nil, nil)
}

// BuildMapping creates a Mapping from config overrides with built-in
// defaults as fallback. Override maps are keyed by retropad button name
// (api KeyCode display name); absent or invalid entries fall back to the
// default binding.
func BuildMapping(kbOverrides, padOverrides map[string]string) Mapping {
	m := Mapping{
		Keys: make(map[retro.KeyCode]ebiten.Key, len(defaultKeys)),
		Pad:  make(map[retro.KeyCode]ebiten.StandardGamepadButton, len(defaultPad)),
	}

	for code, key := range defaultKeys {
		if override, ok := kbOverrides[code.String()]; ok {
			if k, ok := ParseKey(override); ok {
				m.Keys[code] = k
				continue
			}
		}
		m.Keys[code] = key
	}

	for code, btn := range defaultPad {
		if override, ok := padOverrides[code.String()]; ok {
			if b, ok := ParsePad(override); ok {
				m.Pad[code] = b
				continue
			}
		}
		m.Pad[code] = btn
	}

	return m
}
