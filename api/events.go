// Package retro defines the input vocabulary and the core-facing
// interfaces shared by the surface, input, and overlay packages.
package retro

// KeyAction is the half of a digital button event: press or release.
type KeyAction int

const (
	ActionDown KeyAction = iota
	ActionUp
)

// KeyCode identifies a retropad digital button. Only the 16 codes below
// are ever forwarded to the surface; everything else is dropped at the
// router boundary.
type KeyCode int

const (
	KeyB KeyCode = iota
	KeyY
	KeySelect
	KeyStart
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyA
	KeyX
	KeyL1
	KeyR1
	KeyL2
	KeyR2
	KeyL3
	KeyR3
)

// knownKeyCodes is the fixed allow-list checked by the input router.
var knownKeyCodes = map[KeyCode]bool{
	KeyB: true, KeyY: true, KeySelect: true, KeyStart: true,
	KeyUp: true, KeyDown: true, KeyLeft: true, KeyRight: true,
	KeyA: true, KeyX: true, KeyL1: true, KeyR1: true,
	KeyL2: true, KeyR2: true, KeyL3: true, KeyR3: true,
}

// KnownKeyCode reports whether code is in the fixed retropad allow-list.
func KnownKeyCode(code KeyCode) bool {
	return knownKeyCodes[code]
}

// keyNames maps codes to display names for config overrides and logging.
var keyNames = map[KeyCode]string{
	KeyB: "B", KeyY: "Y", KeySelect: "Select", KeyStart: "Start",
	KeyUp: "Up", KeyDown: "Down", KeyLeft: "Left", KeyRight: "Right",
	KeyA: "A", KeyX: "X", KeyL1: "L1", KeyR1: "R1",
	KeyL2: "L2", KeyR2: "R2", KeyL3: "L3", KeyR3: "R3",
}

// String returns the display name of the code, or "Unknown" for codes
// outside the allow-list.
func (c KeyCode) String() string {
	if name, ok := keyNames[c]; ok {
		return name
	}
	return "Unknown"
}

// MotionChannel identifies one of the three analog input sources. Each
// channel carries exactly two axis samples in [-1, 1].
type MotionChannel int

const (
	MotionDPad MotionChannel = iota
	MotionAnalogLeft
	MotionAnalogRight
)

// KnownMotionChannel reports whether ch is one of the three defined
// motion channels.
func KnownMotionChannel(ch MotionChannel) bool {
	switch ch {
	case MotionDPad, MotionAnalogLeft, MotionAnalogRight:
		return true
	}
	return false
}

// KeyEvent is a digital button press or release.
type KeyEvent struct {
	Action KeyAction
	Code   KeyCode
}

// MotionEvent is a two-axis sample on one motion channel.
type MotionEvent struct {
	Channel MotionChannel
	X, Y    float64
}
