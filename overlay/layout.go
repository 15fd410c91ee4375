// Package overlay renders the touch-driven virtual gamepad: two pad
// instances (left and right) that translate pointer activity into the
// same router path physical controllers use.
package overlay

import (
	retro "github.com/KecklerHoch/LibRetroWrapper/api"
)

// Variant selects one of the three fixed pad layouts. Chosen once at
// construction and never changed during a session.
type Variant int

const (
	// Layout1 is the minimal set: d-pad plus two face buttons.
	Layout1 Variant = 1
	// Layout2 adds the second face-button pair, triggers, and a right
	// analog dial.
	Layout2 Variant = 2
	// Layout3 adds both analog dials and the stick-click buttons.
	Layout3 Variant = 3
)

// Side places a pad on the left or right edge of the screen.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// PadButton is one digital button in a layout: a circle in unit space
// ([0,1] across the pad square) bound to a retropad code.
type PadButton struct {
	Code    retro.KeyCode
	Label   string
	CX, CY  float64
	R       float64
}

// dial is an analog stick region in unit space.
type dial struct {
	Channel retro.MotionChannel
	CX, CY  float64
	R       float64
}

// layoutSpec is the data record describing one pad's geometry. Variants
// are records, not behaviors: every pad runs the same touch-tracking
// code over a different spec.
type layoutSpec struct {
	DPad        bool    // 8-way digital dial, forwarded on MotionDPad
	DPadCX      float64
	DPadCY      float64
	DPadR       float64
	HasDial     bool
	Dial        dial
	Buttons     []PadButton
}

// layoutFor returns the spec for a variant and side. Unknown variants
// fall back to Layout1.
func layoutFor(v Variant, side Side) layoutSpec {
	if side == SideLeft {
		return leftLayout(v)
	}
	return rightLayout(v)
}

func leftLayout(v Variant) layoutSpec {
	spec := layoutSpec{
		DPad:   true,
		DPadCX: 0.42,
		DPadCY: 0.52,
		DPadR:  0.32,
		Buttons: []PadButton{
			{Code: retro.KeySelect, Label: "SEL", CX: 0.16, CY: 0.94, R: 0.09},
			{Code: retro.KeyL1, Label: "L1", CX: 0.2, CY: 0.1, R: 0.1},
		},
	}

	switch v {
	case Layout2:
		spec.Buttons = append(spec.Buttons,
			PadButton{Code: retro.KeyL2, Label: "L2", CX: 0.48, CY: 0.08, R: 0.1},
		)
	case Layout3:
		spec.Buttons = append(spec.Buttons,
			PadButton{Code: retro.KeyL2, Label: "L2", CX: 0.48, CY: 0.08, R: 0.1},
			PadButton{Code: retro.KeyL3, Label: "L3", CX: 0.92, CY: 0.7, R: 0.09},
		)
		spec.HasDial = true
		spec.Dial = dial{Channel: retro.MotionAnalogLeft, CX: 0.78, CY: 0.92, R: 0.16}
	}

	return spec
}

func rightLayout(v Variant) layoutSpec {
	spec := layoutSpec{
		Buttons: []PadButton{
			{Code: retro.KeyA, Label: "A", CX: 0.76, CY: 0.42, R: 0.13},
			{Code: retro.KeyB, Label: "B", CX: 0.48, CY: 0.64, R: 0.13},
			{Code: retro.KeyStart, Label: "ST", CX: 0.84, CY: 0.94, R: 0.09},
			{Code: retro.KeyR1, Label: "R1", CX: 0.8, CY: 0.1, R: 0.1},
		},
	}

	if v == Layout1 {
		return spec
	}

	// Layout2 and Layout3 use the full face-button diamond plus the
	// second trigger row and a right analog dial.
	spec.Buttons = []PadButton{
		{Code: retro.KeyX, Label: "X", CX: 0.62, CY: 0.26, R: 0.11},
		{Code: retro.KeyA, Label: "A", CX: 0.82, CY: 0.42, R: 0.11},
		{Code: retro.KeyY, Label: "Y", CX: 0.42, CY: 0.42, R: 0.11},
		{Code: retro.KeyB, Label: "B", CX: 0.62, CY: 0.58, R: 0.11},
		{Code: retro.KeyStart, Label: "ST", CX: 0.84, CY: 0.94, R: 0.09},
		{Code: retro.KeyR1, Label: "R1", CX: 0.8, CY: 0.1, R: 0.1},
		{Code: retro.KeyR2, Label: "R2", CX: 0.52, CY: 0.08, R: 0.1},
	}
	spec.HasDial = true
	spec.Dial = dial{Channel: retro.MotionAnalogRight, CX: 0.24, CY: 0.9, R: 0.16}

	if v == Layout3 {
		spec.Buttons = append(spec.Buttons,
			PadButton{Code: retro.KeyR3, Label: "R3", CX: 0.08, CY: 0.66, R: 0.09},
		)
	}

	return spec
}
