package overlay

import (
	"bytes"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fillColor    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x2e}
	pressedColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x5a}
	ringColor    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x46}
	labelColor   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x96}
)

// sharedFontSource is the cached TrueType font source for pad labels
var sharedFontSource *text.GoTextFaceSource

// loadFontSource loads the shared GoTextFaceSource from goregular.TTF (once)
func loadFontSource() *text.GoTextFaceSource {
	if sharedFontSource == nil {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Printf("Failed to load font source: %v", err)
			return nil
		}
		sharedFontSource = source
	}
	return sharedFontSource
}

// Draw renders the pad's controls as translucent shapes over the game
// image. Hidden pads draw nothing.
func (p *Pad) Draw(screen *ebiten.Image) {
	if !p.visible || p.size == 0 {
		return
	}

	if p.spec.DPad {
		p.drawDPad(screen)
	}
	if p.spec.HasDial {
		p.drawDial(screen)
	}
	for _, b := range p.spec.Buttons {
		p.drawButton(screen, b)
	}
}

func (p *Pad) drawButton(screen *ebiten.Image, b PadButton) {
	cx := float32(p.originX + b.CX*p.size)
	cy := float32(p.originY + b.CY*p.size)
	r := float32(b.R * p.size)
	fill := fillColor
	if p.pressed[b.Code] {
		fill = pressedColor
	}
	vector.DrawFilledCircle(screen, cx, cy, r, fill, true)
	vector.StrokeCircle(screen, cx, cy, r, 1.5, ringColor, true)
	p.drawLabel(screen, b.Label, float64(cx), float64(cy), b.R*p.size)
}

// drawDPad draws the digital dial as a cross of two rounded bars with
// the active direction highlighted.
func (p *Pad) drawDPad(screen *ebiten.Image) {
	cx := float32(p.originX + p.spec.DPadCX*p.size)
	cy := float32(p.originY + p.spec.DPadCY*p.size)
	r := float32(p.spec.DPadR * p.size)
	arm := r * 0.42

	vector.DrawFilledRect(screen, cx-r, cy-arm/2, 2*r, arm, fillColor, true)
	vector.DrawFilledRect(screen, cx-arm/2, cy-r, arm, 2*r, fillColor, true)
	vector.StrokeCircle(screen, cx, cy, r, 1.5, ringColor, true)

	// Highlight the held direction so the quantized state is readable.
	if p.dpadX != 0 || p.dpadY != 0 {
		hx := cx + float32(p.dpadX)*r*0.6
		hy := cy + float32(p.dpadY)*r*0.6
		vector.DrawFilledCircle(screen, hx, hy, arm/2, pressedColor, true)
	}
}

// drawDial draws the analog region: an outer ring plus a thumb circle
// displaced by the current axis values.
func (p *Pad) drawDial(screen *ebiten.Image) {
	cx := float32(p.originX + p.spec.Dial.CX*p.size)
	cy := float32(p.originY + p.spec.Dial.CY*p.size)
	r := float32(p.spec.Dial.R * p.size)

	vector.StrokeCircle(screen, cx, cy, r, 1.5, ringColor, true)
	tx := cx + float32(p.dialX)*r*0.7
	ty := cy + float32(p.dialY)*r*0.7
	thumb := fillColor
	if p.dialX != 0 || p.dialY != 0 {
		thumb = pressedColor
	}
	vector.DrawFilledCircle(screen, tx, ty, r*0.45, thumb, true)
}

func (p *Pad) drawLabel(screen *ebiten.Image, label string, cx, cy, r float64) {
	source := loadFontSource()
	if source == nil || label == "" {
		return
	}
	face := &text.GoTextFace{Source: source, Size: r * 0.8}
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(labelColor)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, label, face, op)
}
