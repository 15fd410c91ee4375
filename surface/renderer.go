package surface

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// renderer owns the ebiten offscreen image and draws framebuffer
// snapshots with aspect-preserving scaling, optionally through the
// session's shader pass.
type renderer struct {
	offscreen *ebiten.Image
	shader    *ebiten.Shader
	drawOpts  ebiten.DrawImageOptions
	rectOpts  ebiten.DrawRectShaderOptions
}

func newRenderer(mode ShaderMode) *renderer {
	return &renderer{shader: compileShader(mode)}
}

// draw renders pixel data to screen, centered and scaled to fit.
func (r *renderer) draw(screen *ebiten.Image, pixels []byte, stride, activeHeight int) {
	if activeHeight == 0 || stride == 0 {
		return
	}

	requiredLen := stride * activeHeight
	if len(pixels) < requiredLen {
		return
	}

	pixelWidth := stride / 4
	if r.offscreen == nil || r.offscreen.Bounds().Dx() != pixelWidth || r.offscreen.Bounds().Dy() != activeHeight {
		r.offscreen = ebiten.NewImage(pixelWidth, activeHeight)
	}

	r.offscreen.WritePixels(pixels[:requiredLen])

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(pixelWidth)
	nativeH := float64(activeHeight)

	scaleX := float64(screenW) / nativeW
	scaleY := float64(screenH) / nativeH
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	offsetX := (float64(screenW) - nativeW*scale) / 2
	offsetY := (float64(screenH) - nativeH*scale) / 2

	if r.shader != nil {
		r.rectOpts.GeoM.Reset()
		r.rectOpts.GeoM.Scale(scale, scale)
		r.rectOpts.GeoM.Translate(offsetX, offsetY)
		r.rectOpts.Images[0] = r.offscreen
		screen.DrawRectShader(pixelWidth, activeHeight, r.shader, &r.rectOpts)
		return
	}

	r.drawOpts.GeoM.Reset()
	r.drawOpts.GeoM.Scale(scale, scale)
	r.drawOpts.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(r.offscreen, &r.drawOpts)
}
