package surface

import (
	_ "embed"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// ShaderMode selects the post-processing effect applied to the rendered
// frame. Chosen once at surface construction.
type ShaderMode int

const (
	ShaderNone ShaderMode = iota
	ShaderCRT
	ShaderLCD
)

//go:embed shaders/crt.kage
var crtShaderSrc []byte

//go:embed shaders/lcd.kage
var lcdShaderSrc []byte

// ParseShaderMode maps a config string to a ShaderMode. Unknown values
// fall back to ShaderNone.
func ParseShaderMode(name string) ShaderMode {
	switch name {
	case "crt":
		return ShaderCRT
	case "lcd":
		return ShaderLCD
	}
	return ShaderNone
}

// compileShader compiles the Kage source for mode, or returns nil for
// ShaderNone and on compile failure (plain draw fallback).
func compileShader(mode ShaderMode) *ebiten.Shader {
	var src []byte
	switch mode {
	case ShaderCRT:
		src = crtShaderSrc
	case ShaderLCD:
		src = lcdShaderSrc
	default:
		return nil
	}

	shader, err := ebiten.NewShader(src)
	if err != nil {
		log.Printf("Failed to compile shader: %v", err)
		return nil
	}
	return shader
}
