package retro

// Core is the emulator core adapter that a wrapped program provides.
// The core's rendering and audio internals are its own business; this
// layer only drives frames, feeds input, and collects output buffers.
type Core interface {
	// RunFrame executes one frame of emulation.
	RunFrame()

	// Framebuffer returns the current frame as RGBA pixel data.
	Framebuffer() []byte

	// FramebufferStride returns bytes per row in the framebuffer.
	FramebufferStride() int

	// ActiveHeight returns the current active display height in pixels.
	ActiveHeight() int

	// AudioSamples returns stereo 16-bit PCM samples for the frame.
	AudioSamples() []int16

	// SetButton sets the pressed state of one digital button.
	SetButton(code KeyCode, pressed bool)

	// SetAxis sets both axis values of one motion channel.
	SetAxis(channel MotionChannel, x, y float64)

	// Close releases any resources held by the core.
	Close()
}

// BatterySaver enables save-memory persistence for cores whose program
// uses battery-backed RAM. Detected by type assertion on the Core.
type BatterySaver interface {
	// HasSRAM reports whether the loaded program uses battery-backed save.
	HasSRAM() bool

	// GetSRAM returns a copy of the current save-memory contents.
	GetSRAM() []byte

	// SetSRAM loads save-memory contents into the core.
	SetSRAM(data []byte)
}

// CoreFactory creates core instances and provides system metadata.
type CoreFactory interface {
	// SystemInfo returns system metadata for surface configuration.
	SystemInfo() SystemInfo

	// CreateCore creates a new core instance with the given program image.
	CreateCore(rom []byte) (Core, error)
}

// SystemInfo describes the emulated system to the hosting surface.
type SystemInfo struct {
	CoreName        string
	Extensions      []string // Valid program image file extensions
	ScreenWidth     int
	MaxScreenHeight int
	SampleRate      int
	FPS             int
	DataDirName     string // Private storage directory name
}
