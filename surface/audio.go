package surface

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ringBufferCapacity is ~167ms at 48kHz stereo 16-bit.
const ringBufferCapacity = 32768

// audioPlayer manages playback via oto. The emulation goroutine writes
// int16 stereo samples to a ring buffer which oto's player drains in a
// pull model. Muting sets volume to zero; the player keeps draining so
// buffer-level pacing still works.
type audioPlayer struct {
	player     *oto.Player
	ringBuffer *audioRingBuffer
	audioBytes []byte // Pre-allocated int16-to-byte conversion buffer
	volume     float64
}

// oto context singleton — one per process regardless of session count
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

func ensureOtoContext(sampleRate int) (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-readyChan
	})
	return otoCtx, otoInitErr
}

// newAudioPlayer creates and starts audio playback. The enabled flag sets
// the initial volume before Play to avoid a pop when starting muted.
func newAudioPlayer(sampleRate int, enabled bool) (*audioPlayer, error) {
	ctx, err := ensureOtoContext(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	rb := newAudioRingBuffer(ringBufferCapacity)
	player := ctx.NewPlayer(rb)
	// Keep the mux player buffer near 50ms so pacing stays responsive.
	player.SetBufferSize(sampleRate * 4 / 20)

	volume := 1.0
	if !enabled {
		volume = 0
	}
	player.SetVolume(volume)
	player.Play()

	return &audioPlayer{
		player:     player,
		ringBuffer: rb,
		audioBytes: make([]byte, 0, 4096),
		volume:     volume,
	}, nil
}

// queueSamples converts int16 stereo samples to bytes and writes them to
// the ring buffer.
func (a *audioPlayer) queueSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}

	needed := len(samples) * 2
	if cap(a.audioBytes) < needed {
		a.audioBytes = make([]byte, 0, needed)
	}
	a.audioBytes = a.audioBytes[:0]
	for _, sample := range samples {
		a.audioBytes = append(a.audioBytes, byte(sample), byte(sample>>8))
	}

	a.ringBuffer.Write(a.audioBytes)
}

// bufferLevel returns total buffered bytes (ring + oto internal), used to
// pace the emulation goroutine.
func (a *audioPlayer) bufferLevel() int {
	return a.ringBuffer.Buffered() + a.player.BufferedSize()
}

// setEnabled mutes or unmutes playback without stopping the drain.
func (a *audioPlayer) setEnabled(enabled bool) {
	vol := 0.0
	if enabled {
		vol = 1.0
	}
	a.volume = vol
	a.player.SetVolume(vol)
}

func (a *audioPlayer) enabled() bool {
	return a.volume > 0
}

func (a *audioPlayer) close() {
	if a.ringBuffer != nil {
		a.ringBuffer.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
}
