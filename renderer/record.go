package renderer

import (
	"fmt"
	"log"

	"github.com/richinsley/goglsandbox/encoder"
	"github.com/richinsley/goglsandbox/glapi"
	"github.com/richinsley/goglsandbox/options"
)

// FrameSink receives captured frames.
type FrameSink interface {
	WriteFrame(pixels []byte, pts int64) error
	Close() error
}

var newSink = func(opts *options.Options, width, height int) (FrameSink, error) {
	return encoder.New(opts, width, height)
}

// Capture reads the framebuffer as bottom-up RGBA.
func (r *Renderer) Capture(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	r.fn.ReadPixels(0, 0, int32(width), int32(height), glapi.RGBA, glapi.UNSIGNED_BYTE, pixels)
	return pixels
}

// runRecord is the producer: it renders, captures and hands frames to the
// sink. The frame size is fixed when recording starts.
func (r *Renderer) runRecord() error {
	width, height := r.context.GetFramebufferSize()
	sink, err := newSink(r.opts, width, height)
	if err != nil {
		return fmt.Errorf("failed to start encoder: %w", err)
	}

	start := r.context.Time()
	var loopErr error
	for !r.done() {
		r.RenderFrame()
		if w, h := r.context.GetFramebufferSize(); w != width || h != height {
			loopErr = fmt.Errorf("framebuffer resized to %dx%d while recording %dx%d", w, h, width, height)
			break
		}
		if err := sink.WriteFrame(r.Capture(width, height), r.frame-1); err != nil {
			loopErr = err
			break
		}
		r.context.EndFrame()
	}

	closeErr := sink.Close()
	if loopErr != nil {
		return loopErr
	}
	if closeErr != nil {
		return closeErr
	}
	r.logRate(start)
	log.Printf("Successfully recorded %d frames to %s", r.frame, r.opts.Record)
	return nil
}
