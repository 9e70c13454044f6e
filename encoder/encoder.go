// Package encoder pipes raw RGBA frames into an ffmpeg process.
package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	"github.com/richinsley/goglsandbox/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one bottom-up RGBA image as read back from the framebuffer.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// ErrClosed is returned by WriteFrame after Close or after ffmpeg exits.
var ErrClosed = errors.New("encoder is closed")

// Encoder owns one ffmpeg run. Frames are handed to a writer goroutine so
// the render loop does not block on the pipe.
type Encoder struct {
	width, height int
	frames        chan *Frame
	done          chan error
	closed        bool
}

// New starts ffmpeg writing opts.Record from width x height RGBA frames.
func New(opts *options.Options, width, height int) (*Encoder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	e := &Encoder{
		width:  width,
		height: height,
		frames: make(chan *Frame, 4),
		done:   make(chan error, 1),
	}

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := Args(opts, width, height)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.Record, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if opts.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(opts.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// unblock the writer if ffmpeg died early
		pipeReader.CloseWithError(ErrClosed)
		errc <- err
	}()

	go e.run(pipeWriter, errc)
	log.Printf("Recording %dx%d at %d fps to %s", width, height, opts.FPS, opts.Record)
	return e, nil
}

// run is the consumer side: it writes each frame to ffmpeg's stdin.
func (e *Encoder) run(w *io.PipeWriter, errc <-chan error) {
	var writeErr error
	for frame := range e.frames {
		if writeErr != nil {
			continue
		}
		if _, err := w.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
			log.Printf("Error: %v", writeErr)
		}
	}
	w.Close()

	err := <-errc
	if err == nil {
		err = writeErr
	}
	e.done <- err
}

// FrameSize is the byte length WriteFrame expects.
func (e *Encoder) FrameSize() int {
	return e.width * e.height * 4
}

// WriteFrame queues one frame. The encoder keeps pixels, so callers must not
// reuse the slice.
func (e *Encoder) WriteFrame(pixels []byte, pts int64) error {
	if e.closed {
		return ErrClosed
	}
	if len(pixels) != e.FrameSize() {
		return fmt.Errorf("frame %d has %d bytes, want %d", pts, len(pixels), e.FrameSize())
	}
	e.frames <- &Frame{Pixels: pixels, PTS: pts}
	return nil
}

// Close flushes queued frames and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	close(e.frames)
	if err := <-e.done; err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// Args builds the ffmpeg input and output arguments. GL reads rows bottom-up
// so the output is flipped vertically.
func Args(opts *options.Options, width, height int) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": opts.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"c:v":     videoCodec(opts.Codec, runtime.GOOS),
		"pix_fmt": "yuv420p",
	}
	if opts.Codec == "hevc" && strings.HasSuffix(opts.Record, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

// videoCodec picks a hardware encoder where one is usually available.
func videoCodec(codec, goos string) string {
	if goos == "darwin" {
		if codec == "hevc" {
			return "hevc_videotoolbox"
		}
		return "h264_videotoolbox"
	}
	if codec == "hevc" {
		return "libx265"
	}
	return "libx264"
}
