package framebuffer

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// StreamSink writes each frame as its header followed by the pixels.
type StreamSink struct {
	w      io.Writer
	closer io.Closer
}

// NewStreamSink writes to w. Closing the sink leaves w open.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// CreateStreamSink truncates or creates the file at path and writes to it.
func CreateStreamSink(path string) (*StreamSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &StreamSink{w: f, closer: f}, nil
}

func (s *StreamSink) WriteFrame(f Frame) error {
	if _, err := s.w.Write(f.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := s.w.Write(f.Pix); err != nil {
		return fmt.Errorf("write pixels: %w", err)
	}
	return nil
}

func (s *StreamSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// PNGSink keeps a PNG snapshot of the latest frame at a fixed path. The
// file is replaced atomically so readers never see a partial image.
type PNGSink struct {
	path string
}

func NewPNGSink(path string) *PNGSink {
	return &PNGSink{path: path}
}

func (s *PNGSink) WriteFrame(f Frame) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return err
	}
	if err := png.Encode(tmp, f.RGBA()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *PNGSink) Close() error { return nil }
