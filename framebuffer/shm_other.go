//go:build !linux

package framebuffer

import (
	"errors"
	"net"
)

var errNoShm = errors.New("shm output needs linux")

type ShmSink struct{}

func DialShm(string) (*ShmSink, error) { return nil, errNoShm }

func NewShmSink(*net.UnixConn) *ShmSink { return &ShmSink{} }

func (*ShmSink) WriteFrame(Frame) error { return errNoShm }
func (*ShmSink) Close() error           { return nil }
