//go:build linux

package framebuffer

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// ShmSink passes every frame to the display server as a sealed memfd sent
// over a unix socket with SCM_RIGHTS. The header travels as the message
// payload.
type ShmSink struct {
	conn *net.UnixConn
}

// DialShm connects to the unix socket at path.
func DialShm(path string) (*ShmSink, error) {
	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}
	return NewShmSink(conn), nil
}

// NewShmSink sends frames over an established connection.
func NewShmSink(conn *net.UnixConn) *ShmSink {
	return &ShmSink{conn: conn}
}

func (s *ShmSink) WriteFrame(f Frame) error {
	fd, err := shmFile(f.Pix)
	if err != nil {
		return err
	}
	defer unix.Close(fd)

	header := f.Header()
	rights := unix.UnixRights(fd)
	n, oobn, err := s.conn.WriteMsgUnix(header, rights, nil)
	if err != nil {
		return fmt.Errorf("sending frame: %w", err)
	}
	if n != len(header) || oobn != len(rights) {
		return fmt.Errorf("short send: %d/%d bytes, %d/%d control", n, len(header), oobn, len(rights))
	}
	return nil
}

func (s *ShmSink) Close() error { return s.conn.Close() }

// shmFile returns a memfd holding pix. Its size is sealed so the receiver
// can map it safely.
func shmFile(pix []byte) (int, error) {
	fd, err := unix.MemfdCreate("panelbar-frame", unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return -1, fmt.Errorf("creating memfd: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(len(pix))); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("truncating memfd to %d bytes: %w", len(pix), err)
	}
	if len(pix) > 0 {
		data, err := unix.Mmap(fd, 0, len(pix), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			unix.Close(fd)
			return -1, fmt.Errorf("memory-mapping memfd: %w", err)
		}
		copy(data, pix)
		if err := unix.Munmap(data); err != nil {
			unix.Close(fd)
			return -1, fmt.Errorf("unmapping memfd: %w", err)
		}
	}
	seals := unix.F_SEAL_SHRINK | unix.F_SEAL_GROW | unix.F_SEAL_SEAL
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, seals); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("sealing memfd: %w", err)
	}
	return fd, nil
}
