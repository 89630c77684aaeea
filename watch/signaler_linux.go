//go:build linux
// +build linux

// File: watch/signaler_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based signaler: one-shot edge reporting with
// EPOLLRDHUP peer-closed detection and an eventfd wakeup channel.

package watch

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-pipe/api"
)

type epollSignaler struct {
	epfd   int
	wakefd int
	events uint32
}

// newSignaler constructs the platform signaler for Linux.
func newSignaler(watchWritable bool) (signaler, error) {
	events := uint32(unix.EPOLLIN | unix.EPOLLRDHUP | unix.EPOLLONESHOT)
	if watchWritable {
		events |= unix.EPOLLOUT
	}

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		_ = unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}
	wake := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakefd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, &wake); err != nil {
		_ = unix.Close(wakefd)
		_ = unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add wakefd: %w", err)
	}
	return &epollSignaler{epfd: epfd, wakefd: wakefd, events: events}, nil
}

// Add registers a handle for one-shot observation.
func (s *epollSignaler) Add(h api.Handle) error {
	ev := unix.EpollEvent{Events: s.events, Fd: int32(h)}
	if err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_ADD, int(h), &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	return nil
}

// Arm re-arms a handle after a one-shot report.
func (s *epollSignaler) Arm(h api.Handle) error {
	ev := unix.EpollEvent{Events: s.events, Fd: int32(h)}
	if err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_MOD, int(h), &ev); err != nil {
		return fmt.Errorf("epoll re-arm: %w", err)
	}
	return nil
}

// Remove deregisters a handle.
func (s *epollSignaler) Remove(h api.Handle) error {
	if err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_DEL, int(h), nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}

// Wait blocks for readiness reports and maps them to signal bitmasks.
func (s *epollSignaler) Wait(out []signalEvent) (int, error) {
	raw := make([]unix.EpollEvent, len(out))
	n, err := unix.EpollWait(s.epfd, raw, -1)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}

	m := 0
	for i := 0; i < n; i++ {
		ev := raw[i]
		if int(ev.Fd) == s.wakefd {
			s.drainWake()
			continue
		}
		var sig api.Signal
		if ev.Events&unix.EPOLLIN != 0 {
			sig |= api.SignalReadable
		}
		if ev.Events&unix.EPOLLOUT != 0 {
			sig |= api.SignalWritable
		}
		if ev.Events&(unix.EPOLLRDHUP|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
			sig |= api.SignalPeerClosed
		}
		out[m] = signalEvent{handle: api.Handle(ev.Fd), signal: sig}
		m++
	}
	return m, nil
}

// Wake posts to the eventfd, interrupting a blocked Wait.
func (s *epollSignaler) Wake() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(s.wakefd, buf[:])
	if err == unix.EAGAIN {
		return nil // counter saturated: a wakeup is already pending
	}
	return err
}

func (s *epollSignaler) drainWake() {
	var buf [8]byte
	_, _ = unix.Read(s.wakefd, buf[:])
}

// Close releases the epoll instance and the wake eventfd.
func (s *epollSignaler) Close() error {
	_ = unix.Close(s.wakefd)
	return unix.Close(s.epfd)
}
