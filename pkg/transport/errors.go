package transport

import "errors"

var (
	// ErrPeerNotConnected is returned when sending to a peer the host has
	// no open notification stream for.
	ErrPeerNotConnected = errors.New("transport: peer not connected")
)
