package transport

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Frame layout on a gossip substream:
//
//	[4 BE]  payload length
//	[N]     payload bytes
//
// Every message on the substream — the initial handshake and every
// subsequent notification — uses this same framing, so a single
// read/write pair covers both.
const frameLengthPrefix = 4

func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [frameLengthPrefix]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	return nil
}

func readFrameFromReader(r io.Reader, maxSize int) ([]byte, error) {
	var lenBuf [frameLengthPrefix]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if int(n) > maxSize {
		return nil, fmt.Errorf("read frame: length %d exceeds max %d", n, maxSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return payload, nil
}
