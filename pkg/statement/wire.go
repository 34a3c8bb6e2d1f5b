package statement

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Wire format for a Statements notification payload:
//
//	[4 BE]  statement count
//	Per statement:
//	  [4 BE]  length
//	  [N]     opaque statement bytes
//
// Empty sequences are legal (count == 0) and decode to a nil/empty slice.
// Each individual statement, and the payload as a whole, must not exceed
// maxSize; Decode enforces this so a hostile peer cannot force unbounded
// allocation from a length prefix alone.
const lengthPrefixSize = 4

// Encode serialises a Statements sequence into the canonical wire format.
func Encode(stmts Statements) []byte {
	size := lengthPrefixSize
	for _, s := range stmts {
		size += lengthPrefixSize + len(s)
	}
	buf := make([]byte, lengthPrefixSize, size)
	binary.BigEndian.PutUint32(buf, uint32(len(stmts)))

	for _, s := range stmts {
		var lenBuf [lengthPrefixSize]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, s...)
	}
	return buf
}

// Decode parses a Statements sequence from the canonical wire format.
// maxSize bounds both the total payload size and every individual
// statement's size; a payload that would exceed it is rejected before
// any statement bytes are copied.
func Decode(data []byte, maxSize int) (Statements, error) {
	if len(data) > maxSize {
		return nil, fmt.Errorf("statement: payload exceeds max size (%d > %d)", len(data), maxSize)
	}
	if len(data) < lengthPrefixSize {
		return nil, fmt.Errorf("statement: truncated count prefix")
	}

	count := binary.BigEndian.Uint32(data)
	data = data[lengthPrefixSize:]

	// A malicious count cannot itself cause overallocation: the loop
	// below consumes the length-prefixed input it was declared over, so
	// an inflated count simply runs out of bytes and errors.
	stmts := make(Statements, 0, min(int(count), len(data)/lengthPrefixSize+1))

	for i := uint32(0); i < count; i++ {
		if len(data) < lengthPrefixSize {
			return nil, fmt.Errorf("statement: truncated length prefix at index %d", i)
		}
		n := binary.BigEndian.Uint32(data)
		data = data[lengthPrefixSize:]

		if int(n) > maxSize {
			return nil, fmt.Errorf("statement: entry %d exceeds max size (%d > %d)", i, n, maxSize)
		}
		if uint32(len(data)) < n {
			return nil, fmt.Errorf("statement: truncated statement body at index %d", i)
		}

		s := make(Statement, n)
		copy(s, data[:n])
		data = data[n:]

		stmts = append(stmts, s)
	}

	if len(data) != 0 {
		return nil, fmt.Errorf("statement: %d trailing bytes after decoding %d statements", len(data), count)
	}
	return stmts, nil
}

// ReadFrom decodes a single notification payload already delimited by the
// transport (e.g. a libp2p notification message). It exists alongside
// Decode so callers that already have a framed io.Reader (tests, or a
// transport using stream framing instead of whole-message delivery) don't
// need to buffer the payload themselves first.
func ReadFrom(r io.Reader, maxSize int) (Statements, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(maxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("statement: read payload: %w", err)
	}
	return Decode(data, maxSize)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
