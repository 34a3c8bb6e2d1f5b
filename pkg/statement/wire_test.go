package statement

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 16).Draw(t, "n")
		stmts := make(Statements, n)
		for i := range stmts {
			stmts[i] = Statement(rapid.SliceOfN(rapid.Byte(), 0, 256).Draw(t, "body"))
		}

		encoded := Encode(stmts)
		decoded, err := Decode(encoded, MaxSizeForTest)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}

		if len(decoded) != len(stmts) {
			t.Fatalf("round trip changed length: got %d, want %d", len(decoded), len(stmts))
		}
		for i := range stmts {
			if !bytes.Equal(decoded[i], stmts[i]) {
				t.Fatalf("round trip changed statement %d", i)
			}
		}
	})
}

func TestDecodeRejectsOversizedPayload(t *testing.T) {
	big := make([]byte, MaxSizeForTest+1)
	if _, err := Decode(big, MaxSizeForTest); err == nil {
		t.Fatal("Decode should reject a payload larger than maxSize")
	}
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	encoded := Encode(Statements{Statement("hello")})
	for cut := 1; cut < len(encoded); cut++ {
		if _, err := Decode(encoded[:cut], MaxSizeForTest); err == nil {
			t.Fatalf("Decode accepted truncated input at %d/%d bytes", cut, len(encoded))
		}
	}
}

func TestDecodeEmptySequence(t *testing.T) {
	encoded := Encode(nil)
	decoded, err := Decode(encoded, MaxSizeForTest)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty sequence, got %d statements", len(decoded))
	}
}

// MaxSizeForTest is a generously large bound so tests exercise the codec's
// own framing logic rather than the size limit.
const MaxSizeForTest = 1 << 20
