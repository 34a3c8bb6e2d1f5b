package gossip

import "testing"

func TestProtocolNameWithoutForkID(t *testing.T) {
	got := ProtocolName([]byte{0xde, 0xad, 0xbe, 0xef}, "")
	want := "/deadbeef/statement/1"
	if string(got) != want {
		t.Errorf("ProtocolName() = %q, want %q", got, want)
	}
}

func TestProtocolNameWithForkID(t *testing.T) {
	got := ProtocolName([]byte{0xde, 0xad, 0xbe, 0xef}, "westend2")
	want := "/deadbeef/westend2/statement/1"
	if string(got) != want {
		t.Errorf("ProtocolName() = %q, want %q", got, want)
	}
}

func TestProtocolNameDiffersAcrossGenesis(t *testing.T) {
	a := ProtocolName([]byte{0x01}, "")
	b := ProtocolName([]byte{0x02}, "")
	if a == b {
		t.Error("distinct genesis hashes must not collide in the protocol name")
	}
}

func TestNewBootstrap(t *testing.T) {
	b := NewBootstrap([]byte{0xab}, "")
	if b.Protocol != "/ab/statement/1" {
		t.Errorf("Bootstrap.Protocol = %q, want /ab/statement/1", b.Protocol)
	}
}
