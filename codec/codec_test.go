package codec

import (
	"reflect"
	"testing"
)

func TestUint64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 42, 1 << 40, ^uint64(0)} {
		got, err := Uint64(PutUint64(v))
		if err != nil {
			t.Fatalf("Uint64(PutUint64(%d)): %v", v, err)
		}
		if got != v {
			t.Errorf("Uint64(PutUint64(%d)) = %d", v, got)
		}
	}
}

func TestUint64RejectsWrongLength(t *testing.T) {
	if _, err := Uint64([]byte{1, 2, 3}); err == nil {
		t.Error("Uint64 with 3 bytes should have failed")
	}
}

func TestStringSetRoundTrip(t *testing.T) {
	want := map[string]struct{}{
		"가나다": {},
		"hello": {},
		"":      {},
	}
	got, err := StringSet(PutStringSet(want))
	if err != nil {
		t.Fatalf("StringSet: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StringSet round trip = %v, want %v", got, want)
	}
}

func TestStringSetEmpty(t *testing.T) {
	got, err := StringSet(PutStringSet(map[string]struct{}{}))
	if err != nil {
		t.Fatalf("StringSet: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("StringSet of empty set = %v, want empty", got)
	}
}

func TestStringSetRejectsTruncatedInput(t *testing.T) {
	raw := PutStringSet(map[string]struct{}{"hello": {}})
	if _, err := StringSet(raw[:len(raw)-2]); err == nil {
		t.Error("StringSet should reject a truncated member")
	}
	if _, err := StringSet(raw[:2]); err == nil {
		t.Error("StringSet should reject a truncated header")
	}
}
