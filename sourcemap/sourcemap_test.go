package sourcemap

import (
	"encoding/json"
	"testing"
)

// S7 — VLQ encoding: 16 -> "gB", -7 -> "P".
func TestEncodeVLQS7(t *testing.T) {
	if got := EncodeVLQ(16); got != "gB" {
		t.Fatalf("EncodeVLQ(16) = %q, want %q", got, "gB")
	}
	if got := EncodeVLQ(-7); got != "P" {
		t.Fatalf("EncodeVLQ(-7) = %q, want %q", got, "P")
	}
}

func TestVLQRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, -1, 16, -7, 31, 32, -32, 1000, -1000, 1 << 20, -(1 << 20)} {
		enc := EncodeVLQ(v)
		got, n, ok := DecodeVLQ(enc)
		if !ok {
			t.Fatalf("DecodeVLQ(%q) failed to decode", enc)
		}
		if n != len(enc) {
			t.Fatalf("DecodeVLQ(%q) consumed %d, want %d", enc, n, len(enc))
		}
		if got != v {
			t.Fatalf("round trip of %d: got %d (encoded %q)", v, got, enc)
		}
	}
}

func TestEncodeProducesValidV3JSON(t *testing.T) {
	m := New("out.js")
	srcIdx := m.AddSource("shader.s3d", "fn main() {}")
	m.StartLine()
	m.AddSegment(Segment{GeneratedColumn: 0, HasSource: true, SourceIndex: srcIdx, OriginalLine: 0, OriginalColumn: 0})
	m.StartLine()
	m.AddSegment(Segment{GeneratedColumn: 4, HasSource: true, SourceIndex: srcIdx, OriginalLine: 1, OriginalColumn: 2})

	out, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("Encode produced invalid JSON: %v", err)
	}
	if doc["version"].(float64) != 3 {
		t.Fatalf("expected version 3, got %v", doc["version"])
	}
	if doc["file"] != "out.js" {
		t.Fatalf("expected file out.js, got %v", doc["file"])
	}
	mappings, _ := doc["mappings"].(string)
	if mappings == "" {
		t.Fatal("expected non-empty mappings string")
	}
	// Two generated lines -> exactly one ';' separator.
	semicolons := 0
	for _, r := range mappings {
		if r == ';' {
			semicolons++
		}
	}
	if semicolons != 1 {
		t.Fatalf("expected 1 line separator, got %d in %q", semicolons, mappings)
	}
}

func TestAddSourceAndAddNameDedup(t *testing.T) {
	m := New("out.js")
	a := m.AddSource("a.s3d", "")
	b := m.AddSource("b.s3d", "")
	aAgain := m.AddSource("a.s3d", "")
	if a == b {
		t.Fatal("expected distinct sources to get distinct indices")
	}
	if a != aAgain {
		t.Fatal("expected re-adding the same source to return the same index")
	}
	n1 := m.AddName("foo")
	n2 := m.AddName("foo")
	if n1 != n2 {
		t.Fatal("expected re-adding the same name to return the same index")
	}
}
