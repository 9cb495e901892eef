package domain_test

import (
	"encoding/json"
	"testing"

	"go.trai.ch/blaze/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	is1 := domain.NewInternedString("src/main.c")
	is2 := domain.NewInternedString("src/main.c")

	if is1 != is2 {
		t.Errorf("expected interned strings to be equal, got %v and %v", is1, is2)
	}

	if is1.String() != "src/main.c" {
		t.Errorf("expected String() to return %q, got %q", "src/main.c", is1.String())
	}
}

func TestInternedString_Zero(t *testing.T) {
	var zero domain.InternedString

	if !zero.IsZero() {
		t.Error("expected zero value to report IsZero")
	}
	if zero.String() != "" {
		t.Errorf("expected empty string, got %q", zero.String())
	}
	if domain.NewInternedString("").IsZero() {
		t.Error("an interned empty string is set and must not report IsZero")
	}
}

func TestInternedStringJSON(t *testing.T) {
	original := domain.NewInternedString("blaze-out/fastbuild/bin/lib/lib.a")

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("failed to marshal InternedString: %v", err)
	}
	if string(data) != `"blaze-out/fastbuild/bin/lib/lib.a"` {
		t.Errorf("unexpected JSON %s", data)
	}

	var decoded domain.InternedString
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal InternedString: %v", err)
	}
	if decoded != original {
		t.Errorf("expected %v, got %v", original, decoded)
	}
}
