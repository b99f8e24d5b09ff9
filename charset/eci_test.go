package charset

import "testing"

func TestByValue(t *testing.T) {
	eci, err := ByValue(26)
	if err != nil {
		t.Fatalf("ByValue(26): %v", err)
	}
	if eci == nil || eci.Name != "UTF8" {
		t.Fatalf("ByValue(26) = %v, want UTF8", eci)
	}

	if _, err := ByValue(900); err == nil {
		t.Error("ByValue(900): expected error")
	}
	if _, err := ByValue(-1); err == nil {
		t.Error("ByValue(-1): expected error")
	}

	// Assigned range without a character set mapping.
	eci, err = ByValue(100)
	if err != nil {
		t.Fatalf("ByValue(100): %v", err)
	}
	if eci != nil {
		t.Errorf("ByValue(100) = %v, want nil", eci)
	}
}

func TestDecodeLatin1(t *testing.T) {
	eci, err := ByValue(1)
	if err != nil {
		t.Fatal(err)
	}
	text, err := eci.Decode([]byte{'c', 'a', 'f', 0xE9})
	if err != nil {
		t.Fatal(err)
	}
	if text != "café" {
		t.Errorf("Decode = %q, want %q", text, "café")
	}
}

func TestDecodeUTF8(t *testing.T) {
	eci, err := ByValue(26)
	if err != nil {
		t.Fatal(err)
	}
	text, err := eci.Decode([]byte("grüße"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "grüße" {
		t.Errorf("Decode = %q, want %q", text, "grüße")
	}
}
