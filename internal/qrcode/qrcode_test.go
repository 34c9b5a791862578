package qrcode

import (
	"errors"
	"testing"
)

func TestRender(t *testing.T) {
	code, err := Render("https://example.com/?words=steamhub")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if code.Height() == 0 || code.Width() == 0 {
		t.Fatalf("empty code: %dx%d", code.Width(), code.Height())
	}
	// Half blocks pack two module rows into one line.
	if code.Height() > code.Width() {
		t.Errorf("height %d exceeds width %d", code.Height(), code.Width())
	}
	for i, line := range code.Lines {
		if line == "" {
			t.Errorf("line %d is empty", i)
		}
	}
}

func TestRender_Empty(t *testing.T) {
	if _, err := Render(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("Render(\"\") err = %v, want ErrEmpty", err)
	}
}

func TestRender_Deterministic(t *testing.T) {
	a, err := Render("rtg")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Render("rtg")
	if a.String() != b.String() {
		t.Error("same content rendered differently")
	}
}
