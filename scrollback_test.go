package vtcore

import "testing"

func TestMemoryScrollbackPushAndTrim(t *testing.T) {
	s := NewMemoryScrollback(2)

	s.Push([]Cell{{Char: 'a'}})
	s.Push([]Cell{{Char: 'b'}})
	s.Push([]Cell{{Char: 'c'}})

	if s.Len() != 2 {
		t.Fatalf("expected 2 lines after trim, got %d", s.Len())
	}
	if s.Line(0)[0].Char != 'b' {
		t.Errorf("expected oldest surviving line to start with 'b', got %q", s.Line(0)[0].Char)
	}
}

func TestMemoryScrollbackUnlimitedWhenZero(t *testing.T) {
	s := NewMemoryScrollback(0)
	for i := 0; i < 1000; i++ {
		s.Push([]Cell{{Char: 'x'}})
	}
	if s.Len() != 1000 {
		t.Errorf("expected unlimited growth with maxLines=0, got %d", s.Len())
	}
}

func TestMemoryScrollbackNegativeCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative maxLines")
		}
	}()
	NewMemoryScrollback(-1)
}

func TestMemoryScrollbackSetMaxLinesTrims(t *testing.T) {
	s := NewMemoryScrollback(0)
	s.Push([]Cell{{Char: '1'}})
	s.Push([]Cell{{Char: '2'}})
	s.Push([]Cell{{Char: '3'}})

	s.SetMaxLines(1)

	if s.Len() != 1 {
		t.Fatalf("expected 1 line after shrinking capacity, got %d", s.Len())
	}
	if s.Line(0)[0].Char != '3' {
		t.Errorf("expected most recent line to survive, got %q", s.Line(0)[0].Char)
	}
}

func TestMemoryScrollbackClear(t *testing.T) {
	s := NewMemoryScrollback(10)
	s.Push([]Cell{{Char: 'a'}})
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected 0 lines after clear, got %d", s.Len())
	}
}

func TestMemoryScrollbackOutOfRangeLine(t *testing.T) {
	s := NewMemoryScrollback(10)
	if s.Line(0) != nil {
		t.Error("expected nil for out-of-range index")
	}
	s.Push([]Cell{{Char: 'a'}})
	if s.Line(5) != nil {
		t.Error("expected nil for out-of-range index")
	}
}
