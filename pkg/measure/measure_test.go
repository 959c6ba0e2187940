package measure

import "testing"

func TestFontMeasurer(t *testing.T) {
	m, err := NewFontMeasurer(12)
	if err != nil {
		t.Fatalf("NewFontMeasurer: %v", err)
	}
	defer m.Close()

	short, ok := m.Measure("r1")
	if !ok {
		t.Fatal("Measure reported unavailable")
	}
	long, _ := m.Measure("router-core-1")
	if short.Width <= 0 || long.Width <= short.Width {
		t.Errorf("widths = %v, %v; want 0 < short < long", short.Width, long.Width)
	}
	if short.Height <= 0 || short.Height != long.Height {
		t.Errorf("heights = %v, %v; want equal positive line height", short.Height, long.Height)
	}

	again, _ := m.Measure("r1")
	if again != short {
		t.Errorf("memoized = %v, want %v", again, short)
	}
	if got, ok := m.memo["router-core-1"]; !ok || got != long {
		t.Errorf("memo[router-core-1] = %v, %v; want the exact label as key", got, ok)
	}
	if len(m.memo) != 2 {
		t.Errorf("memo entries = %d, want one per distinct label", len(m.memo))
	}

	empty, ok := m.Measure("")
	if !ok || empty.Width != 0 {
		t.Errorf("empty = %v, %v; want zero width", empty, ok)
	}
}

func TestFontMeasurerScalesWithSize(t *testing.T) {
	small, err := NewFontMeasurer(10)
	if err != nil {
		t.Fatal(err)
	}
	big, err := NewFontMeasurer(20)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := small.Measure("switch")
	b, _ := big.Measure("switch")
	if b.Width <= a.Width || b.Height <= a.Height {
		t.Errorf("20px %v should exceed 10px %v", b, a)
	}
	if small.FontSize() != 10 {
		t.Errorf("FontSize = %v", small.FontSize())
	}
}

func TestDefaultFontSize(t *testing.T) {
	m, err := NewFontMeasurer(0)
	if err != nil {
		t.Fatal(err)
	}
	if m.FontSize() != DefaultFontSize {
		t.Errorf("FontSize = %v, want %v", m.FontSize(), DefaultFontSize)
	}
}

func TestUnavailable(t *testing.T) {
	var m Measurer = Unavailable{}
	if _, ok := m.Measure("router1"); ok {
		t.Error("Unavailable.Measure reported ok")
	}
}
