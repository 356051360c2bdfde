package pagination

import "testing"

func TestNormalizePageSize(t *testing.T) {
	if got := NormalizePageSize(0); got != DefaultPageSize {
		t.Fatalf("expected default for zero, got %d", got)
	}
	if got := NormalizePageSize(-3); got != DefaultPageSize {
		t.Fatalf("expected default for negative, got %d", got)
	}
	if got := NormalizePageSize(1000); got != MaxPageSize {
		t.Fatalf("expected cap, got %d", got)
	}
	if got := NormalizePageSize(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, PageSize: 10}
	if got := p.Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	p = Params{Page: 0, PageSize: 10}
	if got := p.Offset(); got != 0 {
		t.Fatalf("page 0 should clamp to first page, got offset %d", got)
	}
}

func TestSlice(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}

	if got := Slice(rows, Params{Page: 1, PageSize: 2}); len(got) != 2 || got[0] != 1 {
		t.Fatalf("unexpected first page %v", got)
	}
	if got := Slice(rows, Params{Page: 3, PageSize: 2}); len(got) != 1 || got[0] != 5 {
		t.Fatalf("unexpected last page %v", got)
	}
	if got := Slice(rows, Params{Page: 4, PageSize: 2}); len(got) != 0 {
		t.Fatalf("expected empty page past the end, got %v", got)
	}
}
