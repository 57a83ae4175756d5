package arena

import "testing"

func TestExprPool_AllocAndRollback(t *testing.T) {
	p := NewExprPool(4)

	i0, err := p.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if i0 != 0 {
		t.Errorf("first index = %d, want 0 (zero is a valid allocation)", i0)
	}

	i1, err := p.Alloc()
	if err != nil {
		t.Fatalf("second Alloc: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}

	p.Rollback()
	if p.Len() != 1 {
		t.Errorf("Len() after Rollback = %d, want 1", p.Len())
	}

	// The rolled-back index is reused by the next allocation.
	i2, err := p.Alloc()
	if err != nil {
		t.Fatalf("third Alloc: %v", err)
	}
	if i2 != i1 {
		t.Errorf("reallocated index = %d, want %d", i2, i1)
	}
}

func TestExprPool_CapacityExceeded(t *testing.T) {
	p := NewExprPool(1)
	if _, err := p.Alloc(); err != nil {
		t.Fatalf("first Alloc: %v", err)
	}
	if _, err := p.Alloc(); err == nil {
		t.Error("Alloc beyond capacity succeeded, want ErrCapacityExceeded")
	}
}

func TestTerminalPool_InsertAndBytes(t *testing.T) {
	p := NewTerminalPool(32)

	off1, err := p.Insert([]byte("ab"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	off2, err := p.Insert([]byte("c"))
	if err != nil {
		t.Fatalf("second Insert: %v", err)
	}

	if got := string(p.Bytes(off1)); got != "ab" {
		t.Errorf("Bytes(off1) = %q, want %q", got, "ab")
	}
	if got := string(p.Bytes(off2)); got != "c" {
		t.Errorf("Bytes(off2) = %q, want %q", got, "c")
	}
}

func TestTerminalPool_CapacityExceeded(t *testing.T) {
	p := NewTerminalPool(2)
	if _, err := p.Insert([]byte("ab")); err == nil {
		t.Error("Insert exceeding capacity succeeded, want ErrCapacityExceeded")
	}
}
