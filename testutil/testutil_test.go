package testutil

import "testing"

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)

	for i := 0; i < 100; i++ {
		if a.Int64() != b.Int64() {
			t.Fatal("same seed produced different sequences")
		}
	}
}

func TestRNG_Reset(t *testing.T) {
	r := NewRNG(7)
	first := r.Int64()
	r.Reset()
	if got := r.Int64(); got != first {
		t.Fatalf("after Reset got %d, want %d", got, first)
	}
}

func TestRandomTree_Reproducible(t *testing.T) {
	a := RandomTree(NewRNG(123), 6)
	b := RandomTree(NewRNG(123), 6)
	if !Equal(a, b) {
		t.Fatal("same seed produced different trees")
	}
}

func TestChain(t *testing.T) {
	head := Chain(NewRNG(1), 5)
	if got := Count(head); got != 5 {
		t.Fatalf("Count = %d, want 5", got)
	}

	depth := 0
	for n := head; n != nil; n = n.Right {
		if n.Left != nil {
			t.Fatal("chain must not branch")
		}
		depth++
	}
	if depth != 5 {
		t.Fatalf("depth = %d, want 5", depth)
	}
}

func TestEqual_DistinguishesNilData(t *testing.T) {
	a := &Node{Data: nil}
	b := &Node{Data: []byte{}}
	if Equal(a, b) {
		t.Fatal("nil and empty data must differ")
	}
}
