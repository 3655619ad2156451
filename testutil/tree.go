package testutil

// Node is a linked structure for round-trip tests. Its shape covers
// the serializable field kinds: a value field, a string, a byte
// slice, and two pointer fields forming a binary tree.
type Node struct {
	ID    int64
	Label string
	Data  []byte
	Left  *Node
	Right *Node
}

// RandomTree builds a random binary tree with at most depth levels.
// Subtrees are dropped randomly so null pointers appear at every
// level.
func RandomTree(rng *RNG, depth int) *Node {
	if depth <= 0 {
		return nil
	}

	n := &Node{
		ID:    rng.Int64(),
		Label: rng.String(24),
		Data:  rng.Bytes(48),
	}
	if rng.Bool() {
		n.Left = RandomTree(rng, depth-1)
	}
	if rng.Bool() {
		n.Right = RandomTree(rng, depth-1)
	}
	return n
}

// Chain builds a right-leaning list of exactly n nodes, for tests
// that need a known depth.
func Chain(rng *RNG, n int) *Node {
	var head *Node
	for i := n - 1; i >= 0; i-- {
		head = &Node{
			ID:    int64(i),
			Label: rng.String(12),
			Data:  rng.Bytes(16),
			Right: head,
		}
	}
	return head
}

// Count returns the number of nodes in the tree.
func Count(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + Count(n.Left) + Count(n.Right)
}

// Equal reports whether two trees have identical structure and
// contents.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.Label != b.Label || string(a.Data) != string(b.Data) {
		return false
	}
	if (a.Data == nil) != (b.Data == nil) {
		return false
	}
	return Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
}
