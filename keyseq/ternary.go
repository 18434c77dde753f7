package keyseq

type TernaryTrie struct {
	root TernaryNode
}

// NewTernaryTrie creates a new empty ternary search trie.
func NewTernaryTrie() *TernaryTrie {
	return &TernaryTrie{}
}

func (t *TernaryTrie) Root() Node {
	return &t.root
}

func (t *TernaryTrie) GetList(k []byte) Node {
	return Get(t, k)
}

// Size returns the total number of nodes in the trie.
func (t *TernaryTrie) Size() int {
	count := 0
	EachDepth(t, func(Node) bool {
		count++
		return true
	})
	return count
}

// Balance rebalances all sibling lists in the trie for optimal search performance.
func (t *TernaryTrie) Balance() {
	EachDepth(t, func(n Node) bool {
		tn, _ := n.(*TernaryNode)
		tn.Balance()
		return true
	})
	t.root.Balance()
}

type TernaryNode struct {
	label      byte
	firstChild *TernaryNode
	low, high  *TernaryNode
	value      any
}

// NewTernaryNode creates a new ternary trie node with the given label.
func NewTernaryNode(l byte) *TernaryNode {
	return &TernaryNode{label: l}
}

// Get searches the children of this node for a child labelled k.
func (n *TernaryNode) Get(k byte) Node {
	curr := n.firstChild
	for curr != nil {
		switch {
		case k == curr.label:
			return curr
		case k < curr.label:
			curr = curr.low
		default:
			curr = curr.high
		}
	}
	return nil
}

// Dig finds or creates a child node for the given label, returning the node and whether it was newly created.
func (n *TernaryNode) Dig(k byte) (Node, bool) {
	curr := n.firstChild
	if curr == nil {
		n.firstChild = NewTernaryNode(k)
		return n.firstChild, true
	}
	for {
		switch {
		case k == curr.label:
			return curr, false
		case k < curr.label:
			if curr.low == nil {
				curr.low = NewTernaryNode(k)
				return curr.low, true
			}
			curr = curr.low
		default:
			if curr.high == nil {
				curr.high = NewTernaryNode(k)
				return curr.high, true
			}
			curr = curr.high
		}
	}
}

// Size returns the number of direct children of this node.
func (n *TernaryNode) Size() int {
	if n.firstChild == nil {
		return 0
	}
	count := 0
	n.Each(func(Node) bool {
		count++
		return true
	})
	return count
}

// Each calls proc for every child node in sorted order, stopping early if proc returns false.
func (n *TernaryNode) Each(proc func(Node) bool) {
	var f func(*TernaryNode) bool
	f = func(n *TernaryNode) bool {
		if n != nil {
			if !f(n.low) || !proc(n) || !f(n.high) {
				return false
			}
		}
		return true
	}
	f(n.firstChild)
}

func (n *TernaryNode) Label() byte {
	return n.label
}

func (n *TernaryNode) Value() any {
	return n.value
}

func (n *TernaryNode) SetValue(v any) {
	n.value = v
}

// children collects all direct child nodes into a sorted slice.
func (n *TernaryNode) children() []*TernaryNode {
	children := make([]*TernaryNode, 0, n.Size())
	n.Each(func(child Node) bool {
		tn, _ := child.(*TernaryNode)
		children = append(children, tn)
		return true
	})
	return children
}

// Balance rebalances the children of this node into a balanced binary search tree.
func (n *TernaryNode) Balance() {
	if n.firstChild == nil {
		return
	}
	children := n.children()
	for _, child := range children {
		child.low = nil
		child.high = nil
	}
	n.firstChild = balance(children, 0, len(children))
}

// balance recursively builds a balanced binary tree from a sorted slice of nodes.
func balance(nodes []*TernaryNode, s, e int) *TernaryNode {
	count := e - s
	if count <= 0 {
		return nil
	} else if count == 1 {
		return nodes[s]
	} else if count == 2 {
		nodes[s].high = nodes[s+1]
		return nodes[s]
	}
	mid := (s + e) / 2
	n := nodes[mid]
	n.low = balance(nodes, s, mid)
	n.high = balance(nodes, mid+1, e)
	return n
}
