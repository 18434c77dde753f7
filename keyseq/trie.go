package keyseq

type Trie interface {
	Root() Node
	GetList([]byte) Node
	Size() int
}

func Get(t Trie, k []byte) Node {
	if t == nil {
		return nil
	}
	n := t.Root()
	for _, c := range k {
		n = n.Get(c)
		if n == nil {
			return nil
		}
	}
	return n
}

func EachDepth(t Trie, proc func(Node) bool) {
	if t == nil {
		return
	}
	r := t.Root()
	var f func(Node) bool
	f = func(n Node) bool {
		n.Each(f)
		return proc(n)
	}
	r.Each(f)
}

type Node interface {
	Get(k byte) Node
	Dig(k byte) (Node, bool)
	Size() int
	Each(func(Node) bool)

	Label() byte
	Value() any
	SetValue(v any)
}
