package keyseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func dig(trie *TernaryTrie, k []byte, v any) {
	n := trie.Root()
	for _, c := range k {
		n, _ = n.Dig(c)
	}
	n.SetValue(v)
}

func checkTrieNode(t *testing.T, n Node, k byte, value int) {
	require.NotNil(t, n, "TrieNode is null")
	require.Equal(t, k, n.Label(), "TrieNode.Label()")
	require.Equal(t, value, n.Value().(int), "TrieNode.Value()")
}

func TestTrie(t *testing.T) {
	trie := NewTernaryTrie()
	for i := 5; i >= 1; i-- {
		dig(trie, []byte{byte(i)}, 111*i)
	}

	var nodes []Node
	trie.Root().Each(func(n Node) bool {
		nodes = append(nodes, n)
		return true
	})
	require.Len(t, nodes, 5)
	for i := range 5 {
		checkTrieNode(t, nodes[i], byte(i+1), 111*(i+1))
	}

	require.Equal(t, 5, trie.Size())
	require.Equal(t, 5, trie.Root().Size())
}

func TestDig(t *testing.T) {
	trie := NewTernaryTrie()
	n, created := trie.Root().Dig('a')
	require.True(t, created)
	again, created := trie.Root().Dig('a')
	require.False(t, created)
	require.Same(t, n, again)
}

func TestNotFound(t *testing.T) {
	trie := NewTernaryTrie()
	require.Nil(t, trie.Root().Get('a'))
	require.Nil(t, trie.GetList([]byte("abc")))

	dig(trie, []byte("ab"), 1)
	require.Nil(t, trie.GetList([]byte("abc")))
	require.Nil(t, trie.GetList([]byte("b")))
	require.Nil(t, Get(nil, []byte("a")))
}

func TestBalance(t *testing.T) {
	trie := NewTernaryTrie()

	for i := range 15 {
		dig(trie, []byte{byte(i)}, i)
	}
	require.Equal(t, 15, trie.Size())
	trie.Balance()

	// After balancing, all keys must still be retrievable with correct values.
	for i := range 15 {
		node := trie.GetList([]byte{byte(i)})
		require.NotNil(t, node, "key %d should be found after Balance", i)
		require.Equal(t, i, node.Value(), "value for key %d should be %d", i, i)
	}

	// Size must be unchanged after balancing.
	require.Equal(t, 15, trie.Size())
}

func TestBalancePreservesMultiByteSequences(t *testing.T) {
	trie := NewTernaryTrie()

	dig(trie, []byte("ab"), "ab")
	dig(trie, []byte("ac"), "ac")
	dig(trie, []byte("x"), "x")

	trie.Balance()

	require.Equal(t, "ab", trie.GetList([]byte("ab")).Value())
	require.Equal(t, "ac", trie.GetList([]byte("ac")).Value())
	require.Equal(t, "x", trie.GetList([]byte("x")).Value())
	require.Equal(t, 2, trie.GetList([]byte("a")).Size())
	require.Equal(t, 0, trie.GetList([]byte("x")).Size())
}

func TestEachDepth(t *testing.T) {
	trie := NewTernaryTrie()
	dig(trie, []byte("ab"), 1)
	dig(trie, []byte("c"), 2)

	var labels []byte
	EachDepth(trie, func(n Node) bool {
		labels = append(labels, n.Label())
		return true
	})
	require.Equal(t, []byte("bac"), labels)
}
