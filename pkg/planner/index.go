package planner

import (
	"fmt"
	"iter"
	"strings"
)

// This file implements the per-predicate fact index.
//
// A PredicateIndex is a k-d style discrimination tree whose nodes live in a
// flat arena and refer to each other by position. The coordinate compared
// at a node is its depth modulo the arity:
//
//	equal coordinate, different tuple  → left
//	smaller coordinate                 → left
//	greater coordinate                 → right
//	identical tuple                    → found
//
// Copying an index copies the arena slice, so a clone never shares mutable
// structure with its source.

const nilNode = -1

type indexNode struct {
	t     Tuple
	left  int
	right int
}

// PredicateIndex stores the ground tuples currently true for one predicate.
// Every stored tuple has exactly the index's arity.
type PredicateIndex struct {
	arity int
	nodes []indexNode
	free  []int
	root  int
	size  int
}

// NewPredicateIndex creates an empty index for tuples of the given arity.
// Arity must be at least 1; nullary predicates share a unary slot.
func NewPredicateIndex(arity int) *PredicateIndex {
	if arity < 1 {
		panic(fmt.Sprintf("planner: predicate index arity must be positive, got %d", arity))
	}
	return &PredicateIndex{arity: arity, root: nilNode}
}

// Arity returns the arity of stored tuples.
func (ix *PredicateIndex) Arity() int {
	return ix.arity
}

// Len returns the number of stored tuples.
func (ix *PredicateIndex) Len() int {
	return ix.size
}

// Clone returns an independent copy.
func (ix *PredicateIndex) Clone() *PredicateIndex {
	return &PredicateIndex{
		arity: ix.arity,
		nodes: append([]indexNode(nil), ix.nodes...),
		free:  append([]int(nil), ix.free...),
		root:  ix.root,
		size:  ix.size,
	}
}

// Reset removes every tuple.
func (ix *PredicateIndex) Reset() {
	ix.nodes = ix.nodes[:0]
	ix.free = ix.free[:0]
	ix.root = nilNode
	ix.size = 0
}

func (ix *PredicateIndex) checkArity(t Tuple) {
	if t.Arity() != ix.arity {
		panic(fmt.Sprintf("planner: tuple %v has arity %d, index expects %d", t, t.Arity(), ix.arity))
	}
}

// goesLeft applies the discrimination rule for a tuple that is known to
// differ from the node's tuple.
func goesLeft(t, at Tuple, coord int) bool {
	return strings.Compare(string(t.At(coord)), string(at.At(coord))) <= 0
}

func (ix *PredicateIndex) alloc(t Tuple) int {
	n := indexNode{t: t, left: nilNode, right: nilNode}
	if k := len(ix.free); k > 0 {
		i := ix.free[k-1]
		ix.free = ix.free[:k-1]
		ix.nodes[i] = n
		return i
	}
	ix.nodes = append(ix.nodes, n)
	return len(ix.nodes) - 1
}

func (ix *PredicateIndex) release(i int) {
	ix.nodes[i] = indexNode{left: nilNode, right: nilNode}
	ix.free = append(ix.free, i)
}

func (ix *PredicateIndex) link(parent int, left bool, child int) {
	switch {
	case parent == nilNode:
		ix.root = child
	case left:
		ix.nodes[parent].left = child
	default:
		ix.nodes[parent].right = child
	}
}

// Insert adds t and reports whether it was not already present.
func (ix *PredicateIndex) Insert(t Tuple) bool {
	ix.checkArity(t)
	parent, left, depth := nilNode, false, 0
	for cur := ix.root; cur != nilNode; depth++ {
		n := ix.nodes[cur]
		if n.t.Equal(t) {
			return false
		}
		parent = cur
		left = goesLeft(t, n.t, depth%ix.arity)
		if left {
			cur = n.left
		} else {
			cur = n.right
		}
	}
	ix.link(parent, left, ix.alloc(t))
	ix.size++
	return true
}

// find locates t and returns its node, parent, side and depth.
func (ix *PredicateIndex) find(t Tuple) (node, parent int, left bool, depth int) {
	parent = nilNode
	for cur := ix.root; cur != nilNode; depth++ {
		n := ix.nodes[cur]
		if n.t.Equal(t) {
			return cur, parent, left, depth
		}
		parent = cur
		left = goesLeft(t, n.t, depth%ix.arity)
		if left {
			cur = n.left
		} else {
			cur = n.right
		}
	}
	return nilNode, parent, left, depth
}

// Contains reports whether t is stored.
func (ix *PredicateIndex) Contains(t Tuple) bool {
	if t.Arity() != ix.arity {
		return false
	}
	n, _, _, _ := ix.find(t)
	return n != nilNode
}

// Erase removes t and reports whether it was present.
func (ix *PredicateIndex) Erase(t Tuple) bool {
	if t.Arity() != ix.arity {
		return false
	}
	n, parent, left, depth := ix.find(t)
	if n == nilNode {
		return false
	}
	ix.link(parent, left, ix.removeAt(n, depth))
	ix.size--
	return true
}

// removeAt deletes node i sitting at the given depth and returns the root
// of the subtree that takes its place.
func (ix *PredicateIndex) removeAt(i, depth int) int {
	n := ix.nodes[i]
	switch {
	case n.left == nilNode && n.right == nilNode:
		ix.release(i)
		return nilNode

	case n.left != nilNode:
		// Promote the left-subtree tuple with the greatest value on this
		// node's coordinate; everything left of it stays <=, everything on
		// the right stays >.
		coord := depth % ix.arity
		m, mParent, mLeft, mDepth := ix.maxOn(n.left, i, true, depth+1, coord)
		promoted := ix.nodes[m].t
		ix.link(mParent, mLeft, ix.removeAt(m, mDepth))
		ix.nodes[i].t = promoted
		return i

	default:
		// Only a right subtree: its tuples are reinserted below this depth.
		pending := ix.collect(n.right, nil)
		ix.release(i)
		sub := nilNode
		for _, t := range pending {
			sub = ix.insertUnder(sub, depth, t)
		}
		return sub
	}
}

// maxOn finds, within the subtree rooted at i, the node whose tuple has the
// greatest value on coord.
func (ix *PredicateIndex) maxOn(i, parent int, left bool, depth, coord int) (best, bestParent int, bestLeft bool, bestDepth int) {
	best, bestParent, bestLeft, bestDepth = i, parent, left, depth
	n := ix.nodes[i]
	consider := func(c, cp, cd int, cl bool) {
		if c == nilNode {
			return
		}
		m, mp, ml, md := ix.maxOn(c, cp, cl, cd, coord)
		if ix.nodes[m].t.At(coord) > ix.nodes[best].t.At(coord) {
			best, bestParent, bestLeft, bestDepth = m, mp, ml, md
		}
	}
	if depth%ix.arity == coord {
		// The left side cannot beat this node on its own coordinate.
		consider(n.right, i, depth+1, false)
		return
	}
	consider(n.left, i, depth+1, true)
	consider(n.right, i, depth+1, false)
	return
}

// collect appends every tuple of the subtree rooted at i to out and
// releases the subtree's nodes.
func (ix *PredicateIndex) collect(i int, out []Tuple) []Tuple {
	if i == nilNode {
		return out
	}
	n := ix.nodes[i]
	out = append(out, n.t)
	out = ix.collect(n.left, out)
	out = ix.collect(n.right, out)
	ix.release(i)
	return out
}

// insertUnder inserts t into the detached subtree rooted at sub, whose root
// sits at the given depth, and returns the (possibly new) subtree root.
func (ix *PredicateIndex) insertUnder(sub, depth int, t Tuple) int {
	if sub == nilNode {
		return ix.alloc(t)
	}
	parent, left := nilNode, false
	for cur := sub; cur != nilNode; depth++ {
		n := ix.nodes[cur]
		parent = cur
		left = goesLeft(t, n.t, depth%ix.arity)
		if left {
			cur = n.left
		} else {
			cur = n.right
		}
	}
	child := ix.alloc(t)
	if left {
		ix.nodes[parent].left = child
	} else {
		ix.nodes[parent].right = child
	}
	return sub
}

// All yields the stored tuples in discrimination (in-order) order.
// The sequence may be iterated any number of times.
func (ix *PredicateIndex) All() iter.Seq[Tuple] {
	return func(yield func(Tuple) bool) {
		var stack []int
		cur := ix.root
		for cur != nilNode || len(stack) > 0 {
			for cur != nilNode {
				stack = append(stack, cur)
				cur = ix.nodes[cur].left
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(ix.nodes[top].t) {
				return
			}
			cur = ix.nodes[top].right
		}
	}
}

// At returns the i-th tuple in iteration order.
func (ix *PredicateIndex) At(i int) (Tuple, bool) {
	if i < 0 || i >= ix.size {
		return Tuple{}, false
	}
	k := 0
	for t := range ix.All() {
		if k == i {
			return t, true
		}
		k++
	}
	return Tuple{}, false
}

// depth returns the height of the tree; used by tests to observe balance.
func (ix *PredicateIndex) depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		if i == nilNode {
			return 0
		}
		return 1 + max(walk(ix.nodes[i].left), walk(ix.nodes[i].right))
	}
	return walk(ix.root)
}
