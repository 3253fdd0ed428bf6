package beacon

import (
	"cmp"

	"github.com/emirpasic/gods/trees/redblacktree"
)

type nameKey struct {
	name string
	id   string
}

type brightnessKey struct {
	brightness int
	id         string
}

func compareNameKeys(a, b interface{}) int {
	x, y := a.(nameKey), b.(nameKey)
	if c := cmp.Compare(x.name, y.name); c != 0 {
		return c
	}
	return cmp.Compare(x.id, y.id)
}

func compareBrightnessKeys(a, b interface{}) int {
	x, y := a.(brightnessKey), b.(brightnessKey)
	if c := cmp.Compare(x.brightness, y.brightness); c != 0 {
		return c
	}
	return cmp.Compare(x.id, y.id)
}

// orderIndex is an ordered multimap from an indexed field to beacon IDs. The
// ID is part of the key, so every beacon owns exactly one entry.
type orderIndex struct {
	tree *redblacktree.Tree
}

func newNameIndex() *orderIndex {
	return &orderIndex{tree: redblacktree.NewWith(compareNameKeys)}
}

func newBrightnessIndex() *orderIndex {
	return &orderIndex{tree: redblacktree.NewWith(compareBrightnessKeys)}
}

func (ix *orderIndex) put(key interface{}, id string) { ix.tree.Put(key, id) }

func (ix *orderIndex) remove(key interface{}) { ix.tree.Remove(key) }

// move relocates an entry. The old key is removed before the new one is
// inserted so the index never holds two entries for one beacon.
func (ix *orderIndex) move(from, to interface{}, id string) {
	ix.tree.Remove(from)
	ix.tree.Put(to, id)
}

func (ix *orderIndex) has(key interface{}) bool {
	_, ok := ix.tree.Get(key)
	return ok
}

func (ix *orderIndex) size() int { return ix.tree.Size() }

func (ix *orderIndex) clear() { ix.tree.Clear() }

func (ix *orderIndex) ids() []string {
	ids := make([]string, 0, ix.tree.Size())
	it := ix.tree.Iterator()
	for it.Next() {
		ids = append(ids, it.Value().(string))
	}
	return ids
}

// from calls fn for every entry whose key is not less than key, in order,
// until fn returns false.
func (ix *orderIndex) from(key interface{}, fn func(key interface{}, id string) bool) {
	node, ok := ix.tree.Ceiling(key)
	if !ok {
		return
	}
	it := ix.tree.IteratorAt(node)
	for {
		if !fn(it.Key(), it.Value().(string)) {
			return
		}
		if !it.Next() {
			return
		}
	}
}

func (ix *orderIndex) first() (string, bool) {
	n := ix.tree.Left()
	if n == nil {
		return "", false
	}
	return n.Value.(string), true
}

func (ix *orderIndex) last() (string, bool) {
	n := ix.tree.Right()
	if n == nil {
		return "", false
	}
	return n.Value.(string), true
}
