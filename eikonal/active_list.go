package eikonal

import "sort"

// ActiveList is the set of node ids scheduled for recomputation. Membership
// tests, insertion and removal are O(1); ids are held in a dense slice with
// a position index so removal swaps with the last element.
type ActiveList struct {
	pos map[int]int
	ids []int
}

func NewActiveList() *ActiveList {
	return &ActiveList{pos: make(map[int]int)}
}

func (al *ActiveList) Len() int { return len(al.ids) }

func (al *ActiveList) Contains(id int) bool {
	_, ok := al.pos[id]
	return ok
}

// Add inserts id and reports whether it was absent
func (al *ActiveList) Add(id int) bool {
	if _, ok := al.pos[id]; ok {
		return false
	}
	al.pos[id] = len(al.ids)
	al.ids = append(al.ids, id)
	return true
}

// Remove deletes id and reports whether it was present
func (al *ActiveList) Remove(id int) bool {
	i, ok := al.pos[id]
	if !ok {
		return false
	}
	last := len(al.ids) - 1
	if i != last {
		moved := al.ids[last]
		al.ids[i] = moved
		al.pos[moved] = i
	}
	al.ids = al.ids[:last]
	delete(al.pos, id)
	return true
}

// Snapshot returns the members in ascending order. The copy is independent
// of later changes to the list.
func (al *ActiveList) Snapshot() (ids []int) {
	ids = make([]int, len(al.ids))
	copy(ids, al.ids)
	sort.Ints(ids)
	return
}

func (al *ActiveList) Reset() {
	al.pos = make(map[int]int)
	al.ids = al.ids[:0]
}
