package syntax

// Ref addresses one replaceable position in a tree: a single-node slot, or
// one element of a list slot.
type Ref struct {
	Slot  *Slot
	Index int
}

// FieldRef addresses the node held by a single-node slot.
func FieldRef(s *Slot) Ref {
	return Ref{Slot: s, Index: -1}
}

// ElemRef addresses element i of a list slot.
func ElemRef(s *Slot, i int) Ref {
	return Ref{Slot: s, Index: i}
}

// Valid reports whether the position still exists.
func (r Ref) Valid() bool {
	if r.Slot == nil {
		return false
	}

	if r.Index < 0 {
		return !r.Slot.IsList
	}

	return r.Slot.IsList && r.Index < len(r.Slot.List)
}

// Get returns the node currently at the position.
func (r Ref) Get() *Node {
	if !r.Valid() {
		return nil
	}

	if r.Index < 0 {
		return r.Slot.Node
	}

	return r.Slot.List[r.Index]
}

// Set stores n at the position.
func (r Ref) Set(n *Node) {
	if !r.Valid() {
		return
	}

	if r.Index < 0 {
		r.Slot.Node = n
		return
	}

	r.Slot.List[r.Index] = n
}
