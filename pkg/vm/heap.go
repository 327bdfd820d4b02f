package vm

import (
	"fmt"
	"sort"
)

// Heap is the global variable scope of a realm: a slot array the
// interpreter indexes directly, plus a name -> slot map for lookups by name.
type Heap struct {
	values      []Value
	size        int
	nameToIndex map[string]int
}

// NewHeap creates a new heap with the specified initial capacity
func NewHeap(initialCapacity int) *Heap {
	return &Heap{
		values:      make([]Value, initialCapacity),
		nameToIndex: make(map[string]int, initialCapacity),
	}
}

// Resize ensures the heap can accommodate at least the specified size
func (h *Heap) Resize(newSize int) {
	if newSize > len(h.values) {
		newValues := make([]Value, newSize)
		copy(newValues, h.values)
		h.values = newValues
	}
	if newSize > h.size {
		h.size = newSize
	}
}

// Get retrieves a value from the heap at the specified index
func (h *Heap) Get(index int) (Value, bool) {
	if index < 0 || index >= h.size {
		return Undefined, false
	}
	return h.values[index], true
}

// Set stores a value in the heap at the specified index
func (h *Heap) Set(index int, value Value) error {
	if index < 0 {
		return fmt.Errorf("heap index cannot be negative: %d", index)
	}
	if index >= len(h.values) {
		h.Resize(index + 1)
	}
	h.values[index] = value
	if index >= h.size {
		h.size = index + 1
	}
	return nil
}

// Bind stores value at index and records name for it. Rebinding a name to
// another slot is an error: slot indices are baked into compiled code.
func (h *Heap) Bind(name string, index int, value Value) error {
	if prev, ok := h.nameToIndex[name]; ok && prev != index {
		return fmt.Errorf("global %q already bound at slot %d", name, prev)
	}
	if err := h.Set(index, value); err != nil {
		return fmt.Errorf("failed to bind global '%s' at index %d: %v", name, index, err)
	}
	h.nameToIndex[name] = index
	return nil
}

// Lookup returns the value bound to name.
func (h *Heap) Lookup(name string) (Value, bool) {
	index, ok := h.nameToIndex[name]
	if !ok {
		return Undefined, false
	}
	return h.Get(index)
}

// Index returns the slot bound to name.
func (h *Heap) Index(name string) (int, bool) {
	index, ok := h.nameToIndex[name]
	return index, ok
}

// Names returns the bound names ordered by slot.
func (h *Heap) Names() []string {
	names := make([]string, 0, len(h.nameToIndex))
	for name := range h.nameToIndex {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return h.nameToIndex[names[i]] < h.nameToIndex[names[j]]
	})
	return names
}

// Size returns the current size of the heap
func (h *Heap) Size() int {
	return h.size
}
