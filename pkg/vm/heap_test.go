package vm

import (
	"testing"
)

func TestHeap_NewHeap(t *testing.T) {
	heap := NewHeap(10)
	if heap.Size() != 0 {
		t.Errorf("Expected new heap size to be 0, got %d", heap.Size())
	}
	if len(heap.values) != 10 {
		t.Errorf("Expected heap capacity to be 10, got %d", len(heap.values))
	}
}

func TestHeap_SetAndGet(t *testing.T) {
	heap := NewHeap(5)

	testValue := NewString("test")
	if err := heap.Set(2, testValue); err != nil {
		t.Errorf("Unexpected error setting value: %v", err)
	}

	value, exists := heap.Get(2)
	if !exists {
		t.Error("Expected value to exist at index 2")
	}
	if value.Type() != TypeString || value.AsString() != "test" {
		t.Errorf("Expected string 'test', got %v", value.Inspect())
	}

	if heap.Size() != 3 {
		t.Errorf("Expected heap size to be 3, got %d", heap.Size())
	}
}

func TestHeap_AutoResize(t *testing.T) {
	heap := NewHeap(2)

	if err := heap.Set(5, NumberValue(42)); err != nil {
		t.Errorf("Unexpected error setting value: %v", err)
	}
	if len(heap.values) <= 5 {
		t.Errorf("Expected heap to be resized to accommodate index 5, capacity is %d", len(heap.values))
	}
	if heap.Size() != 6 {
		t.Errorf("Expected heap size to be 6, got %d", heap.Size())
	}

	value, exists := heap.Get(5)
	if !exists {
		t.Error("Expected value to exist at index 5")
	}
	if value.Type() != TypeNumber || value.AsFloat() != 42 {
		t.Errorf("Expected number 42, got %v", value.Inspect())
	}
}

func TestHeap_GetOutOfBounds(t *testing.T) {
	heap := NewHeap(5)
	heap.Set(2, NewString("test"))

	if _, exists := heap.Get(-1); exists {
		t.Error("Expected negative index to return false")
	}
	if _, exists := heap.Get(10); exists {
		t.Error("Expected out-of-bounds index to return false")
	}
	if err := heap.Set(-1, Null); err == nil {
		t.Error("Expected error setting a negative index")
	}
}

func TestHeap_Bind(t *testing.T) {
	heap := NewHeap(3)

	globals := []string{"Object", "Array", "Math"}
	for i, name := range globals {
		if err := heap.Bind(name, i, NewString(name)); err != nil {
			t.Fatalf("Unexpected error binding %s: %v", name, err)
		}
	}

	for i, name := range globals {
		value, ok := heap.Lookup(name)
		if !ok || value.AsString() != name {
			t.Errorf("Expected global '%s', got %v", name, value.Inspect())
		}
		if index, ok := heap.Index(name); !ok || index != i {
			t.Errorf("Expected '%s' at slot %d, got %d", name, i, index)
		}
	}

	names := heap.Names()
	for i := range globals {
		if names[i] != globals[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], globals[i])
		}
	}

	// Same slot is fine, a different slot is not.
	if err := heap.Bind("Array", 1, Null); err != nil {
		t.Errorf("Unexpected error rebinding to the same slot: %v", err)
	}
	if err := heap.Bind("Array", 2, Null); err == nil {
		t.Error("Expected error rebinding a global to another slot")
	}

	if _, ok := heap.Lookup("missing"); ok {
		t.Error("Expected lookup of unbound name to fail")
	}
}

func TestHeap_Resize(t *testing.T) {
	heap := NewHeap(2)
	heap.Set(1, NewString("test"))

	heap.Resize(10)
	if len(heap.values) != 10 {
		t.Errorf("Expected heap capacity to be 10, got %d", len(heap.values))
	}
	if heap.Size() != 10 {
		t.Errorf("Expected heap size to be 10, got %d", heap.Size())
	}

	value, exists := heap.Get(1)
	if !exists || value.Type() != TypeString {
		t.Error("Expected existing value to be preserved after resize")
	}

	for i := 2; i < 10; i++ {
		value, exists := heap.Get(i)
		if !exists || value.Type() != TypeUndefined {
			t.Errorf("Expected index %d to be Undefined after resize, got %v", i, value.Type())
		}
	}
}
