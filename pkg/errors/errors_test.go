package errors

import (
	"fmt"
	"testing"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("plain"), "Error: plain"},
		{NewTypeError("%s is not a function", "x"), "TypeError: x is not a function"},
		{NewInitError("prototype Array", ErrOutOfMemory),
			"Init Error in prototype Array: builtin initialisation failed\n  caused by: out of memory"},
		{&IntrospectionError{Op: "resolve", Msg: "allocation failed", Cause: ErrOutOfMemory},
			"Introspection Error in resolve: allocation failed\n  caused by: out of memory"},
		{fmt.Errorf("wrapped: %w", NewRangeError("bad radix")), "RangeError: bad radix"},
	}
	for _, tt := range tests {
		if got := Describe(tt.err); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestWrapping(t *testing.T) {
	err := fmt.Errorf("build: %w", NewInitError("clone", ErrOutOfMemory))
	if !Is(err, ErrOutOfMemory) {
		t.Errorf("expected ErrOutOfMemory in chain")
	}
	var ie *InitError
	if !As(err, &ie) || ie.Stage != "clone" {
		t.Errorf("expected InitError for clone, got %v", ie)
	}
	var ee EngineError
	if !As(err, &ee) || ee.Kind() != "Init" {
		t.Errorf("expected EngineError of kind Init")
	}

	re := NewURIError("malformed").CausedBy(ErrOutOfMemory)
	if !Is(re, ErrOutOfMemory) || re.Error() != "URIError: malformed" {
		t.Errorf("unexpected runtime error %v", re)
	}
}
