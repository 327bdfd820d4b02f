package builtins

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"njscore/pkg/errors"
	"njscore/pkg/lexer"
	"njscore/pkg/vm"
)

// Completions enumerates every name a user could type at top level:
// keywords, then "<namespace>.<prop>", then ".<prop>" for prototype
// members (each name once), then "<Constructor>.<prop>" for statics.
// Strings are charged to pool; on exhaustion no list is returned.
func Completions(t *vm.Template, pool *vm.Pool) ([]string, error) {
	out := make([]string, 0, lexer.NumKeywords())
	lexer.EachKeyword(func(name string) {
		out = append(out, name)
	})

	var err error
	emit := func(format string, args ...any) bool {
		var s string
		if s, err = pool.Sprintf(format, args...); err != nil {
			return false
		}
		out = append(out, s)
		return true
	}

	for i := 0; i < t.NumNamespaces(); i++ {
		ns := t.Namespace(i)
		ns.EachOwn(func(p vm.Property) bool {
			if p.Kind() == vm.PropertyHidden {
				return true
			}
			return emit("%s.%s", ns.Name(), p.Name())
		})
		if err != nil {
			return nil, introspectionError("completions", err)
		}
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	for k := vm.BuiltinObject; int(k) < vm.NumBuiltins; k++ {
		t.Prototype(k).EachOwn(func(p vm.Property) bool {
			if p.Kind() == vm.PropertyHidden || !seen.Add(p.Name()) {
				return true
			}
			return emit(".%s", p.Name())
		})
		if err != nil {
			return nil, introspectionError("completions", err)
		}
	}

	for k := vm.BuiltinObject; int(k) < vm.NumBuiltins; k++ {
		ctor := t.Constructor(k)
		ctor.EachOwn(func(p vm.Property) bool {
			if p.Kind() == vm.PropertyHidden {
				return true
			}
			return emit("%s.%s", ctor.Name(), p.Name())
		})
		if err != nil {
			return nil, introspectionError("completions", err)
		}
	}

	return out, nil
}

// Order selects how Complete sorts its result.
type Order int

const (
	// OrderNone keeps enumeration order.
	OrderNone Order = iota
	// OrderCollate sorts with a locale-aware collator.
	OrderCollate
)

func (o Order) String() string {
	switch o {
	case OrderNone:
		return "none"
	case OrderCollate:
		return "collate"
	default:
		return "unknown"
	}
}

// ParseOrder parses "none" or "collate".
func ParseOrder(s string) (Order, bool) {
	switch strings.ToLower(s) {
	case "", "none":
		return OrderNone, true
	case "collate":
		return OrderCollate, true
	}
	return OrderNone, false
}

// Complete returns the completions starting with prefix. With
// OrderCollate the result is sorted for locale, byte order breaking ties.
func Complete(t *vm.Template, pool *vm.Pool, prefix string, order Order, locale language.Tag) ([]string, error) {
	all, err := Completions(t, pool)
	if err != nil {
		return nil, err
	}
	var results []string
	for _, name := range all {
		if strings.HasPrefix(name, prefix) {
			results = append(results, name)
		}
	}
	if order == OrderCollate {
		c := collate.New(locale)
		sort.SliceStable(results, func(i, j int) bool {
			if r := c.CompareString(results[i], results[j]); r != 0 {
				return r < 0
			}
			return results[i] < results[j]
		})
	}
	return results, nil
}

func introspectionError(op string, cause error) error {
	msg := "allocation failed"
	if !errors.Is(cause, errors.ErrOutOfMemory) {
		msg = cause.Error()
	}
	return &errors.IntrospectionError{Op: op, Msg: msg, Cause: cause}
}
