package simpleorm

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Adapter is a named lossless transformation between a Go value and its
// storage representation. The generator records adapter names on every
// column; a persistence layer applies them with a Chain.
type Adapter struct {
	// Name identifies the adapter in generated column descriptors.
	Name string
	// Container marks adapters that encode a whole list. Adapters listed
	// before a container in a chain apply to the list elements.
	Container bool
	// ToStorage converts a Go value to its storage representation.
	ToStorage func(any) (any, error)
	// FromStorage converts a storage value back to its Go representation.
	FromStorage func(any) (any, error)
}

// Built-in adapters.
var (
	// TimeAdapter stores a time.Time as Unix nanoseconds (INTEGER64).
	TimeAdapter = &Adapter{
		Name: "time",
		ToStorage: func(v any) (any, error) {
			t, ok := v.(time.Time)
			if !ok {
				return nil, fmt.Errorf("%w: want time.Time, got %T", ErrStorageType, v)
			}
			return t.UnixNano(), nil
		},
		FromStorage: func(v any) (any, error) {
			n, ok := asInt64(v)
			if !ok {
				return nil, fmt.Errorf("%w: want integer, got %T", ErrStorageType, v)
			}
			return time.Unix(0, n).UTC(), nil
		},
	}

	// UUIDAdapter stores a uuid.UUID as its 16 raw bytes (BLOB).
	UUIDAdapter = &Adapter{
		Name: "uuid",
		ToStorage: func(v any) (any, error) {
			u, ok := v.(uuid.UUID)
			if !ok {
				return nil, fmt.Errorf("%w: want uuid.UUID, got %T", ErrStorageType, v)
			}
			b := make([]byte, len(u))
			copy(b, u[:])
			return b, nil
		},
		FromStorage: func(v any) (any, error) {
			b, ok := v.([]byte)
			if !ok {
				return nil, fmt.Errorf("%w: want []byte, got %T", ErrStorageType, v)
			}
			return uuid.FromBytes(b)
		},
	}

	// ListAdapter stores a list as a msgpack array (BLOB). Decoding yields
	// []any; use DecodeList for a typed result.
	ListAdapter = &Adapter{
		Name:      "list",
		Container: true,
		ToStorage: func(v any) (any, error) {
			return msgpack.Marshal(v)
		},
		FromStorage: func(v any) (any, error) {
			b, ok := v.([]byte)
			if !ok {
				return nil, fmt.Errorf("%w: want []byte, got %T", ErrStorageType, v)
			}
			var out []any
			if err := msgpack.Unmarshal(b, &out); err != nil {
				return nil, err
			}
			return out, nil
		},
	}
)

var registry = struct {
	sync.RWMutex
	adapters map[string]*Adapter
}{
	adapters: map[string]*Adapter{
		TimeAdapter.Name: TimeAdapter,
		UUIDAdapter.Name: UUIDAdapter,
		ListAdapter.Name: ListAdapter,
	},
}

// RegisterAdapter makes a custom adapter available to chains. Names
// declared in the generator configuration must be registered before the
// generated descriptors are used.
func RegisterAdapter(a *Adapter) error {
	if a == nil || a.Name == "" || a.ToStorage == nil || a.FromStorage == nil {
		return fmt.Errorf("simpleorm: invalid adapter %v", a)
	}
	registry.Lock()
	defer registry.Unlock()
	if _, ok := registry.adapters[a.Name]; ok {
		return fmt.Errorf("simpleorm: adapter %q already registered", a.Name)
	}
	registry.adapters[a.Name] = a
	return nil
}

// LookupAdapter returns the adapter registered under name.
func LookupAdapter(name string) (*Adapter, error) {
	registry.RLock()
	defer registry.RUnlock()
	a, ok := registry.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownAdapter, name)
	}
	return a, nil
}

// Adapters returns the sorted names of all registered adapters.
func Adapters() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.adapters))
	for name := range registry.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain is an ordered list of adapters.
type Chain []*Adapter

// NewChain looks up the named adapters in write order.
func NewChain(names ...string) (Chain, error) {
	c := make(Chain, 0, len(names))
	for _, name := range names {
		a, err := LookupAdapter(name)
		if err != nil {
			return nil, err
		}
		c = append(c, a)
	}
	return c, nil
}

// split separates element adapters from a trailing container adapter.
func (c Chain) split() (Chain, *Adapter) {
	if n := len(c); n > 0 && c[n-1].Container {
		return c[:n-1], c[n-1]
	}
	return c, nil
}

// ToStorage applies the chain in write order.
func (c Chain) ToStorage(v any) (any, error) {
	elems, container := c.split()
	if container == nil {
		return elems.apply(v, "to storage", func(a *Adapter) func(any) (any, error) { return a.ToStorage })
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, &AdapterError{Adapter: container.Name, Op: "to storage", Err: fmt.Errorf("%w: want slice, got %T", ErrStorageType, v)}
	}
	list := make([]any, rv.Len())
	for i := range list {
		e, err := elems.apply(rv.Index(i).Interface(), "to storage", func(a *Adapter) func(any) (any, error) { return a.ToStorage })
		if err != nil {
			return nil, err
		}
		list[i] = e
	}
	out, err := container.ToStorage(list)
	if err != nil {
		return nil, &AdapterError{Adapter: container.Name, Op: "to storage", Err: err}
	}
	return out, nil
}

// FromStorage applies the chain in read order, the reverse of ToStorage.
func (c Chain) FromStorage(v any) (any, error) {
	elems, container := c.split()
	reversed := make(Chain, len(elems))
	for i, a := range elems {
		reversed[len(elems)-1-i] = a
	}
	from := func(a *Adapter) func(any) (any, error) { return a.FromStorage }
	if container == nil {
		return reversed.apply(v, "from storage", from)
	}
	out, err := container.FromStorage(v)
	if err != nil {
		return nil, &AdapterError{Adapter: container.Name, Op: "from storage", Err: err}
	}
	list, ok := out.([]any)
	if !ok {
		return out, nil
	}
	for i := range list {
		if list[i], err = reversed.apply(list[i], "from storage", from); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (c Chain) apply(v any, op string, fn func(*Adapter) func(any) (any, error)) (any, error) {
	for _, a := range c {
		var err error
		if v, err = fn(a)(v); err != nil {
			return nil, &AdapterError{Adapter: a.Name, Op: op, Err: err}
		}
	}
	return v, nil
}

// DecodeList decodes a list stored by ListAdapter into a typed slice.
func DecodeList[T any](b []byte) ([]T, error) {
	var out []T
	if err := msgpack.Unmarshal(b, &out); err != nil {
		return nil, &AdapterError{Adapter: ListAdapter.Name, Op: "from storage", Err: err}
	}
	return out, nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}
