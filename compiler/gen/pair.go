package gen

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/syssam/simpleorm/compiler/load"
)

// Accessor name prefixes.
const (
	prefixGet = "Get"
	prefixIs  = "Is"
	prefixSet = "Set"
)

// accessors holds the getter and setter of one property key.
type accessors struct {
	Key    string
	Getter *load.Method
	Setter *load.Method
}

// pair groups the methods of an entity into accessor pairs keyed by
// property key. Pairs are returned in the order their key was first
// encountered.
func pair(e *load.Entity) ([]*accessors, error) {
	var (
		pairs []*accessors
		byKey = make(map[string]*accessors)
	)
	for _, m := range e.Methods {
		key, getter, ok := accessorKey(m.Name)
		if !ok {
			return nil, NewSchemaError(KindInvalidMethodName, e.Name, m.Name, m.Pos,
				"method name must be Get<Key>, Is<Key> or Set<Key>")
		}
		if err := checkSignature(e, m, getter); err != nil {
			return nil, err
		}
		p, ok := byKey[key]
		if !ok {
			p = &accessors{Key: key}
			byKey[key] = p
			pairs = append(pairs, p)
		}
		switch {
		case getter && p.Getter != nil:
			return nil, NewSchemaError(KindMultipleGetter, e.Name, m.Name, m.Pos,
				"property "+key+" already has getter "+p.Getter.Name+" ("+p.Getter.Pos.String()+")")
		case getter:
			p.Getter = m
		case p.Setter != nil:
			return nil, NewSchemaError(KindMultipleSetter, e.Name, m.Name, m.Pos,
				"property "+key+" already has setter "+p.Setter.Name+" ("+p.Setter.Pos.String()+")")
		default:
			p.Setter = m
		}
	}
	return pairs, nil
}

// accessorKey strips the accessor prefix from name. The remaining key must
// start with an upper-case letter.
func accessorKey(name string) (key string, getter, ok bool) {
	for _, prefix := range [...]string{prefixGet, prefixIs, prefixSet} {
		key, found := strings.CutPrefix(name, prefix)
		if !found || key == "" {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(key); !unicode.IsUpper(r) {
			continue
		}
		return key, prefix != prefixSet, true
	}
	return "", false, false
}

func checkSignature(e *load.Entity, m *load.Method, getter bool) error {
	switch {
	case getter && len(m.Params) > 0:
		return NewSchemaError(KindGetterWithParameters, e.Name, m.Name, m.Pos, "").
			mismatch("0 parameters", strconv.Itoa(len(m.Params)))
	case getter && len(m.Results) != 1:
		return NewSchemaError(KindReturnMismatch, e.Name, m.Name, m.Pos, "").
			mismatch("1 result", strconv.Itoa(len(m.Results)))
	case !getter && len(m.Params) != 1:
		return NewSchemaError(KindSetterWithoutParameters, e.Name, m.Name, m.Pos, "").
			mismatch("1 parameter", strconv.Itoa(len(m.Params)))
	case !getter && len(m.Results) > 0:
		return NewSchemaError(KindReturnMismatch, e.Name, m.Name, m.Pos, "").
			mismatch("0 results", strconv.Itoa(len(m.Results)))
	}
	return nil
}
