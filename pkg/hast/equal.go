package hast

import (
	"fmt"
	"math"
	"reflect"

	"github.com/vango-dev/markview/internal/errors"
)

// MaxDepth bounds how deep Compare descends into children and property
// values. Deeper structures, including reference cycles, are reported as E102.
const MaxDepth = 512

// Equal reports whether prev and next render identically.
//
// A nil node is never equal to anything, including another nil node.
// Position, Data and the "position"/"data" property keys are ignored at
// every depth. Values that cannot be compared make the nodes unequal.
func Equal(prev, next *Node) bool {
	eq, err := Compare(prev, next)
	return err == nil && eq
}

// Compare is Equal with the comparison error exposed. The error is an
// *errors.Error with code E101 for values that are not plain data and E102
// for cyclic or too deeply nested values.
//
// The nodes' own type and tag name are not compared; callers compare nodes
// that were routed to the same component by tag.
func Compare(prev, next *Node) (bool, error) {
	if prev == nil || next == nil {
		return false, nil
	}
	if prev.Value != next.Value {
		return false, nil
	}
	eq, err := compareProps(prev.Properties, next.Properties, 0)
	if err != nil || !eq {
		return false, err
	}
	return compareChildren(prev.Children, next.Children, 0)
}

// PropertiesEqual compares two property maps the way Equal does.
func PropertiesEqual(a, b Properties) bool {
	eq, err := compareProps(a, b, 0)
	return err == nil && eq
}

func compareChildren(a, b []*Node, depth int) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	for i := range a {
		eq, err := compareNode(a[i], b[i], depth+1)
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func compareNode(a, b *Node, depth int) (bool, error) {
	if depth > MaxDepth {
		return false, tooDeep()
	}
	if a == nil || b == nil {
		return a == b, nil
	}
	if a.Type != b.Type || a.TagName != b.TagName {
		return false, nil
	}
	if a.Type.Literal() || a.Type == TypeDoctype {
		return a.Value == b.Value, nil
	}
	eq, err := compareProps(a.Properties, b.Properties, depth)
	if err != nil || !eq {
		return false, err
	}
	return compareChildren(a.Children, b.Children, depth)
}

func ignoredKey(k string) bool {
	return k == PositionKey || k == DataKey
}

func compareProps(a, b Properties, depth int) (bool, error) {
	n := 0
	for k, av := range a {
		if ignoredKey(k) {
			continue
		}
		n++
		bv, ok := b[k]
		if !ok {
			return false, nil
		}
		eq, err := compareValue(av, bv, depth+1)
		if err != nil || !eq {
			return false, err
		}
	}
	for k := range b {
		if !ignoredKey(k) {
			n--
		}
	}
	return n == 0, nil
}

type valueKind uint8

const (
	kindNull valueKind = iota
	kindString
	kindBool
	kindNumber
	kindList
	kindObject
	kindUnsupported
)

func classify(v reflect.Value) valueKind {
	if !v.IsValid() {
		return kindNull
	}
	switch v.Kind() {
	case reflect.String:
		return kindString
	case reflect.Bool:
		return kindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindNumber
	case reflect.Slice, reflect.Array:
		// A nil slice is an empty list.
		return kindList
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return kindUnsupported
		}
		return kindObject
	case reflect.Interface:
		if v.IsNil() {
			return kindNull
		}
		return classify(v.Elem())
	}
	return kindUnsupported
}

func compareValue(a, b any, depth int) (bool, error) {
	return compareReflect(reflect.ValueOf(a), reflect.ValueOf(b), depth)
}

func compareReflect(a, b reflect.Value, depth int) (bool, error) {
	if depth > MaxDepth {
		return false, tooDeep()
	}
	if a.IsValid() && a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	if b.IsValid() && b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}

	ak, bk := classify(a), classify(b)
	if ak == kindUnsupported {
		return false, unsupported(a)
	}
	if bk == kindUnsupported {
		return false, unsupported(b)
	}
	if ak != bk {
		return false, nil
	}

	switch ak {
	case kindNull:
		return true, nil
	case kindString:
		return a.String() == b.String(), nil
	case kindBool:
		return a.Bool() == b.Bool(), nil
	case kindNumber:
		return numbersEqual(a, b), nil
	case kindList:
		if a.Len() != b.Len() {
			return false, nil
		}
		for i := 0; i < a.Len(); i++ {
			eq, err := compareReflect(a.Index(i), b.Index(i), depth+1)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case kindObject:
		if a.Len() != b.Len() {
			return false, nil
		}
		keyType := b.Type().Key()
		iter := a.MapRange()
		for iter.Next() {
			key := reflect.ValueOf(iter.Key().String()).Convert(keyType)
			bv := b.MapIndex(key)
			if !bv.IsValid() {
				return false, nil
			}
			eq, err := compareReflect(iter.Value(), bv, depth+1)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}
	return false, nil
}

func numbersEqual(a, b reflect.Value) bool {
	switch {
	case a.CanInt() && b.CanInt():
		return a.Int() == b.Int()
	case a.CanUint() && b.CanUint():
		return a.Uint() == b.Uint()
	case a.CanInt() && b.CanUint():
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint()
	case a.CanUint() && b.CanInt():
		return b.Int() >= 0 && a.Uint() == uint64(b.Int())
	}
	af, bf := toFloat(a), toFloat(b)
	if math.IsNaN(af) || math.IsNaN(bf) {
		return false
	}
	return af == bf
}

func toFloat(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	case v.CanFloat():
		return v.Float()
	}
	return math.NaN()
}

func unsupported(v reflect.Value) error {
	return errors.New("E101").
		WithDetail(fmt.Sprintf("Cannot compare a value of type %s. Node properties must be plain data.", v.Type()))
}

func tooDeep() error {
	return errors.New("E102").
		WithDetail(fmt.Sprintf("Comparison exceeded the nesting limit of %d. The value is probably cyclic.", MaxDepth))
}
