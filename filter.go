package pipewire

import (
	"strings"

	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/sliceutil"
	"github.com/ghetzel/go-stockutil/stringutil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

const FilterSeparator = `;`
const FieldValueSeparator = `/`

var filterOperators = []string{``, `contains`, `prefix`, `gt`, `lt`, `gte`, `lte`, `not`}

func F(filters interface{}) (f Filter) {
	for _, flt := range sliceutil.Stringify(filters) {
		f = append(f, flt)
	}

	return
}

// A Filter is a list of `field/op:value` expressions matched against the
// flattened fields of an object. Property keys live under `props`, so
// `props.media.class/Audio/Sink` matches sinks. An object matches when any
// expression matches one of its fields.
//
// Operators are `contains`, `prefix`, `not` and the numeric `gt`, `lt`, `gte`
// and `lte`. Without an operator the value must be equal.
type Filter []string

// Objects that know how to flatten themselves for filtering.
type mappable interface {
	Map() map[string]interface{}
}

type filterExpr struct {
	field string
	op    string
	value string
}

func parseFilterExpr(flt string) filterExpr {
	field, vpair := stringutil.SplitPair(flt, FieldValueSeparator)
	op, cmp := stringutil.SplitPairTrailing(vpair, `:`)

	// values like `PipeWire:Interface:Node` contain the separator
	if !sliceutil.ContainsString(filterOperators, op) {
		op, cmp = ``, vpair
	}

	return filterExpr{
		field: field,
		op:    op,
		value: cmp,
	}
}

func (self filterExpr) matches(v interface{}) bool {
	value := typeutil.V(v)

	switch self.op {
	case `contains`:
		return strings.Contains(value.String(), self.value)
	case `prefix`:
		return strings.HasPrefix(value.String(), self.value)
	case `gt`:
		return value.Float() > typeutil.Float(self.value)
	case `lt`:
		return value.Float() < typeutil.Float(self.value)
	case `gte`:
		return value.Float() >= typeutil.Float(self.value)
	case `lte`:
		return value.Float() <= typeutil.Float(self.value)
	case `not`:
		return value.String() != self.value
	default:
		return value.String() == self.value
	}
}

func (self Filter) String() string {
	return strings.Join(self, FilterSeparator)
}

func (self Filter) IsMatch(in interface{}) bool {
	if len(self) == 0 {
		return true
	}

	var data map[string]interface{}

	if m, ok := in.(mappable); ok {
		data = m.Map()
	} else {
		data = maputil.M(in).MapNative()
	}

	data, _ = maputil.CoalesceMap(data, `.`)

	for k, v := range data {
		if self.IsFieldMatch(k, v) {
			return true
		}
	}

	return false
}

func (self Filter) IsFieldMatch(k string, v interface{}) bool {
	if len(self) == 0 {
		return true
	}

	for _, flt := range self {
		expr := parseFilterExpr(flt)

		if expr.field == `` || expr.value == `` || expr.field != k {
			continue
		}

		if expr.matches(v) {
			return true
		}
	}

	return false
}

// Apply returns the fields of the map that match, nested the same way.
func (self Filter) Apply(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	data, _ := maputil.CoalesceMap(in, `.`)

	for k, v := range data {
		if self.IsFieldMatch(k, v) {
			maputil.DeepSet(out, strings.Split(k, `.`), v)
		}
	}

	return out
}
