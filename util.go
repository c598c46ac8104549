package pipewire

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/typeutil"
	"github.com/hashicorp/go-multierror"
)

// UnmarshalMap copies the values of a map into the fields of the struct that
// target points to. The map key for a field is taken from its `key` tag, or
// is the field name when there is no tag. A tag of `-` skips the field.
func UnmarshalMap(data map[string]interface{}, target interface{}) error {
	return unmarshalMap(data, target, false)
}

// populateStruct fills only the fields carrying a `key` tag. Object info
// structs use it to lift well-known properties into typed fields.
func populateStruct(data map[string]interface{}, target interface{}) error {
	return unmarshalMap(data, target, true)
}

// liftProps populates the typed fields of an info struct from its properties.
// A malformed property only costs its own field.
func liftProps(props Properties, target interface{}) {
	if err := populateStruct(propsToMap(props), target); err != nil {
		log.Debugf("pipewire: malformed properties in %T: %v", target, err)
	}
}

func propsToMap(props Properties) map[string]interface{} {
	data := make(map[string]interface{}, len(props))

	for k, v := range props {
		data[k] = v
	}

	return data
}

func unmarshalMap(data map[string]interface{}, target interface{}, taggedOnly bool) error {
	var targetStruct reflect.Value
	var merr *multierror.Error

	if target == nil || reflect.TypeOf(target).Kind() != reflect.Ptr {
		return fmt.Errorf("Unmarshal map only accepts a pointer to a struct")
	} else if pointedTo := reflect.Indirect(reflect.ValueOf(target)); !pointedTo.IsValid() {
		return fmt.Errorf("Cannot unmarshal map into non-existent target")
	} else if pointedTo.Kind() != reflect.Struct {
		return fmt.Errorf("Cannot unmarshal map into type %T", target)
	} else {
		targetStruct = pointedTo
	}

	for i := 0; i < targetStruct.NumField(); i++ {
		var specParts []string

		field := targetStruct.Type().Field(i)
		value := targetStruct.Field(i)

		// get the tag from this field and parse the spec...
		if keyTagSpec := field.Tag.Get(`key`); keyTagSpec != `` {
			specParts = strings.Split(keyTagSpec, `,`)
		} else if taggedOnly {
			continue
		} else {
			// ...or just assume a 1-to-1 map key to struct field name mapping
			specParts = []string{field.Name}
		}

		// a tag value '-' skips all processing of this struct field
		if specParts[0] == `-` {
			continue
		}

		dataValue, ok := data[specParts[0]]

		if !ok || !value.CanSet() {
			continue
		}

		skipField := false

		for _, tagFlag := range specParts[1:] {
			switch tagFlag {
			case `omitempty`:
				if typeutil.IsEmpty(dataValue) {
					skipField = true
				}
			}
		}

		if skipField {
			continue
		}

		if err := assignValue(value, dataValue); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("field %s: %v", field.Name, err))
		}
	}

	return merr.ErrorOrNil()
}

func assignValue(value reflect.Value, dataValue interface{}) error {
	dv := reflect.ValueOf(dataValue)

	if !dv.IsValid() {
		return nil
	}

	if dv.Type().AssignableTo(value.Type()) {
		value.Set(dv)
		return nil
	}

	// strings from property dicts are parsed into the numeric or boolean
	// field they are destined for
	if dv.Kind() == reflect.String {
		variant := typeutil.V(dataValue)

		switch value.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if n, err := variant.Int(), checkNumeric(dv.String()); err == nil {
				value.SetInt(n)
				return nil
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if n, err := variant.Int(), checkNumeric(dv.String()); err == nil && n >= 0 {
				value.SetUint(uint64(n))
				return nil
			}
		case reflect.Float32, reflect.Float64:
			if err := checkNumeric(dv.String()); err == nil {
				value.SetFloat(variant.Float())
				return nil
			}
		case reflect.Bool:
			value.SetBool(variant.Bool())
			return nil
		}

		return fmt.Errorf("Cannot convert '%v' (type %T) to %s", dataValue, dataValue, value.Type().String())
	}

	if dv.Type().ConvertibleTo(value.Type()) && dv.Kind() != reflect.Slice && dv.Kind() != reflect.Map {
		// numbers are not converted into strings, that would yield a rune
		if value.Kind() == reflect.String && dv.Kind() != reflect.String {
			return fmt.Errorf("Cannot convert '%v' (type %T) to %s", dataValue, dataValue, value.Type().String())
		}

		value.Set(dv.Convert(value.Type()))
		return nil
	}

	return fmt.Errorf("Cannot assign '%v' (type %T) to type %s", dataValue, dataValue, value.Type().String())
}

func checkNumeric(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("%q is not numeric", s)
	}

	return nil
}
