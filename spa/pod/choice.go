package pod

import (
	"github.com/auroralaboratories/pipewire/spa"
)

// NewNone wraps a single value in a choice of type None.
func NewNone(v Value) Choice {
	return Choice{ChoiceType: spa.ChoiceNone, ChildType: v.Type(), Values: []Value{v}}
}

// NewRange builds a Range choice: default, min, max.
func NewRange(def, min, max Value) Choice {
	return Choice{ChoiceType: spa.ChoiceRange, ChildType: def.Type(), Values: []Value{def, min, max}}
}

// NewStep builds a Step choice: default, min, max, step.
func NewStep(def, min, max, step Value) Choice {
	return Choice{ChoiceType: spa.ChoiceStep, ChildType: def.Type(), Values: []Value{def, min, max, step}}
}

// NewEnum builds an Enum choice. The default is repeated as the first
// alternative when no alternatives are given, matching how PipeWire encodes
// single-value enums.
func NewEnum(def Value, alternatives ...Value) Choice {
	values := []Value{def}

	if len(alternatives) == 0 {
		values = append(values, def)
	} else {
		values = append(values, alternatives...)
	}

	return Choice{ChoiceType: spa.ChoiceEnum, ChildType: def.Type(), Values: values}
}

// NewFlags builds a Flags choice: default followed by the allowed flag values.
func NewFlags(def Value, flags ...Value) Choice {
	return Choice{ChoiceType: spa.ChoiceFlags, ChildType: def.Type(), Values: append([]Value{def}, flags...)}
}

// Default returns the default (first) value of the choice.
func (self Choice) Default() (Value, error) {
	if len(self.Values) == 0 {
		return nil, errorf(ChoiceElementMissing, "%v choice has no values", self.ChoiceType)
	}

	return self.Values[0], nil
}

func (self Choice) expect(choiceType spa.ChoiceType, count int) error {
	if self.ChoiceType != choiceType {
		return errorf(UnexpectedChoiceType, "expected %v, got %v", choiceType, self.ChoiceType)
	}

	if len(self.Values) < count {
		return errorf(ChoiceElementMissing, "%v choice has %d of %d values", choiceType, len(self.Values), count)
	}

	return nil
}

// Range returns the default, min and max of a Range choice.
func (self Choice) Range() (def, min, max Value, err error) {
	if err = self.expect(spa.ChoiceRange, 3); err == nil {
		def, min, max = self.Values[0], self.Values[1], self.Values[2]
	}

	return
}

// Step returns the default, min, max and step of a Step choice.
func (self Choice) Step() (def, min, max, step Value, err error) {
	if err = self.expect(spa.ChoiceStep, 4); err == nil {
		def, min, max, step = self.Values[0], self.Values[1], self.Values[2], self.Values[3]
	}

	return
}

// Enum returns the default and the alternatives of an Enum choice.
func (self Choice) Enum() (def Value, alternatives []Value, err error) {
	if err = self.expect(spa.ChoiceEnum, 1); err == nil {
		def, alternatives = self.Values[0], self.Values[1:]
	}

	return
}

// FlagValues returns the default and the flag values of a Flags choice.
func (self Choice) FlagValues() (def Value, flags []Value, err error) {
	if err = self.expect(spa.ChoiceFlags, 1); err == nil {
		def, flags = self.Values[0], self.Values[1:]
	}

	return
}

// Fixate returns the default when v is a choice and v itself otherwise.
func Fixate(v Value) (Value, error) {
	if choice, ok := v.(Choice); ok {
		return choice.Default()
	}

	return v, nil
}
