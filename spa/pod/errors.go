package pod

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	DataTooShort ErrorKind = iota
	WrongType
	StringNotTerminated
	IndexOutOfRange
	ChoiceElementMissing
	UnexpectedChoiceType
	UnexpectedObjectType
	NotAligned
	UnsupportedType
	BuilderState
)

func (self ErrorKind) String() string {
	switch self {
	case DataTooShort:
		return `data is too short`
	case WrongType:
		return `wrong pod type`
	case StringNotTerminated:
		return `string is not null terminated`
	case IndexOutOfRange:
		return `index out of range`
	case ChoiceElementMissing:
		return `choice element missing`
	case UnexpectedChoiceType:
		return `unexpected choice type`
	case UnexpectedObjectType:
		return `unexpected object type`
	case NotAligned:
		return `pod is not aligned`
	case UnsupportedType:
		return `unsupported pod type`
	case BuilderState:
		return `invalid builder state`
	default:
		return `unknown pod error`
	}
}

// An Error is returned by every decoding and conversion function in this
// package.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (self *Error) Error() string {
	if self.Message == `` {
		return fmt.Sprintf("pod: %v", self.Kind)
	}

	return fmt.Sprintf("pod: %v: %s", self.Kind, self.Message)
}

func errorf(kind ErrorKind, format string, args ...interface{}) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsKind reports whether err is a pod Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var perr *Error

	if errors.As(err, &perr) {
		return perr.Kind == kind
	}

	return false
}
