package pipewire

import (
	"errors"
	"fmt"
	"syscall"
)

var NotConnectedErr = errors.New("not connected to PipeWire")
var NullPointerErr = errors.New("native call returned a null pointer")
var TypeMismatchErr = errors.New("object type mismatch")
var VersionMismatchErr = errors.New("object version is lower than required")
var CannotCreateInstanceErr = errors.New("cannot create instance")
var NoSuchObjectErr = errors.New("no such object")
var NoSuchModuleErr = errors.New("no such module")
var InvalidArgumentErr = errors.New("invalid argument")

func IsNotConnectedErr(err error) bool {
	return errors.Is(err, NotConnectedErr)
}

func IsNullPointerErr(err error) bool {
	return errors.Is(err, NullPointerErr)
}

func IsTypeMismatchErr(err error) bool {
	return errors.Is(err, TypeMismatchErr)
}

func IsVersionMismatchErr(err error) bool {
	return errors.Is(err, VersionMismatchErr)
}

func IsCannotCreateInstanceErr(err error) bool {
	return errors.Is(err, CannotCreateInstanceErr)
}

func IsNoSuchObjectErr(err error) bool {
	return errors.Is(err, NoSuchObjectErr)
}

func IsNoSuchModuleErr(err error) bool {
	return errors.Is(err, NoSuchModuleErr)
}

func IsInvalidArgumentErr(err error) bool {
	return errors.Is(err, InvalidArgumentErr)
}

// An ErrorCode is a negative errno-style result returned by a native call.
type ErrorCode int

func (self ErrorCode) Error() string {
	code := int(self)

	if code < 0 {
		code = -code
	}

	return fmt.Sprintf("pipewire error %d: %v", int(self), syscall.Errno(code))
}

// Errno returns the positive errno value.
func (self ErrorCode) Errno() syscall.Errno {
	if self < 0 {
		return syscall.Errno(-self)
	}

	return syscall.Errno(self)
}

// CheckResult turns a native result into an error; results >= 0 succeed.
func CheckResult(res int) error {
	if res < 0 {
		return ErrorCode(res)
	}

	return nil
}

// A CoreError is an error event sent by the server that no pending call was
// waiting for.
type CoreError struct {
	ID      uint32    `json:"id"`
	Seq     int       `json:"seq"`
	Res     ErrorCode `json:"res"`
	Message string    `json:"message"`
}

func (self CoreError) Error() string {
	if self.Message == `` {
		return fmt.Sprintf("object %d: %v", self.ID, self.Res)
	}

	return fmt.Sprintf("object %d: %s (%v)", self.ID, self.Message, self.Res.Errno())
}

func (self CoreError) Unwrap() error {
	return self.Res
}
