package passcode

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch возвращается, когда длина буфера не равна Len.
	ErrLengthMismatch = errors.New("passcode: length mismatch")

	// ErrInvalidDigit возвращается, когда в буфере есть байт вне '0'..'9'.
	ErrInvalidDigit = errors.New("passcode: invalid digit")

	// ErrNullCode возвращается при сканировании NULL из БД.
	ErrNullCode = errors.New("passcode: null value")

	// ErrUnsupportedType возвращается при сканировании значения неподдерживаемого типа.
	ErrUnsupportedType = errors.New("passcode: unsupported source type")
)

// DecodeError описывает отказ при разборе кода.
// Err всегда ErrLengthMismatch или ErrInvalidDigit.
type DecodeError struct {
	Len  int  // длина входного буфера
	Pos  int  // позиция первого некорректного байта (только для ErrInvalidDigit)
	Byte byte // сам некорректный байт (только для ErrInvalidDigit)
	Err  error
}

func (e *DecodeError) Error() string {
	if errors.Is(e.Err, ErrLengthMismatch) {
		return fmt.Sprintf("%v: got %d bytes, want %d", e.Err, e.Len, Len)
	}
	return fmt.Sprintf("%v: byte 0x%02x at position %d", e.Err, e.Byte, e.Pos)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
