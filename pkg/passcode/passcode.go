// Package passcode реализует цифровой код фиксированной длины:
// генерацию из источника случайных байтов, хранение в виде массива байтов
// и бинарный кодек для колонки БД.
package passcode

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"unicode/utf8"
)

// Len задаёт длину кода в байтах (и в символах).
const Len = 24

// Code хранит код из Len ASCII-цифр.
//
// Значение неизменяемо: наружу отдаются только копии байтов.
// Нулевое значение Code{} не является корректным кодом, см. IsZero.
type Code struct {
	b [Len]byte
}

// Generate генерирует новый код, используя r как источник случайных байтов.
// Ошибка источника возвращается обёрнутой, код при этом не создаётся.
func Generate(r io.Reader) (Code, error) {
	var c Code
	s := newSampler(r)
	for i := range c.b {
		d, err := digits.sample(s)
		if err != nil {
			return Code{}, fmt.Errorf("passcode: чтение источника случайных байтов: %w", err)
		}
		c.b[i] = d
	}
	return c, nil
}

// New генерирует код из crypto/rand.Reader.
func New() (Code, error) {
	return Generate(rand.Reader)
}

// MustGenerate аналогичен Generate, но паникует при ошибке источника.
// Предназначен для тестов и фикстур.
func MustGenerate(r io.Reader) Code {
	c, err := Generate(r)
	if err != nil {
		panic(err)
	}
	return c
}

// Decode создаёт код из буфера ровно в Len ASCII-цифр.
// Байты копируются как есть, без числового преобразования.
func Decode(b []byte) (Code, error) {
	if len(b) != Len {
		return Code{}, &DecodeError{Len: len(b), Err: ErrLengthMismatch}
	}
	var c Code
	for i, v := range b {
		if !isDigit(v) {
			return Code{}, &DecodeError{Len: len(b), Pos: i, Byte: v, Err: ErrInvalidDigit}
		}
		c.b[i] = v
	}
	return c, nil
}

// Parse создаёт код из строки ровно в Len ASCII-цифр.
func Parse(s string) (Code, error) {
	return Decode([]byte(s))
}

// Bytes возвращает копию кода: ровно Len байтов в порядке хранения.
func (c Code) Bytes() []byte {
	out := make([]byte, Len)
	copy(out, c.b[:])
	return out
}

// Array возвращает байты кода по значению.
func (c Code) Array() [Len]byte {
	return c.b
}

// Chars возвращает код посимвольно.
// Байт вне '0'..'9' (возможен только в нулевом значении) даёт utf8.RuneError.
func (c Code) Chars() [Len]rune {
	var out [Len]rune
	for i, v := range c.b {
		if !isDigit(v) {
			out[i] = utf8.RuneError
			continue
		}
		out[i] = '0' + rune(v-'0')
	}
	return out
}

// String возвращает код в виде строки из Len цифр.
func (c Code) String() string {
	return string(c.b[:])
}

// Digit возвращает i-ю цифру кода как ASCII-байт.
func (c Code) Digit(i int) byte {
	return c.b[i]
}

// WithDigit возвращает копию кода с заменённой i-й цифрой.
// Исходный код не изменяется.
func (c Code) WithDigit(i int, d byte) (Code, error) {
	if i < 0 || i >= Len {
		return Code{}, fmt.Errorf("passcode: позиция %d вне диапазона [0, %d)", i, Len)
	}
	if !isDigit(d) {
		return Code{}, &DecodeError{Len: Len, Pos: i, Byte: d, Err: ErrInvalidDigit}
	}
	c.b[i] = d
	return c, nil
}

// IsZero сообщает, что код не был инициализирован.
func (c Code) IsZero() bool {
	return c.b == [Len]byte{}
}

// Equal сравнивает коды за постоянное время.
func (c Code) Equal(other Code) bool {
	return subtle.ConstantTimeCompare(c.b[:], other.b[:]) == 1
}

// valid проверяет инвариант цифр. Нарушить его может только нулевое значение.
func (c Code) valid() error {
	for i, v := range c.b {
		if !isDigit(v) {
			return &DecodeError{Len: Len, Pos: i, Byte: v, Err: ErrInvalidDigit}
		}
	}
	return nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
