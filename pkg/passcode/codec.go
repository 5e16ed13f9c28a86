package passcode

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"fmt"
)

// Проверяем на этапе компиляции, что Code реализует интерфейсы кодека.
var (
	_ driver.Valuer              = Code{}
	_ sql.Scanner                = (*Code)(nil)
	_ encoding.BinaryMarshaler   = Code{}
	_ encoding.BinaryUnmarshaler = (*Code)(nil)
	_ encoding.TextMarshaler     = Code{}
	_ encoding.TextUnmarshaler   = (*Code)(nil)
)

// DataType: имя типа колонки в PostgreSQL (домен users.passcode).
const DataType = "passcode"

// Value возвращает Len байтов кода для записи в колонку.
// Нулевое значение записать нельзя.
func (c Code) Value() (driver.Value, error) {
	if err := c.valid(); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

// Scan читает код из колонки. Принимает []byte и string.
func (c *Code) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return ErrNullCode
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, src)
	}

	decoded, err := Decode(b)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// GormDataType сообщает GORM тип колонки.
func (Code) GormDataType() string {
	return DataType
}

// MarshalBinary кодирует код в Len байтов.
func (c Code) MarshalBinary() ([]byte, error) {
	if err := c.valid(); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

// UnmarshalBinary декодирует код из Len байтов.
func (c *Code) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// MarshalText кодирует код строкой из Len цифр; в JSON это обычная строка.
func (c Code) MarshalText() ([]byte, error) {
	return c.MarshalBinary()
}

// UnmarshalText декодирует код из строки в Len цифр.
func (c *Code) UnmarshalText(text []byte) error {
	return c.UnmarshalBinary(text)
}
