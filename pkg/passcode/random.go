package passcode

import "io"

// digits: распределение, из которого берётся каждая цифра кода.
// Инициализируется один раз при загрузке пакета и больше не меняется.
var digits = newUniformByte('0', '9')

// uniformByte: равномерное распределение на отрезке [lo, hi].
//
// Байт источника принимается только если он меньше limit, наибольшего кратного
// ширине отрезка числа не больше 256. Остальные байты отбрасываются, поэтому
// взятие остатка не даёт смещения в пользу младших значений.
type uniformByte struct {
	lo    byte
	span  int
	limit int
}

func newUniformByte(lo, hi byte) uniformByte {
	if hi < lo {
		panic("passcode: hi < lo")
	}
	span := int(hi-lo) + 1
	return uniformByte{
		lo:    lo,
		span:  span,
		limit: 256 - 256%span,
	}
}

func (u uniformByte) sample(s *sampler) (byte, error) {
	for {
		b, err := s.next()
		if err != nil {
			return 0, err
		}
		if int(b) < u.limit {
			return u.lo + byte(int(b)%u.span), nil
		}
	}
}

// sampleChunk: сколько байтов запрашивается у источника за одно чтение.
// На код в среднем уходит Len*256/250 байтов.
const sampleChunk = 32

// sampler буферизует чтение из источника случайных байтов.
type sampler struct {
	r   io.Reader
	buf [sampleChunk]byte
	pos int
	n   int
}

func newSampler(r io.Reader) *sampler {
	return &sampler{r: r}
}

func (s *sampler) next() (byte, error) {
	if s.pos == s.n {
		n, err := io.ReadAtLeast(s.r, s.buf[:], 1)
		if err != nil {
			return 0, err
		}
		s.pos, s.n = 0, n
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}
