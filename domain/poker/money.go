package poker

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
)

// Money is an exact, non-negative amount of chips.
type Money struct {
	v uint256.Int
}

// NewMoney returns n chips.
func NewMoney(n uint64) Money {
	var m Money
	m.v.SetUint64(n)
	return m
}

// ParseMoney reads the canonical decimal form produced by String.
func ParseMoney(s string) (Money, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{v: *v}, nil
}

// MoneyFromBytes decodes the big-endian form produced by Bytes.
func MoneyFromBytes(b []byte) (Money, error) {
	if len(b) > 32 {
		return Money{}, fmt.Errorf("amount is %d bytes long", len(b))
	}
	var m Money
	m.v.SetBytes(b)
	return m, nil
}

// Add returns m+o. Amounts are bounded by the players' funds, which keeps
// the sum far away from the 256 bit limit; an overflowing sum saturates.
func (m Money) Add(o Money) Money {
	var z uint256.Int
	if _, overflow := z.AddOverflow(&m.v, &o.v); overflow {
		z.SetAllOne()
	}
	return Money{v: z}
}

// Sub returns m-o. Callers must make sure o <= m: chips never go negative,
// so an underflow saturates at zero instead of wrapping around.
func (m Money) Sub(o Money) Money {
	var z uint256.Int
	if _, underflow := z.SubOverflow(&m.v, &o.v); underflow {
		return Money{}
	}
	return Money{v: z}
}

// Cmp returns -1, 0 or +1 as m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int {
	return m.v.Cmp(&o.v)
}

func (m Money) Equal(o Money) bool   { return m.v.Eq(&o.v) }
func (m Money) Less(o Money) bool    { return m.v.Lt(&o.v) }
func (m Money) Greater(o Money) bool { return m.v.Gt(&o.v) }
func (m Money) IsZero() bool         { return m.v.IsZero() }

// Halve splits m into two halves; rem is 1 when m is odd.
func (m Money) Halve() (half Money, rem Money) {
	var h, r uint256.Int
	two := uint256.NewInt(2)
	h.Div(&m.v, two)
	r.Mod(&m.v, two)
	return Money{v: h}, Money{v: r}
}

// Bytes returns the minimal big-endian encoding of m, empty for zero.
func (m Money) Bytes() []byte {
	return m.v.Bytes()
}

// String returns the canonical decimal form.
func (m Money) String() string {
	return m.v.Dec()
}

// MarshalJSON encodes the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
