// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package num

import (
	"fmt"
	"math"
	"strings"
)

// Int a wrapper to a signed big int.
type Int struct {
	// The unsigned version of the integer
	U *Uint
	// The sign of the integer, true = positive, false = negative
	s bool
}

// NewInt creates a new Int with the value of the
// int64 passed as a parameter.
func NewInt(val int64) *Int {
	if val < 0 {
		// -MinInt64 overflows int64 but not uint64
		return &Int{U: NewUint(uint64(-(val + 1)) + 1), s: false}
	}
	return &Int{U: NewUint(uint64(val)), s: true}
}

// IntZero returns a new Int set to 0.
func IntZero() *Int {
	return NewInt(0)
}

// IntFromUint ...
func IntFromUint(u *Uint, s bool) *Int {
	return (&Int{U: u.Clone(), s: s}).normalise()
}

// IntFromString creates a new Int from a base 10 string with an optional
// leading sign. Returns true if the string is invalid or overflows.
func IntFromString(str string, base int) (*Int, bool) {
	positive := true
	switch {
	case strings.HasPrefix(str, "-"):
		positive = false
		str = str[1:]
	case strings.HasPrefix(str, "+"):
		str = str[1:]
	}
	u, overflow := UintFromString(str, base)
	if overflow {
		return IntZero(), true
	}
	return IntFromUint(u, positive), false
}

// MustIntFromString is IntFromString for constants and tests.
func MustIntFromString(str string, base int) *Int {
	i, overflow := IntFromString(str, base)
	if overflow {
		panic(fmt.Sprintf("invalid int string: %s", str))
	}
	return i
}

// zero is always stored as positive so equality checks stay simple.
func (i *Int) normalise() *Int {
	if i.U.IsZero() {
		i.s = true
	}
	return i
}

// IsNegative tests if the stored value is negative
// true if < 0
// false if >= 0.
func (i Int) IsNegative() bool {
	return !i.s && !i.U.IsZero()
}

// IsPositive tests if the stored value is positive
// true if > 0
// false if <= 0.
func (i Int) IsPositive() bool {
	return i.s && !i.U.IsZero()
}

// IsZero tests if the stored value is zero
// true if == 0.
func (i Int) IsZero() bool {
	return i.U.IsZero()
}

// Sign returns -1, 0 or 1.
func (i Int) Sign() int {
	switch {
	case i.IsZero():
		return 0
	case i.s:
		return 1
	}
	return -1
}

// FlipSign changes the sign of the number from - to + and back again.
func (i *Int) FlipSign() *Int {
	i.s = !i.s
	return i.normalise()
}

// Clone creates a copy of the object so nothing is shared.
func (i Int) Clone() *Int {
	return &Int{U: i.U.Clone(), s: i.s}
}

// Abs returns a positive copy of i.
func (i Int) Abs() *Int {
	return &Int{U: i.U.Clone(), s: true}
}

// Copy sets i to the value of a.
func (i *Int) Copy(a *Int) *Int {
	i.U = a.U.Clone()
	i.s = a.s
	return i
}

// GT returns if i > o.
func (i Int) GT(o *Int) bool {
	return i.cmp(o) > 0
}

// GTE returns if i >= o.
func (i Int) GTE(o *Int) bool {
	return i.cmp(o) >= 0
}

// LT returns if i < o.
func (i Int) LT(o *Int) bool {
	return i.cmp(o) < 0
}

// LTE returns if i <= o.
func (i Int) LTE(o *Int) bool {
	return i.cmp(o) <= 0
}

// EQ returns if i == o.
func (i Int) EQ(o *Int) bool {
	return i.cmp(o) == 0
}

func (i Int) cmp(o *Int) int {
	si, so := i.Sign(), o.Sign()
	if si != so {
		if si < so {
			return -1
		}
		return 1
	}
	var c int
	switch {
	case i.U.GT(o.U):
		c = 1
	case i.U.LT(o.U):
		c = -1
	}
	if si < 0 {
		return -c
	}
	return c
}

// Add will add the passed in value to the base value
// i = i + a.
func (i *Int) Add(a *Int) *Int {
	// same sign, magnitudes simply add up
	if i.s == a.s {
		i.U.Add(i.U, a.U)
		return i.normalise()
	}
	// opposite signs, the larger magnitude keeps its sign
	if i.U.GTE(a.U) {
		i.U.Sub(i.U, a.U)
		return i.normalise()
	}
	i.U.Sub(a.U, i.U)
	i.s = a.s
	return i.normalise()
}

// AddOverflow is Add returning true if the magnitude overflowed 256 bits.
func (i *Int) AddOverflow(a *Int) (*Int, bool) {
	if i.s == a.s {
		_, overflow := i.U.AddOverflow(i.U, a.U)
		return i.normalise(), overflow
	}
	return i.Add(a), false
}

// Sub will subtract the passed in value from the base value
// i = i - a.
func (i *Int) Sub(a *Int) *Int {
	return i.Add(a.Clone().FlipSign())
}

// AddSum adds all of the parameters to i
// i = i + a + b + c.
func (i *Int) AddSum(vals ...*Int) *Int {
	for _, x := range vals {
		i.Add(x)
	}
	return i
}

// SubSum subtracts all of the parameters from i
// i = i - a - b - c.
func (i *Int) SubSum(vals ...*Int) *Int {
	for _, x := range vals {
		i.Sub(x)
	}
	return i
}

// Mul will multiply the passed in value to the base value
// i = i * m.
func (i *Int) Mul(m *Int) *Int {
	i.U.Mul(i.U, m.U)
	i.s = i.s == m.s
	return i.normalise()
}

// MulOverflow is Mul returning true if the magnitude overflowed 256 bits.
func (i *Int) MulOverflow(m *Int) (*Int, bool) {
	_, overflow := i.U.MulOverflow(i.U, m.U)
	i.s = i.s == m.s
	return i.normalise(), overflow
}

// Div will divide the passed in value to the base value
// truncating toward zero, i = i / m.
// a zero divisor sets i to 0, callers must check m.
func (i *Int) Div(m *Int) *Int {
	i.U.Div(i.U, m.U)
	i.s = i.s == m.s
	return i.normalise()
}

// Int64 returns the value as an int64, the result is undefined
// if the value does not fit.
func (i Int) Int64() int64 {
	v, _ := i.Int64WithOverflow()
	return v
}

// Int64WithOverflow returns the value as an int64 and true
// if it does not fit in one.
func (i Int) Int64WithOverflow() (int64, bool) {
	u, overflow := i.U.Uint64WithOverflow()
	if overflow {
		return 0, true
	}
	if i.s {
		if u > math.MaxInt64 {
			return 0, true
		}
		return int64(u), false
	}
	if u > uint64(math.MaxInt64)+1 {
		return 0, true
	}
	return -int64(u-1) - 1, false
}

// String returns a string version of the number.
func (i Int) String() string {
	if i.IsNegative() {
		return "-" + i.U.String()
	}
	return i.U.String()
}

// MarshalText encodes the value as a signed base 10 string.
func (i Int) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText decodes a signed base 10 string.
func (i *Int) UnmarshalText(text []byte) error {
	v, overflow := IntFromString(string(text), 10)
	if overflow {
		return fmt.Errorf("invalid int value: %q", string(text))
	}
	*i = *v
	return nil
}
