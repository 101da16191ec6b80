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

package amm

import (
	"errors"
	"fmt"
)

// ErrMathError is wrapped by every arithmetic failure, the enclosing update
// must be discarded when it is returned.
var ErrMathError = errors.New("math error")

var (
	ErrDivisionByZero       = fmt.Errorf("%w: division by zero", ErrMathError)
	ErrOverflow             = fmt.Errorf("%w: overflow", ErrMathError)
	ErrUnderflow            = fmt.Errorf("%w: underflow", ErrMathError)
	ErrNonPositivePrice     = fmt.Errorf("%w: price must be positive", ErrMathError)
	ErrInsufficientReserves = fmt.Errorf("%w: insufficient reserves", ErrMathError)

	ErrInvalidDirection = errors.New("invalid position direction")
)
