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

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type Integer interface {
	Signed | Unsigned
}

// MaxV generic max of integer values.
func MaxV[T Integer](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// MinV generic min of integer values.
func MinV[T Integer](a, b T) T {
	if a > b {
		return b
	}
	return a
}

// AbsV generic absolute value of signed integers.
func AbsV[T Signed](a T) T {
	var zero T
	if a < zero {
		return -a
	}
	return a
}

// SignV returns -1, 0 or 1 depending on the sign of a.
func SignV[T Signed](a T) T {
	var zero T
	switch {
	case a > zero:
		return 1
	case a < zero:
		return -1
	}
	return zero
}
