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
	"github.com/shopspring/decimal"
)

type Decimal = decimal.Decimal

func DecimalFromUint(u *Uint) Decimal {
	return decimal.NewFromBigInt(u.u.ToBig(), 0)
}

func DecimalFromInt(i *Int) Decimal {
	d := DecimalFromUint(i.U)
	if i.IsNegative() {
		return d.Neg()
	}
	return d
}

// DecimalFromFixed returns v scaled down by the given power of ten,
// e.g. a price with 6 decimals becomes its human readable value.
func DecimalFromFixed(v int64, decimals int32) Decimal {
	return decimal.New(v, -decimals)
}
