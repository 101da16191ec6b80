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

package types

import (
	"fmt"
	"strings"
)

// OraclePriceData is a single oracle reading. It is consumed by the TWAP
// tracker and never stored as such.
type OraclePriceData struct {
	Price                           int64  `json:"price"`
	Confidence                      uint64 `json:"confidence"`
	Delay                           int64  `json:"delay"`
	HasSufficientNumberOfDataPoints bool   `json:"has_sufficient_number_of_data_points"`
}

// IsValid reports whether the sample can be trusted under the caller's
// staleness policy, the trackers never apply it themselves.
func (o OraclePriceData) IsValid(maxDelay int64) bool {
	return o.Price > 0 && o.Delay <= maxDelay && o.HasSufficientNumberOfDataPoints
}

func (o OraclePriceData) String() string {
	return fmt.Sprintf(
		"price(%d) confidence(%d) delay(%d) sufficientDataPoints(%v)",
		o.Price, o.Confidence, o.Delay, o.HasSufficientNumberOfDataPoints,
	)
}

type PositionDirection int32

const (
	// PositionDirectionUnspecified no direction was given with the trade.
	PositionDirectionUnspecified PositionDirection = 0
	// PositionDirectionLong the trade was a buy.
	PositionDirectionLong PositionDirection = 1
	// PositionDirectionShort the trade was a sell.
	PositionDirectionShort PositionDirection = 2
)

var positionDirectionNames = map[PositionDirection]string{
	PositionDirectionUnspecified: "unspecified",
	PositionDirectionLong:        "long",
	PositionDirectionShort:       "short",
}

func (d PositionDirection) String() string {
	if n, ok := positionDirectionNames[d]; ok {
		return n
	}
	return fmt.Sprintf("PositionDirection(%d)", int32(d))
}

func (d PositionDirection) IsValid() bool {
	_, ok := positionDirectionNames[d]
	return ok
}

func (d PositionDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *PositionDirection) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if s == "" {
		*d = PositionDirectionUnspecified
		return nil
	}
	for k, v := range positionDirectionNames {
		if v == s {
			*d = k
			return nil
		}
	}
	return fmt.Errorf("invalid position direction: %q", string(text))
}
