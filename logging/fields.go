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

package logging

import (
	"time"

	"code.vegaprotocol.io/vamm/libs/num"

	"go.uber.org/zap"
)

// String constructs a field with the given key and value.
func String(key, str string) zap.Field {
	return zap.String(key, str)
}

// Strings constructs a field with the given key and values.
func Strings(key string, s []string) zap.Field {
	return zap.Strings(key, s)
}

// Int64 constructs a field with the given key and value.
func Int64(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

// Uint64 constructs a field with the given key and value.
func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// Uint32 constructs a field with the given key and value.
func Uint32(key string, val uint32) zap.Field {
	return zap.Uint32(key, val)
}

// Int constructs a field with the given key and value.
func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// Bool constructs a field with the given key and value.
func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

// Duration constructs a field with the given key and value.
func Duration(key string, value time.Duration) zap.Field {
	return zap.Duration(key, value)
}

// Error constructs a field that lazily stores err.Error() under the key "error".
func Error(err error) zap.Field {
	return zap.Error(err)
}

// BigUint adds a num.Uint field rendered as a base 10 string.
func BigUint(key string, val *num.Uint) zap.Field {
	if val == nil {
		return zap.String(key, "nil")
	}
	return zap.String(key, val.String())
}

// BigInt adds a num.Int field rendered as a base 10 string.
func BigInt(key string, val *num.Int) zap.Field {
	if val == nil {
		return zap.String(key, "nil")
	}
	return zap.String(key, val.String())
}

// Decimal adds a decimal field.
func Decimal(key string, val num.Decimal) zap.Field {
	return zap.String(key, val.String())
}

// MarketID returns a zap field used for logging market IDs.
func MarketID(marketID string) zap.Field {
	return zap.String("market-id", marketID)
}

// Timestamp returns a zap field for a unix timestamp in seconds.
func Timestamp(key string, ts int64) zap.Field {
	return zap.String(key, time.Unix(ts, 0).UTC().Format(time.RFC3339))
}
