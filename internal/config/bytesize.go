package config

import (
	"encoding/json"
	"fmt"

	"github.com/docker/go-units"
)

// ByteSize is an int64 byte count that unmarshals from either a JSON number
// or a human-readable string such as "10MiB" or "512kb".
type ByteSize int64

func (b *ByteSize) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*b = ByteSize(v)
		return nil
	case string:
		n, err := units.RAMInBytes(v)
		if err != nil {
			return fmt.Errorf("invalid byte size %q: %w", v, err)
		}
		*b = ByteSize(n)
		return nil
	default:
		return fmt.Errorf("byte size must be a number or string, got %T", raw)
	}
}

func (b ByteSize) MarshalJSON() ([]byte, error) {
	return json.Marshal(units.BytesSize(float64(b)))
}

// Int64 returns the size as a plain int64.
func (b ByteSize) Int64() int64 {
	return int64(b)
}
