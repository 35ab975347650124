// Package timex provides a Duration that unmarshals from JSON either as a
// Go duration string ("72h", "30s") or as integer nanoseconds. It is used
// by configuration DTOs.
package timex

import (
	"encoding/json"
	"fmt"
	"time"
)

type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
	return nil
}
