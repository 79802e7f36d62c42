package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Duration is the dynamic duration representation carried by video
// records: either a numeric seconds count or a "MM:SS"/"HH:MM:SS"
// timecode. All comparisons go through Seconds so no caller branches on
// the encoding.
type Duration struct {
	raw string
}

func Seconds(n int) Duration {
	return Duration{raw: strconv.Itoa(n)}
}

func Timecode(s string) Duration {
	return Duration{raw: s}
}

func (d Duration) String() string {
	return d.raw
}

func (d Duration) IsZero() bool {
	return d.raw == ""
}

// Seconds normalizes both encodings to a seconds value. Unparsable
// durations normalize to 0 so they sort last under duration-descending.
func (d Duration) Seconds() int {
	s := strings.TrimSpace(d.raw)
	if s == "" {
		return 0
	}

	if !strings.Contains(s, ":") {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || n < 0 {
			return 0
		}
		return int(n)
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// Timecode renders the duration as MM:SS (or HH:MM:SS past an hour),
// the format the admin list displays.
func (d Duration) Timecode() string {
	secs := d.Seconds()
	if secs >= 3600 {
		return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Value stores the raw encoding as TEXT.
func (d Duration) Value() (driver.Value, error) {
	if d.raw == "" {
		return nil, nil
	}
	return d.raw, nil
}

func (d *Duration) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Duration{}
	case string:
		*d = Duration{raw: v}
	case []byte:
		*d = Duration{raw: string(v)}
	case int64:
		*d = Seconds(int(v))
	case float64:
		*d = Seconds(int(v))
	default:
		return fmt.Errorf("cannot scan %T into Duration", src)
	}
	return nil
}

// MarshalJSON preserves the stored encoding: numeric values stay
// numbers, timecodes stay strings.
func (d Duration) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(d.raw)
	if s == "" {
		return []byte("null"), nil
	}
	if !strings.Contains(s, ":") {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return []byte(s), nil
		}
	}
	return json.Marshal(s)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var asNumber float64
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*d = Seconds(int(asNumber))
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*d = Timecode(asString)
		return nil
	}
	if string(data) == "null" {
		*d = Duration{}
		return nil
	}
	return fmt.Errorf("invalid duration: %s", string(data))
}
