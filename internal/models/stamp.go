package models

import (
	"encoding/json"
	"time"
)

// StampLayout is the persisted timestamp format. Precision is whole seconds.
const StampLayout = "2006-01-02 15:04:05"

// Stamp is an instant as stored in the collections. A stored value that could not
// be parsed is kept as a corrupt stamp so a bad record never aborts a load.
type Stamp struct {
	Time    time.Time
	corrupt bool
	raw     string
}

func NewStamp(t time.Time) *Stamp {
	return &Stamp{Time: t}
}

// ParseStamp parses v in the local time zone. Unparseable input yields a corrupt stamp.
func ParseStamp(v string) *Stamp {
	t, err := time.ParseInLocation(StampLayout, v, time.Local)
	if err != nil {
		return &Stamp{corrupt: true, raw: v}
	}
	return &Stamp{Time: t}
}

// Corrupt reports whether the stored value could not be parsed.
func (s Stamp) Corrupt() bool {
	return s.corrupt
}

// IsZero reports whether s carries neither a time nor a corrupt value.
func (s Stamp) IsZero() bool {
	return !s.corrupt && s.Time.IsZero()
}

func (s Stamp) String() string {
	if s.corrupt {
		return s.raw
	}
	return s.Time.Format(StampLayout)
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Stamp) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		// numbers, objects and other junk are kept as corrupt values
		*s = Stamp{corrupt: true, raw: string(data)}
		return nil
	}
	if v == "" {
		*s = Stamp{}
		return nil
	}
	*s = *ParseStamp(v)
	return nil
}
