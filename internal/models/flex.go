package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexInt decodes from a JSON number or a numeric string ("5" or 5)
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	var n json.Number
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n = json.Number(strings.TrimSpace(s))
	} else {
		n = json.Number(data)
	}

	v, err := strconv.Atoi(n.String())
	if err != nil {
		return fmt.Errorf("invalid integer %q", n.String())
	}
	*f = FlexInt(v)
	return nil
}

// FlexFloat decodes from a JSON number or a numeric string ("9.5" or 9.5).
// Decoding never fails: Present records that the field was supplied and
// Valid that it held a number.
type FlexFloat struct {
	Value   float64
	Valid   bool
	Present bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexFloat{}
		return nil
	}
	*f = FlexFloat{Present: true}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.Value = v
	f.Valid = true
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// NewFlexFloat returns a valid FlexFloat holding v
func NewFlexFloat(v float64) FlexFloat {
	return FlexFloat{Value: v, Valid: true, Present: true}
}
