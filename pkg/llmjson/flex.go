package llmjson

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexFloat decodes a JSON number or a numeric string such as "8%", "5x" or "₹1,450".
// Anything unparseable decodes to zero with Valid set to false.
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, ok := ParseLooseFloat(s); ok {
			*f = FlexFloat{Value: v, Valid: true}
		}
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	*f = FlexFloat{Value: v, Valid: true}
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// ParseLooseFloat parses numbers decorated with %, x, currency symbols or thousands separators.
func ParseLooseFloat(s string) (float64, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.NewReplacer("%", "", ",", "", "₹", "", "Rs.", "", "Rs", "", "INR", "").Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(strings.TrimSuffix(cleaned, "x"), "X")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
