package rpcsource

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// The legacy server encodes an empty value of any type as JSON false.

const dateLayout = "2006-01-02"

func isEmpty(b []byte) bool {
	b = bytes.TrimSpace(b)
	return bytes.Equal(b, []byte("false")) || bytes.Equal(b, []byte("null"))
}

// odooInt is an integer that may arrive as false
type odooInt int64

func (v *odooInt) UnmarshalJSON(b []byte) error {
	if isEmpty(b) {
		*v = 0
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode integer: %w", err)
	}
	*v = odooInt(n)
	return nil
}

// odooString is a string that may arrive as false
type odooString string

func (v *odooString) UnmarshalJSON(b []byte) error {
	if isEmpty(b) {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode string: %w", err)
	}
	*v = odooString(s)
	return nil
}

// odooDate is a YYYY-MM-DD date that may arrive as false
type odooDate struct {
	time.Time
}

func (v *odooDate) UnmarshalJSON(b []byte) error {
	if isEmpty(b) {
		v.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("decode date %q: %w", s, err)
	}
	v.Time = t
	return nil
}

// many2one is a relational reference encoded as [id, "display name"] or false
type many2one struct {
	ID   int64
	Name string
}

func (v *many2one) UnmarshalJSON(b []byte) error {
	*v = many2one{}
	if isEmpty(b) {
		return nil
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("decode many2one: %w", err)
	}
	if len(pair) == 0 {
		return nil
	}
	if err := json.Unmarshal(pair[0], &v.ID); err != nil {
		return fmt.Errorf("decode many2one id: %w", err)
	}
	if len(pair) > 1 {
		if err := json.Unmarshal(pair[1], &v.Name); err != nil {
			return fmt.Errorf("decode many2one name: %w", err)
		}
	}
	return nil
}

// odooBinary is base64 file content that may arrive as false
type odooBinary []byte

func (v *odooBinary) UnmarshalJSON(b []byte) error {
	if isEmpty(b) {
		*v = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode binary: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("decode binary: %w", err)
	}
	*v = data
	return nil
}

// odooDecimal is a float field that may arrive as false
type odooDecimal struct {
	decimal.Decimal
}

func (v *odooDecimal) UnmarshalJSON(b []byte) error {
	if isEmpty(b) {
		v.Decimal = decimal.Zero
		return nil
	}
	return v.Decimal.UnmarshalJSON(b)
}
