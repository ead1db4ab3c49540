package models

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// Field is one named value in a Record
type Field struct {
	Key   string
	Value interface{}
}

// Record is an ordered set of named values. Every shaped tool result is a
// Record so JSON and Markdown output keep a stable field order. Title is
// rendered as a heading in Markdown and omitted from JSON.
type Record struct {
	Title  string
	Fields []Field
}

// NewRecord returns an empty record with the given title
func NewRecord(title string) *Record {
	return &Record{Title: title}
}

// Set adds key or replaces its value in place, returning r for chaining
func (r *Record) Set(key string, value interface{}) *Record {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return r
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
	return r
}

// Get returns the value stored under key
func (r Record) Get(key string) (interface{}, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the field names in order
func (r Record) Keys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields
func (r Record) Len() int { return len(r.Fields) }

// Select returns a copy holding only the named keys, in r's order
func (r Record) Select(keys []string) Record {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	out := Record{Title: r.Title}
	for _, f := range r.Fields {
		if want[f.Key] {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// MarshalJSON writes the fields as a JSON object in insertion order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Money is a currency amount. Markdown shows 2 decimals; JSON keeps the
// full value.
type Money float64

// MarshalJSON emits the unrounded amount, null when not finite
func (m Money) MarshalJSON() ([]byte, error) {
	return finiteJSON(float64(m))
}

// Change is a signed currency movement, shown with an explicit + when positive
type Change float64

// MarshalJSON implements json.Marshaler
func (c Change) MarshalJSON() ([]byte, error) {
	return finiteJSON(float64(c))
}

func finiteJSON(v float64) ([]byte, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Percent is a value already in percent units (1.5 = 1.5%)
type Percent float64

// Fraction is a 0..1 ratio rendered as a percentage (0.25 = 25%)
type Fraction float64

// Count is an integer quantity rendered with thousands separators
type Count int64

// Date is a calendar date; JSON form is YYYY-MM-DD, zero is null
type Date time.Time

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	t := time.Time(d)
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format("2006-01-02"))
}

// Timestamp is a point in time; JSON form is RFC3339, zero is null
type Timestamp time.Time

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(tt.Format(time.RFC3339))
}

// Optional value helpers. Each returns an untyped nil for absent input so the
// renderer shows N/A and JSON shows null.

func OptMoney(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return Money(*p)
}

func OptChange(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return Change(*p)
}

func OptPercent(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return Percent(*p)
}

func OptFraction(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return Fraction(*p)
}

func OptNumber(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func OptCount(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return Count(*p)
}

func OptString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func OptDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return Date(t)
}

func OptTimestamp(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return Timestamp(t)
}
