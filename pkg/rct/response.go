package rct

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Read failure causes carried by invalid responses.
var (
	ErrReadTimeout    = errors.New("register read timed out")
	ErrCRCMismatch    = errors.New("register read failed CRC check")
	ErrDecodeFailed   = errors.New("register payload could not be decoded")
	ErrDeviceRejected = errors.New("device rejected register read")
)

// ResponseValue is the decoded payload of a successful register read.
// The set of implementations is closed: NumberValue, StringValue,
// BytesValue and StructValue.
type ResponseValue interface {
	responseValue()
}

// NumberValue carries every numeric register, integer-valued ones included.
type NumberValue float64

// StringValue carries text registers such as serial numbers.
type StringValue string

// BytesValue carries raw payloads the decoder leaves untouched.
type BytesValue []byte

// StructValue carries composite payloads such as logged time series rows.
type StructValue []Field

type Field struct {
	Name  string
	Value float64
}

func (NumberValue) responseValue() {}
func (StringValue) responseValue() {}
func (BytesValue) responseValue()  {}
func (StructValue) responseValue() {}

func (v BytesValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(v))
}

func (v StructValue) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, len(v))
	for _, f := range v {
		m[f.Name] = f.Value
	}
	return json.Marshal(m)
}

// Response is one cached outcome of a register read attempt. A response
// either carries a decoded Value or a non-nil Cause, never both.
type Response struct {
	ObjectID uint32
	Time     time.Time
	Value    ResponseValue
	Cause    error
}

// NewValidResponse wraps a decoded value read at the given time.
func NewValidResponse(id uint32, value ResponseValue, at time.Time) *Response {
	return &Response{ObjectID: id, Time: at, Value: value}
}

// NewInvalidResponse records a failed read attempt and its cause.
func NewInvalidResponse(id uint32, cause error, at time.Time) *Response {
	if cause == nil {
		cause = ErrDecodeFailed
	}
	return &Response{ObjectID: id, Time: at, Cause: cause}
}

// Valid reports whether the response carries a usable decoded value.
func (r *Response) Valid() bool {
	return r != nil && r.Cause == nil && r.Value != nil
}

// ValueOr returns the decoded value of a valid response, or def for
// nil or invalid responses.
func ValueOr(r *Response, def ResponseValue) ResponseValue {
	if r.Valid() {
		return r.Value
	}
	return def
}

// MarshalJSON renders a response as a plain record so entity attribute
// payloads stay readable on the wire.
func (r *Response) MarshalJSON() ([]byte, error) {
	type record struct {
		ObjectID string        `json:"object_id"`
		Time     time.Time     `json:"time"`
		Value    ResponseValue `json:"value,omitempty"`
		Cause    string        `json:"cause,omitempty"`
	}
	rec := record{
		ObjectID: fmt.Sprintf("0x%08X", r.ObjectID),
		Time:     r.Time,
		Value:    r.Value,
	}
	if r.Cause != nil {
		rec.Cause = r.Cause.Error()
	}
	return json.Marshal(rec)
}
