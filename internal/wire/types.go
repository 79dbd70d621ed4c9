// Package wire implements the Infinite Flight Connect v2 binary protocol:
// request framing, response framing, and the six scalar wire types.
//
// The codec is pure and side-effect-free, per the component design it is
// grounded on: it never blocks and never performs I/O. Every multi-byte
// field on the wire is little-endian, the opposite convention of the XDR
// encoding the teacher codebase uses for NFS/SMB (big-endian, 4-byte
// padded) — see DESIGN.md for why this package hand-rolls its own
// little-endian primitives instead of reusing an XDR library.
package wire

import "fmt"

// Type enumerates the six scalar wire types a manifest entry can declare.
type Type int32

const (
	Boolean Type = 0
	Integer Type = 1
	Float   Type = 2
	Double  Type = 3
	String  Type = 4
	Long    Type = 5

	// Invokable is the sentinel manifest type value (outside 0..5) that
	// marks an entry as an invokable command rather than a readable/
	// writable scalar. Modeled as a distinct constant rather than an
	// out-of-band magic number compared inline at call sites (spec §9,
	// "Invoke type sentinel").
	Invokable Type = -1

	// ManifestCommandID is the sentinel command id (-1) that requests the
	// manifest instead of addressing a catalog entry.
	ManifestCommandID int32 = -1
)

// Port is the fixed TCP port the command, poll and manifest connections
// all dial (§4.3, §6).
const Port = 10112

func (t Type) String() string {
	switch t {
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Double:
		return "Double"
	case String:
		return "String"
	case Long:
		return "Long"
	case Invokable:
		return "Invokable"
	default:
		return fmt.Sprintf("Type(%d)", int32(t))
	}
}

// IsScalar reports whether t is one of the six readable/writable types
// (as opposed to Invokable).
func (t Type) IsScalar() bool {
	return t >= Boolean && t <= Long
}

// ParseType parses the integer type column of a manifest line. Any value
// outside 0..5 is treated as Invokable, matching the wire convention that
// only a single sentinel value (conventionally -1) marks a command, but
// any unrecognized code degrades safely to "invokable" rather than
// panicking on an unanticipated peer.
func ParseType(n int64) Type {
	switch n {
	case 0:
		return Boolean
	case 1:
		return Integer
	case 2:
		return Float
	case 3:
		return Double
	case 4:
		return String
	case 5:
		return Long
	default:
		return Invokable
	}
}

// Value is a tagged union over the six scalar wire types. It is returned
// by DecodeScalar and accepted by EncodeWrite; constructing one directly with a
// mismatched Type/accessor pair is a programmer error, not a runtime one
// -- callers go through the Bool/Int32/... constructors below.
type Value struct {
	typ  Type
	b    bool
	i32  int32
	f32  float32
	f64  float64
	s    string
	i64  int64
}

func BoolValue(v bool) Value       { return Value{typ: Boolean, b: v} }
func IntValue(v int32) Value       { return Value{typ: Integer, i32: v} }
func FloatValue(v float32) Value   { return Value{typ: Float, f32: v} }
func DoubleValue(v float64) Value  { return Value{typ: Double, f64: v} }
func StringValue(v string) Value   { return Value{typ: String, s: v} }
func LongValue(v int64) Value      { return Value{typ: Long, i64: v} }

// Type reports the scalar wire type this value was constructed with.
func (v Value) Type() Type { return v.typ }

func (v Value) Bool() bool       { return v.b }
func (v Value) Int32() int32     { return v.i32 }
func (v Value) Float32() float32 { return v.f32 }
func (v Value) Float64() float64 { return v.f64 }
func (v Value) String() string {
	if v.typ == String {
		return v.s
	}
	return fmt.Sprintf("%v", v.Any())
}
func (v Value) Int64() int64 { return v.i64 }

// Any unwraps the value into the matching Go type (bool, int32, float32,
// float64, string or int64), for callers that want to type-switch rather
// than know the wire type ahead of time.
func (v Value) Any() any {
	switch v.typ {
	case Boolean:
		return v.b
	case Integer:
		return v.i32
	case Float:
		return v.f32
	case Double:
		return v.f64
	case String:
		return v.s
	case Long:
		return v.i64
	default:
		return nil
	}
}

// Arg is a single named string-valued argument to an invoke request.
type Arg struct {
	Name  string
	Value string
}
