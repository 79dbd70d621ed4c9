package wire

import (
	"bytes"
	"encoding/binary"
	"math"
)

// ============================================================================
// Little-endian primitive encoding
// ============================================================================

func writeInt32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func writeUint8(buf *bytes.Buffer, v uint8) {
	buf.WriteByte(v)
}

func writeFloat32(buf *bytes.Buffer, v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	buf.Write(b[:])
}

func writeFloat64(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}

func writeInt64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

// writeString writes an [i32 length][length bytes UTF-8] string, with a
// zero length permitted and round-tripping to an empty string (spec §8,
// "Zero-length strings must round-trip").
func writeString(buf *bytes.Buffer, s string) {
	writeInt32(buf, int32(len(s)))
	buf.WriteString(s)
}

// writeScalar appends the wire encoding of a scalar Value, per the
// payload layout table in the component design (§4.1).
func writeScalar(buf *bytes.Buffer, v Value) {
	switch v.typ {
	case Boolean:
		if v.b {
			writeUint8(buf, 1)
		} else {
			writeUint8(buf, 0)
		}
	case Integer:
		writeInt32(buf, v.i32)
	case Float:
		writeFloat32(buf, v.f32)
	case Double:
		writeFloat64(buf, v.f64)
	case String:
		writeString(buf, v.s)
	case Long:
		writeInt64(buf, v.i64)
	}
}

// ============================================================================
// Request framing (§4.1)
// ============================================================================

const (
	flagRead  = 0
	flagWrite = 1
)

// EncodeRead builds a one-shot read request: [i32 command_id][u8 flag=0].
func EncodeRead(commandID int32) []byte {
	buf := &bytes.Buffer{}
	writeInt32(buf, commandID)
	writeUint8(buf, flagRead)
	return buf.Bytes()
}

// EncodeWrite builds a write request for a scalar manifest entry:
// [i32 command_id][u8 flag=1][value encoded per type].
func EncodeWrite(commandID int32, v Value) []byte {
	buf := &bytes.Buffer{}
	writeInt32(buf, commandID)
	writeUint8(buf, flagWrite)
	writeScalar(buf, v)
	return buf.Bytes()
}

// EncodeInvoke builds an invoke request for a command-typed manifest
// entry: [i32 command_id][u8 flag=1][i32 n_args] then, per arg,
// [i32 name_len][name][i32 value_len][value].
func EncodeInvoke(commandID int32, args []Arg) []byte {
	buf := &bytes.Buffer{}
	writeInt32(buf, commandID)
	writeUint8(buf, flagWrite)
	writeInt32(buf, int32(len(args)))
	for _, a := range args {
		writeString(buf, a.Name)
		writeString(buf, a.Value)
	}
	return buf.Bytes()
}

// EncodeManifestRequest builds the manifest-fetch request:
// [i32 -1][u8 flag=0].
func EncodeManifestRequest() []byte {
	return EncodeRead(ManifestCommandID)
}
