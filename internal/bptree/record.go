// internal/bptree/record.go
package bptree

// DataType tags the kind of value a Record holds.
type DataType uint8

const (
	TypeByte DataType = iota
	TypeInt
	TypeFloat
	TypeBlob
)

// Record is the tagged value the tree maps a key to. Exactly one of the
// fields is meaningful, selected by Type. The engine never interprets the
// payload of a TypeBlob record; it only ever hands the Blob bytes to the
// release hook at delete or purge time.
type Record struct {
	Type  DataType
	Byte  byte
	Int   int32
	Float float32
	Blob  []byte
}

// NewByteRecord creates a Record holding a single byte.
func NewByteRecord(v byte) *Record {
	return &Record{Type: TypeByte, Byte: v}
}

// NewIntRecord creates a Record holding a 32-bit signed integer.
func NewIntRecord(v int32) *Record {
	return &Record{Type: TypeInt, Int: v}
}

// NewFloatRecord creates a Record holding a 32-bit float.
func NewFloatRecord(v float32) *Record {
	return &Record{Type: TypeFloat, Float: v}
}

// NewBlobRecord creates a Record holding an opaque byte payload. The
// release hook, if installed, receives exactly this slice when the record
// is freed.
func NewBlobRecord(data []byte) *Record {
	return &Record{Type: TypeBlob, Blob: data}
}

// ReleaseHook is invoked exactly once on the payload of a blob-typed
// Record at the moment that record is freed (delete or purge). It is
// never called for non-blob records.
type ReleaseHook func(blob []byte)
