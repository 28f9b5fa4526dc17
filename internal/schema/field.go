package schema

// MaxNameLength bounds a column name's on-disk storage, per spec §3.
const MaxNameLength = 32

// Field describes one column: its type, its position in the fields array,
// and — for non-primary fields — its byte placement inside a record.
type Field struct {
	Primary bool
	Name    string
	Type    Type
	Layout  Layout
}

// Read decodes this field's literal out of rec, dispatching on Type.
func (f Field) Read(rec []byte) Literal {
	buf := rec[f.Layout.Offset : f.Layout.Offset+f.Layout.Size.Raw]
	switch f.Type.Tag {
	case TypeUint:
		return Uint(nativeUint64(buf))
	case TypeInt:
		return Int(int64(nativeUint64(buf)))
	case TypeFloat:
		return Float(nativeFloat64(buf))
	case TypeString:
		n := nativeUint64(buf[:8])
		return String(string(buf[8 : 8+n]))
	default:
		panic("schema: unknown type tag in Field.Read")
	}
}

// Write encodes lit into rec at this field's layout.
func (f Field) Write(lit Literal, rec []byte) {
	switch f.Type.Tag {
	case TypeUint:
		putNativeUint64(rec[f.Layout.Offset:f.Layout.Offset+8], lit.U)
	case TypeInt:
		putNativeUint64(rec[f.Layout.Offset:f.Layout.Offset+8], uint64(lit.I))
	case TypeFloat:
		putNativeFloat64(rec[f.Layout.Offset:f.Layout.Offset+8], lit.F)
	case TypeString:
		base := f.Layout.Offset
		data := []byte(lit.S)
		putNativeUint64(rec[base:base+8], uint64(len(data)))
		copy(rec[base+8:base+8+uint64(len(data))], data)
	default:
		panic("schema: unknown type tag in Field.Write")
	}
}
