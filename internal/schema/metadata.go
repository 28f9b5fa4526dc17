package schema

import (
	"encoding/binary"
	"fmt"
	"os"

	"pagedb/internal/pageio"
)

// MaxFields bounds how many columns (including the primary) a table may
// declare, per spec §3.
const MaxFields = 64

// FieldSpec is the (name, type) pair a caller supplies for a non-primary
// column when creating a table.
type FieldSpec struct {
	Name string
	Type Type
}

// Metadata is a table's schema: its B+tree root page, and the ordered list
// of fields with the primary field always at index 0.
type Metadata struct {
	Root   pageio.PageNum
	Fields []Field
}

// New builds a Metadata image. The primary field gets a zero-width layout;
// each data field's offset is the running sum of the aligned sizes of the
// fields written before it.
func New(root pageio.PageNum, primaryName string, dataFields []FieldSpec) (*Metadata, error) {
	if len(dataFields)+1 > MaxFields {
		return nil, fmt.Errorf("schema: %d fields exceeds MaxFields (%d)", len(dataFields)+1, MaxFields)
	}
	if len(primaryName) > MaxNameLength {
		return nil, fmt.Errorf("schema: primary field name %q exceeds MaxNameLength (%d)", primaryName, MaxNameLength)
	}

	fields := make([]Field, 0, len(dataFields)+1)
	fields = append(fields, Field{
		Primary: true,
		Name:    primaryName,
		Type:    UintType(),
	})

	var offset uint64
	for _, spec := range dataFields {
		if len(spec.Name) > MaxNameLength {
			return nil, fmt.Errorf("schema: field name %q exceeds MaxNameLength (%d)", spec.Name, MaxNameLength)
		}
		size := spec.Type.Size()
		fields = append(fields, Field{
			Name:   spec.Name,
			Type:   spec.Type,
			Layout: Layout{Offset: offset, Size: size},
		})
		offset += size.Aligned
	}

	return &Metadata{Root: root, Fields: fields}, nil
}

// Field does a linear search for a field by name.
func (m *Metadata) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Primary returns the primary field (always index 0).
func (m *Metadata) Primary() Field { return m.Fields[0] }

// DataFields returns every non-primary field, in declared order.
func (m *Metadata) DataFields() []Field {
	out := make([]Field, 0, len(m.Fields)-1)
	for _, f := range m.Fields {
		if !f.Primary {
			out = append(out, f)
		}
	}
	return out
}

// EntrySize is the record width: the sum of the aligned sizes of the
// non-primary fields.
func (m *Metadata) EntrySize() Size {
	var s Size
	for _, f := range m.DataFields() {
		s.Raw += f.Layout.Size.Aligned
		s.Aligned += f.Layout.Size.Aligned
	}
	return s
}

// ---- on-disk persistence -------------------------------------------------

// fieldEntrySize is the fixed, portable on-disk width of one Field entry:
// primary(1) + name_len(1) + name(32) + type_tag(1) + type_param(8) +
// layout_offset(8) + layout_size(8) + layout_aligned(8), padded to 8-byte
// alignment. Spec §6 leaves the concrete packing to the implementer.
const fieldEntrySize = 1 + 1 + MaxNameLength + 1 + 8 + 8 + 8 + 8 + 5 // pad to 72
const metadataHeaderSize = 8 + 8                                    // root_page + num_fields
const metadataImageSize = metadataHeaderSize + MaxFields*fieldEntrySize

// Handler owns the metadata file exclusively and keeps the in-memory
// Metadata in sync with the last flush.
type Handler struct {
	file *os.File
	Meta *Metadata
}

// CreateHandler persists a freshly-built Metadata to a new metadata file.
func CreateHandler(file *os.File, meta *Metadata) *Handler {
	return &Handler{file: file, Meta: meta}
}

// OpenHandler reads back a previously-flushed metadata image.
func OpenHandler(file *os.File) (*Handler, error) {
	buf := make([]byte, metadataImageSize)
	if _, err := file.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("schema: read metadata: %w", err)
	}
	meta, err := decodeMetadata(buf)
	if err != nil {
		return nil, err
	}
	return &Handler{file: file, Meta: meta}, nil
}

// Flush writes the whole metadata image and fsyncs, per spec §3's
// lifecycle ("Metadata is... persisted on close").
func (h *Handler) Flush() error {
	buf := encodeMetadata(h.Meta)
	if err := h.file.Truncate(int64(len(buf))); err != nil {
		return fmt.Errorf("schema: truncate metadata: %w", err)
	}
	if _, err := h.file.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("schema: write metadata: %w", err)
	}
	return h.file.Sync()
}

func encodeMetadata(m *Metadata) []byte {
	buf := make([]byte, metadataImageSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(m.Root))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(len(m.Fields)))

	off := metadataHeaderSize
	for _, f := range m.Fields {
		entry := buf[off : off+fieldEntrySize]
		if f.Primary {
			entry[0] = 1
		}
		nameBytes := []byte(f.Name)
		entry[1] = byte(len(nameBytes))
		copy(entry[2:2+MaxNameLength], nameBytes)
		entry[2+MaxNameLength] = byte(f.Type.Tag)
		p := 3 + MaxNameLength
		binary.LittleEndian.PutUint64(entry[p:p+8], f.Type.Param)
		binary.LittleEndian.PutUint64(entry[p+8:p+16], f.Layout.Offset)
		binary.LittleEndian.PutUint64(entry[p+16:p+24], f.Layout.Size.Raw)
		binary.LittleEndian.PutUint64(entry[p+24:p+32], f.Layout.Size.Aligned)
		off += fieldEntrySize
	}
	return buf
}

func decodeMetadata(buf []byte) (*Metadata, error) {
	if len(buf) < metadataImageSize {
		return nil, fmt.Errorf("schema: metadata image too small (%d bytes)", len(buf))
	}
	root := pageio.PageNum(binary.LittleEndian.Uint64(buf[0:8]))
	numFields := int(binary.LittleEndian.Uint64(buf[8:16]))
	if numFields < 0 || numFields > MaxFields {
		return nil, fmt.Errorf("schema: corrupt metadata: num_fields=%d", numFields)
	}

	fields := make([]Field, numFields)
	off := metadataHeaderSize
	for i := 0; i < numFields; i++ {
		entry := buf[off : off+fieldEntrySize]
		f := Field{}
		f.Primary = entry[0] == 1
		nameLen := int(entry[1])
		f.Name = string(entry[2 : 2+nameLen])
		f.Type.Tag = TypeTag(entry[2+MaxNameLength])
		p := 3 + MaxNameLength
		f.Type.Param = binary.LittleEndian.Uint64(entry[p : p+8])
		f.Layout.Offset = binary.LittleEndian.Uint64(entry[p+8 : p+16])
		f.Layout.Size.Raw = binary.LittleEndian.Uint64(entry[p+16 : p+24])
		f.Layout.Size.Aligned = binary.LittleEndian.Uint64(entry[p+24 : p+32])
		fields[i] = f
		off += fieldEntrySize
	}
	return &Metadata{Root: root, Fields: fields}, nil
}
