package schema

import "fmt"

// Kind tags the concrete type carried by a Literal.
type Kind uint8

const (
	KindUint Kind = iota
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Literal is a typed value produced by the parser or read out of a record.
// It is a closed tagged union over the four field types the engine
// supports; only the field matching Kind is meaningful.
type Literal struct {
	Kind Kind
	U    uint64
	I    int64
	F    float64
	S    string
}

func Uint(v uint64) Literal  { return Literal{Kind: KindUint, U: v} }
func Int(v int64) Literal    { return Literal{Kind: KindInt, I: v} }
func Float(v float64) Literal { return Literal{Kind: KindFloat, F: v} }
func String(v string) Literal { return Literal{Kind: KindString, S: v} }

func (l Literal) String() string {
	switch l.Kind {
	case KindUint:
		return fmt.Sprintf("%d", l.U)
	case KindInt:
		return fmt.Sprintf("%+d", l.I)
	case KindFloat:
		return fmt.Sprintf("%v", l.F)
	case KindString:
		return fmt.Sprintf("%q", l.S)
	default:
		return "<invalid literal>"
	}
}
