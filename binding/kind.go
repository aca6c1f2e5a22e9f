package binding

import "github.com/oomph-ac/motion/enum"

// Kind is the type of value held by an input binding.
type Kind uint8

const (
	KindInteger Kind = iota
	KindFloat
	KindString
)

var kinds = enum.NewTable("EAnimationGraphInputType", func() []enum.Entry[Kind] {
	return []enum.Entry[Kind]{
		{Value: KindInteger, Name: "eAGIT_Integer", Alias: "Integer"},
		{Value: KindFloat, Name: "eAGIT_Float", Alias: "Float"},
		{Value: KindString, Name: "eAGIT_String", Alias: "String"},
	}
})

// Kinds returns the descriptor table of Kind.
func Kinds() *enum.Table[Kind] {
	return kinds
}

// Valid returns true if k is one of the defined kinds.
func (k Kind) Valid() bool {
	return kinds.Known(k)
}

func (k Kind) String() string {
	return kinds.Alias(k)
}

func (k Kind) MarshalText() ([]byte, error) {
	return kinds.MarshalText(k)
}

func (k *Kind) UnmarshalText(text []byte) error {
	return kinds.UnmarshalText(text, k)
}
