package types

import "strings"

// Signature is the type of a callable: a result and ordered parameters.
// Signatures are shared between the declaration pass and every call site,
// so they must not be mutated after creation.
type Signature struct {
	Result Type
	Params []Type
}

// NewSignature copies params into a fresh signature
func NewSignature(result Type, params ...Type) *Signature {
	return &Signature{
		Result: result,
		Params: append([]Type(nil), params...),
	}
}

func (s *Signature) String() string {
	var sb strings.Builder
	sb.WriteString(s.Result.String())
	sb.WriteString(" (")
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	return sb.String()
}
