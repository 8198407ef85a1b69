package oxide

// EnumVariant is one value of a C-style enum: a fixed member of a fixed,
// finite set, distinguished by its declaration index for ordering and
// comparison.
type EnumVariant struct {
	EnumName    string
	VariantName string
	Index       int
}

func (e *EnumVariant) String() string { return e.EnumName + "::" + e.VariantName }
func (e *EnumVariant) Type() string   { return e.EnumName }
func (*EnumVariant) oxideValue()      {}
