package types

// OptionType is the derived type of an OptionValue. Every option in the
// Registry (internal/core) is typed exactly once across the whole solve.
type OptionType string

const (
	OptionTypeBool    OptionType = "bool"
	OptionTypeInt     OptionType = "int"
	OptionTypeFloat   OptionType = "float"
	OptionTypeStr     OptionType = "str"
	OptionTypeVersion OptionType = "version"
)

// CmpOp is the operator of a Cmp comparison node.
type CmpOp string

const (
	CmpLt CmpOp = "<"
	CmpLe CmpOp = "<="
	CmpEq CmpOp = "="
	CmpNe CmpOp = "!="
	CmpGe CmpOp = ">="
	CmpGt CmpOp = ">"
)

// Ordered reports whether op requires an orderable (non-Bool) type.
func (op CmpOp) Ordered() bool {
	switch op {
	case CmpLt, CmpLe, CmpGe, CmpGt:
		return true
	default:
		return false
	}
}
