package types

import "fmt"

// OptionValue is a tagged union over Bool, Int, Float, Str and Version
// payloads (spec §3). Exactly one field is meaningful; Type says which.
type OptionValue struct {
	Type    OptionType
	Bool    bool
	Int     int64
	Float   float64
	Str     string
	Version Version
}

func BoolValue(b bool) OptionValue    { return OptionValue{Type: OptionTypeBool, Bool: b} }
func IntValue(i int64) OptionValue    { return OptionValue{Type: OptionTypeInt, Int: i} }
func FloatValue(f float64) OptionValue { return OptionValue{Type: OptionTypeFloat, Float: f} }
func StrValue(s string) OptionValue   { return OptionValue{Type: OptionTypeStr, Str: s} }
func VersionValue(v Version) OptionValue {
	return OptionValue{Type: OptionTypeVersion, Version: v}
}

// Equal reports whether two values share a tag and an equal payload.
func (v OptionValue) Equal(other OptionValue) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case OptionTypeBool:
		return v.Bool == other.Bool
	case OptionTypeInt:
		return v.Int == other.Int
	case OptionTypeFloat:
		return v.Float == other.Float
	case OptionTypeStr:
		return v.Str == other.Str
	case OptionTypeVersion:
		return v.Version.Equal(other.Version)
	default:
		return false
	}
}

// String renders the value for log fields and canonical constraint text.
func (v OptionValue) String() string {
	switch v.Type {
	case OptionTypeBool:
		return fmt.Sprintf("%t", v.Bool)
	case OptionTypeInt:
		return fmt.Sprintf("%d", v.Int)
	case OptionTypeFloat:
		return fmt.Sprintf("%g", v.Float)
	case OptionTypeStr:
		return v.Str
	case OptionTypeVersion:
		return v.Version.String()
	default:
		return "<unset>"
	}
}
