package tac

import "strings"

// IsLiteral reports whether operand is a '#'-tagged literal.
func IsLiteral(operand string) bool {
	return strings.HasPrefix(operand, "#")
}

// IsFloatLiteral reports whether operand is a literal with a fractional
// part, e.g. "#3.5".
func IsFloatLiteral(operand string) bool {
	return IsLiteral(operand) && strings.Contains(operand, ".")
}

// LiteralValue strips the '#' tag.
func LiteralValue(operand string) string {
	return strings.TrimPrefix(operand, "#")
}

// IsTemp reports whether operand is a generator temporary (tempN).
func IsTemp(operand string) bool {
	if !strings.HasPrefix(operand, "temp") {
		return false
	}
	rest := operand[len("temp"):]
	if rest == "" {
		return false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
