package argparse

// Namespace holds parsed argument values keyed by destination name. Absent
// or defaulted-to-nil values read as the getter's zero/default.
type Namespace map[string]any

// Has reports whether dest was set to a non-nil value (by a token or a
// non-nil default).
func (n Namespace) Has(dest string) bool {
	v, ok := n[dest]
	return ok && v != nil
}

func (n Namespace) String(dest string) string {
	if v, ok := n[dest].(string); ok {
		return v
	}
	return ""
}

func (n Namespace) Strings(dest string) []string {
	switch v := n[dest].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (n Namespace) Bool(dest string) bool {
	v, _ := n[dest].(bool)
	return v
}

// Int reads a numeric value, accepting both int and float64 storage (the
// NumberRange converter stores float64).
func (n Namespace) Int(dest string, def int) int {
	switch v := n[dest].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func (n Namespace) Float(dest string, def float64) float64 {
	switch v := n[dest].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Ints reads a list of numeric values.
func (n Namespace) Ints(dest string) []int {
	vs, ok := n[dest].([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(vs))
	for _, e := range vs {
		switch v := e.(type) {
		case int:
			out = append(out, v)
		case float64:
			out = append(out, int(v))
		}
	}
	return out
}
