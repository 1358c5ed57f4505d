package argparse

import (
	"fmt"
	"strconv"
	"strings"
)

// Converter turns one raw token into a typed value, or reports a ParseError.
type Converter func(raw string) (any, error)

// String is the identity converter.
func String(raw string) (any, error) { return raw, nil }

// Int converts to an integer.
func Int(raw string) (any, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, Errorf("not a number: %q", raw)
	}
	return v, nil
}

// NumberRange builds a numeric converter. With no bounds any number is
// accepted; one bound sets the minimum, two set minimum and maximum. A
// percentage literal like "42%" converts to 0.42 before the range check.
func NumberRange(bounds ...float64) Converter {
	return func(raw string) (any, error) {
		var x float64
		if pct, ok := strings.CutSuffix(raw, "%"); ok {
			n, err := strconv.ParseFloat(pct, 64)
			if err != nil {
				return nil, Errorf("not a number: %q", raw)
			}
			x = n / 100
		} else {
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, Errorf("not a number: %q", raw)
			}
			x = n
		}
		switch len(bounds) {
		case 0:
		case 1:
			if x < bounds[0] {
				return nil, Errorf("choose a number >= %v", bounds[0])
			}
		default:
			if x < bounds[0] || x > bounds[1] {
				return nil, Errorf("choose from [%v;%v]", bounds[0], bounds[1])
			}
		}
		return x, nil
	}
}

// BoolSpec configures BooleanExact. Empty literal sets default to
// {"true"} / {"false"}.
type BoolSpec struct {
	CaseSensitive bool
	Trues         []string
	Falses        []string
}

// BooleanExact builds a converter accepting a fixed set of true/false
// literals, case-insensitive unless configured otherwise. Anything else is
// rejected with an error enumerating the accepted literals.
func BooleanExact(spec BoolSpec) Converter {
	trues := spec.Trues
	if len(trues) == 0 {
		trues = []string{"true"}
	}
	falses := spec.Falses
	if len(falses) == 0 {
		falses = []string{"false"}
	}
	norm := func(s string) string {
		if spec.CaseSensitive {
			return s
		}
		return strings.ToLower(s)
	}
	accept := make(map[string]bool, len(trues)+len(falses))
	for _, t := range trues {
		accept[norm(t)] = true
	}
	for _, f := range falses {
		if accept[norm(f)] {
			panic(fmt.Sprintf("argparse: literal %q is both true and false", f))
		}
		accept[norm(f)] = false
	}
	all := append(append([]string{}, trues...), falses...)

	return func(raw string) (any, error) {
		if v, ok := accept[norm(raw)]; ok {
			return v, nil
		}
		return nil, Errorf("choose from [%s]", strings.Join(all, ", "))
	}
}
