package match

import (
	"math"
	"strconv"
	"strings"
)

// Tolerance is the absolute difference under which two numeric values count
// as equal.
const Tolerance = 0.001

// Matches reports whether an executor capability value accepts a request
// value. Parse failures yield false, never an error. Dates match on exact
// string equality only; "2024-01-15" and "15.01.2024" are different values.
func Matches(executorValue, requestValue string) bool {
	a := strings.TrimSpace(executorValue)
	b := strings.TrimSpace(requestValue)
	if a == "" || b == "" {
		return false
	}

	ka, kb := Classify(a), Classify(b)
	if ka == kb {
		switch ka {
		case KindInteger:
			ia, errA := strconv.ParseInt(a, 10, 64)
			ib, errB := strconv.ParseInt(b, 10, 64)
			return errA == nil && errB == nil && ia == ib
		case KindFloat:
			return floatEqual(a, b)
		case KindDate:
			return a == b
		case KindText, KindString, KindRaster:
			return strings.EqualFold(a, b)
		default:
			return false
		}
	}

	// Kind bridging: an integer may satisfy a float capability and vice
	// versa; free-form strings compare with plain text case-insensitively.
	switch {
	case numeric(ka) && numeric(kb):
		return floatEqual(a, b)
	case textual(ka) && textual(kb):
		return strings.EqualFold(a, b)
	default:
		return false
	}
}

func numeric(k Kind) bool { return k == KindInteger || k == KindFloat }

func textual(k Kind) bool { return k == KindText || k == KindString }

func floatEqual(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return false
	}
	return math.Abs(fa-fb) <= Tolerance
}
