package grade

import "strings"

// Grade is a letter grade such as "B+".
type Grade string

// MaxDots is the width of every rating indicator.
const MaxDots = 5

// tenths holds each grade's score in tenths of a point (A+ = 5.0 = 50).
var tenths = map[Grade]int{
	"A+": 50, "A": 47, "A-": 43,
	"B+": 40, "B": 37, "B-": 33,
	"C+": 30, "C": 27, "C-": 23,
	"D+": 20, "D": 17, "D-": 13,
	"F": 10,
}

// All returns the closed grade set, best first.
func All() []Grade {
	return []Grade{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-", "F"}
}

// Parse normalizes s and reports whether it is a known grade.
func Parse(s string) (Grade, bool) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := tenths[g]
	return g, ok
}

// Known reports whether g is in the closed set.
func (g Grade) Known() bool {
	_, ok := Parse(string(g))
	return ok
}

// Slug returns a styling key: "A+" -> "a-plus", "B-" -> "b-minus".
func (g Grade) Slug() string {
	s := strings.ToLower(strings.TrimSpace(string(g)))
	switch {
	case strings.HasSuffix(s, "+"):
		return strings.TrimSuffix(s, "+") + "-plus"
	case strings.HasSuffix(s, "-"):
		return strings.TrimSuffix(s, "-") + "-minus"
	}
	return s
}

// ScoreOf returns the numeric score in [1.0, 5.0], or 0 for an unknown grade.
func ScoreOf(g Grade) float64 {
	return float64(scoreTenths(g)) / 10
}

func scoreTenths(g Grade) int {
	norm, ok := Parse(string(g))
	if !ok {
		return 0
	}
	return tenths[norm]
}

// Indicator is the dot/star breakdown of a grade. Full+Half+Empty is always MaxDots.
type Indicator struct {
	Full  int `json:"full"`
	Half  int `json:"half"`
	Empty int `json:"empty"`
}

// Shown reports whether the indicator carries any rating.
func (i Indicator) Shown() bool {
	return i.Full > 0 || i.Half > 0
}

// String renders the indicator with filled, half and empty dots.
func (i Indicator) String() string {
	return strings.Repeat("●", i.Full) + strings.Repeat("◐", i.Half) + strings.Repeat("○", i.Empty)
}

// IndicatorOf discretizes the grade's score into dots.
// A half dot is shown when the fractional part is between .3 and .7 inclusive.
func IndicatorOf(g Grade) Indicator {
	t := scoreTenths(g)
	full := t / 10
	frac := t % 10

	half := 0
	if frac >= 3 && frac <= 7 {
		half = 1
	}

	return Indicator{
		Full:  full,
		Half:  half,
		Empty: MaxDots - full - half,
	}
}
