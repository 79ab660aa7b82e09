package kinship

import (
	"fmt"
	"strings"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

// forms holds the sex-neutral, male and female names of one relationship.
type forms struct {
	neutral, male, female string
	paired                bool // neutral reads "female or male"
}

func word(neutral, male, female string) forms { return forms{neutral, male, female, false} }

func either(female, male string) forms {
	return forms{female + " or " + male, male, female, true}
}

func same(s string) forms { return word(s, s, s) }

func (f forms) with(prefix, suffix string) forms {
	m, fe := prefix+f.male+suffix, prefix+f.female+suffix
	if f.paired {
		return either(fe, m)
	}
	return forms{prefix + f.neutral + suffix, m, fe, false}
}

func (f forms) pick(sex graph.Sex) string {
	switch sex {
	case graph.SexMale:
		return f.male
	case graph.SexFemale:
		return f.female
	default:
		return f.neutral
	}
}

var (
	parentNoun  = word("parent", "father", "mother")
	childNoun   = word("child", "son", "daughter")
	spouseNoun  = word("spouse", "husband", "wife")
	siblingNoun = word("sibling", "brother", "sister")
	auntUncle   = either("aunt", "uncle")
	nieceNephew = either("niece", "nephew")
)

// patterns not covered by the closed forms below. P = parent step,
// C = child step, S = spouse step.
var patternTable = map[string]forms{
	"S":   spouseNoun,
	"PC":  siblingNoun,
	"SP":  parentNoun.with("", "-in-law"),
	"CS":  childNoun.with("", "-in-law"),
	"PCS": siblingNoun.with("", "-in-law"),
	"SPC": siblingNoun.with("", "-in-law"),
	"PSC": siblingNoun.with("step", ""),
	"CP":  same("co-parent"),
	"CSP": same("co-parent-in-law"),
}

// Label names a step sequence without regard to sex.
func Label(steps []Step) string { return describe(pattern(steps)).neutral }

// Term names a step sequence using the target's sex where the language
// distinguishes it.
func Term(steps []Step, sex graph.Sex) string { return describe(pattern(steps)).pick(sex) }

func describe(pat string) forms {
	if pat == "" {
		return same("self")
	}
	if f, ok := known(pat); ok {
		return f
	}
	if len(pat) > 1 && pat[0] == 'S' {
		if f, ok := known(pat[1:]); ok {
			return forms{
				neutral: "spouse's " + f.neutral,
				male:    "spouse's " + f.male,
				female:  "spouse's " + f.female,
			}
		}
	}
	if n := len(pat); n > 1 && pat[n-1] == 'S' {
		if f, ok := known(pat[:n-1]); ok {
			return forms{
				neutral: f.neutral + "'s spouse",
				male:    f.neutral + "'s husband",
				female:  f.neutral + "'s wife",
			}
		}
	}
	return same(ordinalNumber(len(pat)) + "-degree relative")
}

func known(pat string) (forms, bool) {
	if f, ok := patternTable[pat]; ok {
		return f, true
	}
	return bloodLine(pat)
}

// bloodLine names patterns of the form P^m C^n.
func bloodLine(pat string) (forms, bool) {
	m := len(pat) - len(strings.TrimLeft(pat, "P"))
	rest := pat[m:]
	n := len(rest) - len(strings.TrimLeft(rest, "C"))
	if m+n != len(pat) || m+n == 0 {
		return forms{}, false
	}

	switch {
	case n == 0:
		return lineal(parentNoun, m), true
	case m == 0:
		return lineal(childNoun, n), true
	case m == 1 && n == 1:
		return siblingNoun, true
	case m == 1:
		// n >= 2: niece, grandniece, great-grandniece
		if n == 2 {
			return nieceNephew, true
		}
		return nieceNephew.with(greats(n-3)+"grand", ""), true
	case n == 1:
		// m >= 2: aunt, great-aunt, great-great-aunt
		return auntUncle.with(greats(m-2), ""), true
	default:
		return same(cousin(m, n)), true
	}
}

func lineal(base forms, generations int) forms {
	if generations == 1 {
		return base
	}
	return base.with(greats(generations-2)+"grand", "")
}

func greats(k int) string { return strings.Repeat("great-", k) }

var ordinalWords = []string{"", "first", "second", "third", "fourth", "fifth",
	"sixth", "seventh", "eighth", "ninth", "tenth"}

func cousin(up, down int) string {
	degree := min(up, down) - 1
	name := ordinalNumber(degree)
	if degree < len(ordinalWords) {
		name = ordinalWords[degree]
	}
	label := name + " cousin"

	switch removed := max(up, down) - min(up, down); removed {
	case 0:
	case 1:
		label += " once removed"
	case 2:
		label += " twice removed"
	default:
		label += fmt.Sprintf(" %d times removed", removed)
	}
	return label
}

func ordinalNumber(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
