package dice

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// invalidRoll is returned as the only element when an expression yields no
// usable terms.
const invalidRoll = -666

// Roller evaluates dice-notation expressions with its own random source.
// A Roller is not safe for concurrent use; give each session its own.
type Roller struct {
	rng *rand.Rand
}

func New() *Roller {
	return NewRoller(rand.NewSource(time.Now().UnixNano()))
}

func NewRoller(src rand.Source) *Roller {
	return &Roller{rng: rand.New(src)}
}

// Results evaluates a dice-notation expression and returns one value per
// well-formed term, in textual order, signs applied. It never fails:
// malformed terms are dropped, and an expression with no usable terms maps
// to [-666]. A leading '!' puts every dice term in exploding mode.
func (r *Roller) Results(request string) []int32 {
	explode := strings.HasPrefix(request, "!")
	s := strings.TrimPrefix(request, "!")

	var results []int32
	for _, t := range splitTerms(s) {
		if v, ok := r.evalTerm(t, explode); ok {
			results = append(results, v)
		}
	}

	if len(results) == 0 {
		return []int32{invalidRoll}
	}
	return results
}

type term struct {
	negative bool
	body     string
}

// splitTerms splits on '+' and '-', keeping each split's leading sign; a
// leading unsigned remainder counts as '+'. Consecutive signs produce empty
// bodies, which evalTerm drops like any other malformed term.
func splitTerms(s string) []term {
	var terms []term
	negative := false
	start := 0
	for i, c := range s {
		if c == '+' || c == '-' {
			terms = append(terms, term{negative: negative, body: s[start:i]})
			negative = c == '-'
			start = i + 1
		}
	}
	return append(terms, term{negative: negative, body: s[start:]})
}

// evalTerm evaluates a single term: either "[count]d<sides>" or a bare
// integer literal. The second return value is false for malformed terms.
func (r *Roller) evalTerm(t term, explode bool) (int32, bool) {
	var value int32

	if d := strings.IndexByte(t.body, 'd'); d >= 0 {
		count := 1
		if d > 0 {
			n, err := strconv.Atoi(t.body[:d])
			if err != nil || n < 0 {
				return 0, false
			}
			count = n
		}
		sides, err := strconv.Atoi(t.body[d+1:])
		if err != nil || sides < 0 {
			return 0, false
		}
		value = r.roll(count, sides, explode)
	} else {
		n, err := strconv.Atoi(t.body)
		if err != nil {
			return 0, false
		}
		value = int32(n)
	}

	if t.negative {
		value = -value
	}
	return value, true
}

// roll sums count independent single-die rolls.
func (r *Roller) roll(count, sides int, explode bool) int32 {
	var sum int32
	for i := 0; i < count; i++ {
		sum += r.rollSingle(sides, explode)
	}
	return sum
}

// rollSingle draws uniformly from {1..sides}. In exploding mode a die that
// lands on its maximum face is rolled again and added, except one-sided
// dice, which never explode. Zero-sided dice contribute 0.
func (r *Roller) rollSingle(sides int, explode bool) int32 {
	if sides == 0 {
		return 0
	}

	var result int32
	for {
		i := r.rng.Intn(sides) + 1
		result += int32(i)
		if !explode || i < sides || sides == 1 {
			break
		}
	}
	return result
}
