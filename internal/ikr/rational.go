package ikr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Rational is an exact fraction used for onsets and durations.
// Always stored normalized: gcd(|Num|, Den) == 1 and Den > 0.
// Floats are forbidden throughout the model; this is the only
// numeric representation for musical time.
type Rational struct {
	Num int64
	Den int64
}

// Zero is the rational 0/1.
var Zero = Rational{0, 1}

// NewRational creates a normalized rational. Panics if den == 0;
// callers parsing untrusted input must use ParseRational instead.
func NewRational(num, den int64) Rational {
	if den == 0 {
		panic("ikr: rational with zero denominator")
	}
	return Rational{num, den}.normalize()
}

// Whole creates the rational n/1.
func Whole(n int64) Rational {
	return Rational{n, 1}
}

// ParseRational parses a rational literal: "3/4", "1/4", or "0".
// Floating-point forms are rejected.
func ParseRational(s string) (Rational, error) {
	if strings.ContainsAny(s, ".eE") {
		return Zero, fmt.Errorf("floating point is forbidden, want a rational literal: %q", s)
	}
	num, den := s, "1"
	if i := strings.IndexByte(s, '/'); i >= 0 {
		num, den = s[:i], s[i+1:]
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("invalid rational literal %q", s)
	}
	d, err := strconv.ParseInt(den, 10, 64)
	if err != nil || d == 0 {
		return Zero, fmt.Errorf("invalid rational literal %q", s)
	}
	return Rational{n, d}.normalize(), nil
}

func (r Rational) normalize() Rational {
	if r.Den < 0 {
		r.Num, r.Den = -r.Num, -r.Den
	}
	g := gcd(abs64(r.Num), r.Den)
	if g > 1 {
		r.Num /= g
		r.Den /= g
	}
	if r.Num == 0 {
		r.Den = 1
	}
	return r
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Add returns r + o, normalized.
func (r Rational) Add(o Rational) Rational {
	return Rational{r.Num*o.Den + o.Num*r.Den, r.Den * o.Den}.normalize()
}

// Sub returns r - o, normalized.
func (r Rational) Sub(o Rational) Rational {
	return Rational{r.Num*o.Den - o.Num*r.Den, r.Den * o.Den}.normalize()
}

// Cmp compares r and o: -1 if r < o, 0 if equal, +1 if r > o.
func (r Rational) Cmp(o Rational) int {
	a := r.Num * o.Den
	b := o.Num * r.Den
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Sign returns -1, 0, or +1.
func (r Rational) Sign() int {
	switch {
	case r.Num < 0:
		return -1
	case r.Num > 0:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether r equals 0.
func (r Rational) IsZero() bool {
	return r.Num == 0
}

// String renders the TLR literal form: "0", "1/4", "3/8".
func (r Rational) String() string {
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return strconv.FormatInt(r.Num, 10) + "/" + strconv.FormatInt(r.Den, 10)
}

// MarshalJSON encodes the rational as its literal string form.
// Rationals never appear as JSON numbers (no float round-trip hazard).
func (r Rational) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes the literal string form.
func (r *Rational) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRational(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
