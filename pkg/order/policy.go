package order

import (
	"errors"
	"fmt"
)

// ErrUnknownPolicy is returned by [ParsePolicy] when a string does not match
// any persisted policy key. Catch it at configuration load; the planner and
// reorderers assume they only ever see declared [Policy] values.
var ErrUnknownPolicy = errors.New("unknown wall sequence policy")

// Policy selects the order in which the concentric walls of an island are
// printed. The numeric values of the first three policies predate the
// middle-out variants and are frozen: saved configurations refer to them by
// value, so new policies append and existing ones never renumber.
type Policy int

const (
	// InnerOuter prints from the innermost wall outward, finishing at the
	// visible surface.
	InnerOuter Policy = iota
	// OuterInner prints from the outermost wall inward.
	OuterInner
	// InnerOuterInner prints the second wall, then the outermost, then the
	// remaining interior walls inward. Gives the outer wall a settled
	// neighbor to fuse against without printing it last.
	InnerOuterInner
	// MiddleOutOuterInner prints walls three and deeper first (third wall
	// inward), then the outer wall, then the second wall.
	MiddleOutOuterInner
	// MiddleOutInnerOuter prints walls three and deeper first, then the
	// second wall, and the outer wall last.
	MiddleOutInnerOuter
)

// Persisted policy keys. These strings are the external contract surface:
// they appear in print profiles, project files, and API payloads, and must
// never change meaning.
const (
	KeyInnerOuter          = "inner wall/outer wall"
	KeyOuterInner          = "outer wall/inner wall"
	KeyInnerOuterInner     = "inner-outer-inner wall"
	KeyMiddleOutOuterInner = "middle-out/outer-inner"
	KeyMiddleOutInnerOuter = "middle-out/inner-outer"
)

// policyKeys maps each policy to its persisted key, indexed by value.
var policyKeys = [...]string{
	InnerOuter:          KeyInnerOuter,
	OuterInner:          KeyOuterInner,
	InnerOuterInner:     KeyInnerOuterInner,
	MiddleOutOuterInner: KeyMiddleOutOuterInner,
	MiddleOutInnerOuter: KeyMiddleOutInnerOuter,
}

// policyLabels maps each policy to its human-readable label, indexed by
// value. Labels are presentation only; persistence always uses the keys.
var policyLabels = [...]string{
	InnerOuter:          "Inner/Outer",
	OuterInner:          "Outer/Inner",
	InnerOuterInner:     "Inner/Outer/Inner",
	MiddleOutOuterInner: "Middle-Out/Outer-Inner",
	MiddleOutInnerOuter: "Middle-Out/Inner-Outer",
}

// Policies returns all declared policies in numeric order.
func Policies() []Policy {
	return []Policy{InnerOuter, OuterInner, InnerOuterInner, MiddleOutOuterInner, MiddleOutInnerOuter}
}

// ParsePolicy resolves a persisted key to its policy. Unknown keys return
// an error wrapping [ErrUnknownPolicy].
func ParsePolicy(key string) (Policy, error) {
	for p, k := range policyKeys {
		if k == key {
			return Policy(p), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, key)
}

// Valid reports whether p is one of the declared policy values.
func (p Policy) Valid() bool {
	return p >= InnerOuter && p <= MiddleOutInnerOuter
}

// String returns the persisted key for the policy, or a placeholder for
// out-of-range values.
func (p Policy) String() string {
	if !p.Valid() {
		return fmt.Sprintf("policy(%d)", int(p))
	}
	return policyKeys[p]
}

// Label returns the human-readable name shown in UIs. The mapping to
// policies is stable and 1:1.
func (p Policy) Label() string {
	if !p.Valid() {
		return p.String()
	}
	return policyLabels[p]
}

// MarshalText encodes the policy as its persisted key, so policies embed
// naturally in JSON and TOML documents.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: value %d", ErrUnknownPolicy, int(p))
	}
	return []byte(policyKeys[p]), nil
}

// UnmarshalText decodes a persisted key.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
