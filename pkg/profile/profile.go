// Package profile loads print profiles: the persisted slicing settings
// that choose how many walls to generate and in which order to print them.
//
// Profiles are TOML files. Unknown wall sequence keys are rejected here, at
// load time, so the planner and reorderers downstream only ever see valid
// policies:
//
//	name = "draft"
//	wall_count = 3
//	wall_width = 0.45
//	wall_sequence = "middle-out/outer-inner"
//	adaptive_width = false
package profile

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/slicekit/wallseq/pkg/order"
)

var (
	// ErrInvalidWallCount is returned when a profile asks for a negative
	// number of walls. Zero is legal and falls back to the default.
	ErrInvalidWallCount = errors.New("wall count must not be negative")

	// ErrInvalidWallWidth is returned when a profile sets a negative wall
	// width. Zero is legal and falls back to the default.
	ErrInvalidWallWidth = errors.New("wall width must not be negative")
)

// Defaults applied by [Profile.ValidateAndSetDefaults] for zero values.
const (
	DefaultWallCount = 2
	DefaultWallWidth = 0.45
	DefaultSequence  = order.KeyInnerOuter
)

// Profile holds the wall settings of one print profile.
type Profile struct {
	Name      string  `toml:"name"`
	WallCount int     `toml:"wall_count"`
	WallWidth float64 `toml:"wall_width"`
	Sequence  string  `toml:"wall_sequence"`
	Adaptive  bool    `toml:"adaptive_width"`

	policy    order.Policy
	validated bool
}

// Default returns a profile with all defaults applied.
func Default() Profile {
	p := Profile{}
	_ = p.ValidateAndSetDefaults()
	return p
}

// ValidateAndSetDefaults fills zero values with defaults and verifies the
// rest: the wall sequence key must name a known policy, and counts and
// widths must not be negative. Safe to call multiple times.
func (p *Profile) ValidateAndSetDefaults() error {
	if p.validated {
		return nil
	}

	if p.WallCount < 0 {
		return fmt.Errorf("wall_count %d: %w", p.WallCount, ErrInvalidWallCount)
	}
	if p.WallCount == 0 {
		p.WallCount = DefaultWallCount
	}

	if p.WallWidth < 0 {
		return fmt.Errorf("wall_width %g: %w", p.WallWidth, ErrInvalidWallWidth)
	}
	if p.WallWidth == 0 {
		p.WallWidth = DefaultWallWidth
	}

	if p.Sequence == "" {
		p.Sequence = DefaultSequence
	}
	policy, err := order.ParsePolicy(p.Sequence)
	if err != nil {
		return fmt.Errorf("wall_sequence: %w", err)
	}
	p.policy = policy

	p.validated = true
	return nil
}

// Policy returns the parsed wall sequence policy. Only meaningful after
// [Profile.ValidateAndSetDefaults] has succeeded.
func (p *Profile) Policy() order.Policy { return p.policy }

// Parse decodes and validates a TOML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if err := p.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and validates a TOML profile from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}
