package profile

import (
	"errors"
	"testing"

	"github.com/slicekit/wallseq/pkg/order"
)

func TestParseFullProfile(t *testing.T) {
	data := []byte(`
name = "draft"
wall_count = 3
wall_width = 0.45
wall_sequence = "middle-out/outer-inner"
adaptive_width = true
`)

	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "draft" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.WallCount != 3 {
		t.Errorf("WallCount = %d", p.WallCount)
	}
	if !p.Adaptive {
		t.Error("Adaptive = false")
	}
	if p.Policy() != order.MiddleOutOuterInner {
		t.Errorf("Policy() = %v", p.Policy())
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	p, err := Parse([]byte(`name = "bare"`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.WallCount != DefaultWallCount {
		t.Errorf("WallCount = %d, want %d", p.WallCount, DefaultWallCount)
	}
	if p.WallWidth != DefaultWallWidth {
		t.Errorf("WallWidth = %g, want %g", p.WallWidth, DefaultWallWidth)
	}
	if p.Sequence != DefaultSequence {
		t.Errorf("Sequence = %q, want %q", p.Sequence, DefaultSequence)
	}
	if p.Policy() != order.InnerOuter {
		t.Errorf("Policy() = %v, want InnerOuter", p.Policy())
	}
}

func TestParseRejectsUnknownSequence(t *testing.T) {
	_, err := Parse([]byte(`wall_sequence = "spiral vase"`))
	if !errors.Is(err, order.ErrUnknownPolicy) {
		t.Errorf("Parse error = %v, want ErrUnknownPolicy", err)
	}
}

func TestParseRejectsNegativeValues(t *testing.T) {
	if _, err := Parse([]byte(`wall_count = -1`)); !errors.Is(err, ErrInvalidWallCount) {
		t.Errorf("negative wall_count error = %v", err)
	}
	if _, err := Parse([]byte(`wall_width = -0.4`)); !errors.Is(err, ErrInvalidWallWidth) {
		t.Errorf("negative wall_width error = %v", err)
	}
}

func TestParseMalformedTOML(t *testing.T) {
	if _, err := Parse([]byte(`wall_count = [`)); err == nil {
		t.Error("Parse accepted malformed TOML")
	}
}

func TestValidateIdempotent(t *testing.T) {
	p := Profile{Sequence: order.KeyMiddleOutInnerOuter}
	if err := p.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first validate: %v", err)
	}
	if err := p.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validate: %v", err)
	}
	if p.Policy() != order.MiddleOutInnerOuter {
		t.Errorf("Policy() = %v", p.Policy())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/nope.toml"); err == nil {
		t.Error("Load accepted a missing file")
	}
}
