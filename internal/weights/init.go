package weights

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// Mode selects how a tensor is populated before training or running.
// The numeric values are the ones used in control files.
type Mode int

const (
	ModeLoad      Mode = 1
	ModeRandomize Mode = 2
	ModeConstant  Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeLoad:
		return "load"
	case ModeRandomize:
		return "randomize"
	case ModeConstant:
		return "constant"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m >= ModeLoad && m <= ModeConstant
}

// Init describes how to populate a tensor.
type Init struct {
	Mode Mode

	// ModeRandomize bounds, weights land in [Low, High).
	Low, High float64
	// Src seeds ModeRandomize; nil uses the shared source.
	Src rand.Source

	// ModeConstant value.
	Value float64

	// ModeLoad source file.
	Path string
}

// Initialize populates t according to in.
func Initialize(t *Tensor, in Init) error {
	switch in.Mode {
	case ModeLoad:
		return t.Load(in.Path)
	case ModeRandomize:
		if in.Low > in.High {
			return errors.Errorf("random range is inverted: low %v > high %v", in.Low, in.High)
		}
		t.Randomize(in.Low, in.High, in.Src)
	case ModeConstant:
		t.Fill(in.Value)
	default:
		return errors.Errorf("unknown weight mode %d", int(in.Mode))
	}
	return nil
}
