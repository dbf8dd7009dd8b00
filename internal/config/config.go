// Package config reads the control file that drives a training or running
// session.
//
// The control file holds one value per line, in this order:
//
//	total layer count
//	number of samples
//	width of each layer (one line per layer)
//	max iterations
//	learning rate (lambda)
//	low random weight bound
//	high random weight bound
//	error threshold
//	training flag (true/false)
//	weight mode (1 = load, 2 = randomize, 3 = constant)
//	save-weights flag (true/false)
//	keep-alive interval (0 disables progress messages)
//	dataset file path
//	weight file path
//
// Relative paths are resolved against the control file's directory.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/FlavioCFOliveira/GoBackprop/internal/topology"
	"github.com/FlavioCFOliveira/GoBackprop/internal/weights"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// DefaultFile is the control file used when none is given.
const DefaultFile = "controlFile.txt"

// Config is a validated control file.
type Config struct {
	// Path of the control file, empty when parsed from a reader.
	Path string

	Topology topology.Topology
	NumCases int

	MaxIterations  int
	Lambda         float64
	LowRand        float64
	HighRand       float64
	ErrorThreshold float64

	Training    bool
	WeightsMode weights.Mode
	SaveWeights bool
	KeepAlive   int

	DatasetPath string
	WeightsPath string
}

// Error is a missing or malformed control file value.
type Error struct {
	Path  string
	Line  int // 0 for errors found by validation
	Field string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Field != "" {
		b.WriteString(" (" + e.Field + ")")
	}
	b.WriteString(": " + e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads and validates the control file at path.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
			return nil, ce
		}
		return nil, &Error{Path: path, Err: err}
	}

	cfg.Path = path
	dir := filepath.Dir(path)
	cfg.DatasetPath = resolve(dir, cfg.DatasetPath)
	cfg.WeightsPath = resolve(dir, cfg.WeightsPath)
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// lineReader hands out trimmed lines and remembers where it is.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func (r *lineReader) next(field string) (string, error) {
	if !r.sc.Scan() {
		err := errors.New("missing value")
		if sErr := r.sc.Err(); sErr != nil {
			err = errors.Wrap(sErr, "failed to read")
		}
		return "", &Error{Line: r.line + 1, Field: field, Err: err}
	}
	r.line++
	return strings.TrimSpace(r.sc.Text()), nil
}

func (r *lineReader) int(field string) (int, error) {
	s, err := r.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &Error{Line: r.line, Field: field, Err: errors.Wrapf(err, "not an integer")}
	}
	return v, nil
}

func (r *lineReader) float(field string) (float64, error) {
	s, err := r.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &Error{Line: r.line, Field: field, Err: errors.Wrapf(err, "not a number")}
	}
	return v, nil
}

func (r *lineReader) bool(field string) (bool, error) {
	s, err := r.next(field)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, &Error{Line: r.line, Field: field, Err: errors.Wrapf(err, "not a boolean")}
	}
	return v, nil
}

// Parse reads a control file from r and validates it.
func Parse(r io.Reader) (*Config, error) {
	lr := &lineReader{sc: bufio.NewScanner(r)}
	cfg := &Config{}
	var err error

	layers, err := lr.int("layer count")
	if err != nil {
		return nil, err
	}
	if layers < topology.MinLayers {
		return nil, &Error{Line: lr.line, Field: "layer count",
			Err: errors.Errorf("need at least %d layers, got %d", topology.MinLayers, layers)}
	}
	if cfg.NumCases, err = lr.int("number of samples"); err != nil {
		return nil, err
	}

	cfg.Topology = make(topology.Topology, layers)
	for n := range cfg.Topology {
		if cfg.Topology[n], err = lr.int(fmt.Sprintf("layer %d width", n)); err != nil {
			return nil, err
		}
	}

	if cfg.MaxIterations, err = lr.int("max iterations"); err != nil {
		return nil, err
	}
	if cfg.Lambda, err = lr.float("lambda"); err != nil {
		return nil, err
	}
	if cfg.LowRand, err = lr.float("low random bound"); err != nil {
		return nil, err
	}
	if cfg.HighRand, err = lr.float("high random bound"); err != nil {
		return nil, err
	}
	if cfg.ErrorThreshold, err = lr.float("error threshold"); err != nil {
		return nil, err
	}
	if cfg.Training, err = lr.bool("training"); err != nil {
		return nil, err
	}
	mode, err := lr.int("weight mode")
	if err != nil {
		return nil, err
	}
	cfg.WeightsMode = weights.Mode(mode)
	if cfg.SaveWeights, err = lr.bool("save weights"); err != nil {
		return nil, err
	}
	if cfg.KeepAlive, err = lr.int("keep alive"); err != nil {
		return nil, err
	}
	if cfg.DatasetPath, err = lr.next("dataset path"); err != nil {
		return nil, err
	}
	if cfg.WeightsPath, err = lr.next("weights path"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every value the session depends on. Training-only
// hyperparameters are checked only when Training is set.
func (c *Config) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return &Error{Path: c.Path, Field: field, Err: errors.Errorf(format, args...)}
	}

	if err := c.Topology.Validate(); err != nil {
		return &Error{Path: c.Path, Field: "topology", Err: err}
	}
	if c.NumCases < 1 {
		return invalid("number of samples", "need at least 1 sample, got %d", c.NumCases)
	}
	if !c.WeightsMode.Valid() {
		return invalid("weight mode", "must be 1 (load), 2 (randomize) or 3 (constant), got %d", int(c.WeightsMode))
	}
	if c.WeightsMode == weights.ModeRandomize && c.LowRand > c.HighRand {
		return invalid("random bounds", "low %v is above high %v", c.LowRand, c.HighRand)
	}
	if c.DatasetPath == "" {
		return invalid("dataset path", "empty")
	}
	if (c.WeightsMode == weights.ModeLoad || c.SaveWeights) && c.WeightsPath == "" {
		return invalid("weights path", "empty")
	}

	if !c.Training {
		return nil
	}
	if c.MaxIterations < 1 {
		return invalid("max iterations", "need at least 1, got %d", c.MaxIterations)
	}
	if !(c.Lambda > 0) {
		return invalid("lambda", "must be positive, got %v", c.Lambda)
	}
	if !(c.ErrorThreshold >= 0) {
		return invalid("error threshold", "must not be negative, got %v", c.ErrorThreshold)
	}
	if c.KeepAlive < 0 {
		return invalid("keep alive", "must not be negative, got %d", c.KeepAlive)
	}
	return nil
}

// WeightsInit describes how to populate the weight tensor. src seeds the
// randomize mode and may be nil.
func (c *Config) WeightsInit(src rand.Source) weights.Init {
	return weights.Init{
		Mode:  c.WeightsMode,
		Low:   c.LowRand,
		High:  c.HighRand,
		Src:   src,
		Value: weights.DefaultValue,
		Path:  c.WeightsPath,
	}
}
