package weights

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/FlavioCFOliveira/GoBackprop/internal/topology"
	"github.com/pkg/errors"
)

// Precision is the number of fractional digits written per weight.
const Precision = 17

const fileHeader = "Network: "

// LoadError reports a weight file that could not be read into a tensor.
type LoadError struct {
	Path string
	Line int // 0 when the failure is not tied to a line
	Err  error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load weights")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	b.WriteString(": " + e.Err.Error())
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// ShapeMismatchError reports a weight file whose layout disagrees with the
// configured topology.
type ShapeMismatchError struct {
	Want   topology.Topology
	Got    topology.Topology // nil when the file header was fine but the body was not
	Detail string
}

func (e *ShapeMismatchError) Error() string {
	if e.Got != nil {
		return fmt.Sprintf("weight file is for network %s, configured network is %s", e.Got, e.Want)
	}
	return fmt.Sprintf("weight file does not fit network %s: %s", e.Want, e.Detail)
}

// WriteError reports a failed save. Callers treat it as recoverable.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("save weights %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Encode writes the tensor in the text weight format: a header line, a
// layer summary line, then one weight per line grouped by source node, each
// group followed by a blank line.
func (t *Tensor) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, fileHeader)
	fmt.Fprintln(bw, t.top.String()+"-")

	for n := 1; n < len(t.layers); n++ {
		m := t.layers[n]
		rows, _ := m.Dims()
		for j := 0; j < rows; j++ {
			for _, v := range m.RawRowView(j) {
				bw.WriteString(strconv.FormatFloat(v, 'f', Precision, 64))
				bw.WriteByte('\n')
			}
			bw.WriteByte('\n')
		}
	}

	return errors.Wrap(bw.Flush(), "failed to write weights")
}

// Save writes the tensor to filename, replacing any existing file.
// Failures are returned as *WriteError.
func (t *Tensor) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return &WriteError{Path: filename, Err: err}
	}

	if err := t.Encode(file); err != nil {
		file.Close()
		return &WriteError{Path: filename, Err: err}
	}
	if err := file.Close(); err != nil {
		return &WriteError{Path: filename, Err: err}
	}
	return nil
}

// Decode reads a tensor written by Encode. The file's layer summary and
// body must match t's topology exactly. t is left untouched on error.
func (t *Tensor) Decode(r io.Reader) error {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++
		return strings.TrimSpace(sc.Text()), true
	}
	fail := func(err error) error {
		if sErr := sc.Err(); sErr != nil {
			err = errors.Wrap(sErr, "failed to read weights")
		}
		return &LoadError{Line: line, Err: err}
	}

	if _, ok := next(); !ok {
		return fail(errors.New("missing header"))
	}
	summary, ok := next()
	if !ok {
		return fail(errors.New("missing network summary"))
	}
	got, err := topology.Parse(summary)
	if err != nil {
		return fail(errors.Wrap(err, "bad network summary"))
	}
	if !got.Equal(t.top) {
		return fail(&ShapeMismatchError{Want: t.top, Got: got})
	}

	loaded := New(t.top)
	read, total := 0, t.top.NumWeights()
	for n := 1; n < len(loaded.layers); n++ {
		m := loaded.layers[n]
		rows, cols := m.Dims()
		for j := 0; j < rows; j++ {
			for k := 0; k < cols; k++ {
				s, ok := next()
				if !ok || s == "" {
					return fail(&ShapeMismatchError{
						Want:   t.top,
						Detail: fmt.Sprintf("layer %d node %d has fewer than %d weights (%d of %d read)", n, j, cols, read, total),
					})
				}
				v, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return fail(errors.Wrapf(err, "weight %d", read))
				}
				m.Set(j, k, v)
				read++
			}

			// separator after every source node; the final one may be cut off
			if s, ok := next(); ok && s != "" {
				return fail(&ShapeMismatchError{
					Want:   t.top,
					Detail: fmt.Sprintf("layer %d node %d has more than %d weights", n, j, cols),
				})
			}
		}
	}

	for {
		s, ok := next()
		if !ok {
			break
		}
		if s != "" {
			return fail(&ShapeMismatchError{
				Want:   t.top,
				Detail: fmt.Sprintf("unexpected data after %d weights", total),
			})
		}
	}
	if err := sc.Err(); err != nil {
		return fail(err)
	}

	for n := 1; n < len(t.layers); n++ {
		t.layers[n].Copy(loaded.layers[n])
	}
	return nil
}

// Load reads the tensor from filename. Failures are returned as *LoadError,
// wrapping *ShapeMismatchError when the layout disagrees.
func (t *Tensor) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return &LoadError{Path: filename, Err: err}
	}
	defer file.Close()

	if err := t.Decode(file); err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = filename
			return le
		}
		return &LoadError{Path: filename, Err: err}
	}
	return nil
}
