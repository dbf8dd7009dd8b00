package net

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// CSVLogger records the mean error of every Interval-th iteration to a CSV file.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool
	Interval int // 0 or 1 records every iteration

	file   *os.File
	writer *csv.Writer
	start  time.Time
	err    error
}

// NewCSVLogger creates a new CSVLogger.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{
		Filename: filename,
		Append:   append,
	}
}

func (c *CSVLogger) OnTrainBegin(n *Network) {
	c.err = nil
	mode := os.O_CREATE | os.O_WRONLY
	if c.Append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(c.Filename, mode, 0644)
	if err != nil {
		c.err = errors.Wrapf(err, "failed to open history file %s", c.Filename)
		return
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	c.start = time.Now()

	// Header only on a fresh file.
	info, err := file.Stat()
	if err == nil && (info.Size() == 0 || !c.Append) {
		c.write([]string{"iteration", "error", "elapsed_seconds"})
	}
}

func (c *CSVLogger) OnIterationEnd(iteration int, meanError float64, n *Network) {
	if c.writer == nil {
		return
	}
	if c.Interval > 1 && iteration%c.Interval != 0 {
		return
	}
	c.write([]string{
		strconv.Itoa(iteration),
		strconv.FormatFloat(meanError, 'g', -1, 64),
		strconv.FormatFloat(time.Since(c.start).Seconds(), 'f', 3, 64),
	})
}

func (c *CSVLogger) OnTrainEnd(n *Network, res Result) {
	if c.file == nil {
		return
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil && c.err == nil {
		c.err = errors.Wrap(err, "failed to flush history")
	}
	if err := c.file.Close(); err != nil && c.err == nil {
		c.err = errors.Wrap(err, "failed to close history file")
	}
	c.file = nil
	c.writer = nil
}

// Err returns the first error hit while writing the history.
func (c *CSVLogger) Err() error { return c.err }

func (c *CSVLogger) write(record []string) {
	if err := c.writer.Write(record); err != nil && c.err == nil {
		c.err = errors.Wrap(err, "failed to write history record")
	}
}
