package net

import (
	"log"
	"math"
)

// Callback observes a training run.
type Callback interface {
	OnTrainBegin(n *Network)
	OnIterationEnd(iteration int, meanError float64, n *Network)
	OnTrainEnd(n *Network, res Result)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *Network)                                     {}
func (c BaseCallback) OnIterationEnd(iteration int, meanError float64, n *Network) {}
func (c BaseCallback) OnTrainEnd(n *Network, res Result)                           {}

// Logger prints a keep-alive line every Interval iterations.
// An Interval of 0 disables it.
type Logger struct {
	BaseCallback
	Interval int
	Out      *log.Logger // nil uses the standard logger
}

func (c Logger) OnIterationEnd(iteration int, meanError float64, n *Network) {
	if c.Interval > 0 && iteration%c.Interval == 0 {
		c.logger().Printf("Iteration %d, Error = %f", iteration, meanError)
	}
}

func (c Logger) logger() *log.Logger {
	if c.Out != nil {
		return c.Out
	}
	return log.Default()
}

// Checkpoint saves the weights every time the mean error reaches a new low,
// checking at most every Interval iterations.
type Checkpoint struct {
	BaseCallback
	Filename string
	Interval int // 0 or 1 checks every iteration
	Out      *log.Logger

	best  float64
	saves int
	err   error
}

// NewCheckpoint creates a Checkpoint writing to filename.
func NewCheckpoint(filename string, interval int) *Checkpoint {
	return &Checkpoint{
		Filename: filename,
		Interval: interval,
		best:     math.Inf(1),
	}
}

func (c *Checkpoint) OnTrainBegin(n *Network) {
	c.best = math.Inf(1)
	c.saves = 0
	c.err = nil
}

func (c *Checkpoint) OnIterationEnd(iteration int, meanError float64, n *Network) {
	if c.Interval > 1 && iteration%c.Interval != 0 {
		return
	}
	if meanError >= c.best {
		return
	}
	c.best = meanError
	if err := n.Weights().Save(c.Filename); err != nil {
		c.err = err
		c.logger().Printf("Error saving checkpoint: %v", err)
		return
	}
	c.saves++
}

// Best returns the lowest mean error saved so far.
func (c *Checkpoint) Best() float64 { return c.best }

// Saves returns how many checkpoints were written during the last run.
func (c *Checkpoint) Saves() int { return c.saves }

// Err returns the last save failure, if any.
func (c *Checkpoint) Err() error { return c.err }

func (c *Checkpoint) logger() *log.Logger {
	if c.Out != nil {
		return c.Out
	}
	return log.Default()
}
