package app

import (
	"math/rand"
	"time"
)

// CountdownState is the phase of a round clock.
type CountdownState int

const (
	CountdownPaused CountdownState = iota
	CountdownRunning
	CountdownExpired
)

func (s CountdownState) String() string {
	switch s {
	case CountdownRunning:
		return "running"
	case CountdownExpired:
		return "expired"
	default:
		return "paused"
	}
}

// Countdown counts whole seconds down to zero. It is advanced by Tick and has a
// single owner; it does no locking of its own.
type Countdown struct {
	limit int
	left  int
	state CountdownState
}

// NewCountdown returns a paused countdown at limit.
func NewCountdown(limit int) *Countdown {
	return &Countdown{limit: limit, left: limit, state: CountdownPaused}
}

func (c *Countdown) Left() int             { return c.left }
func (c *Countdown) State() CountdownState { return c.state }

// Resume starts or continues the countdown unless it has expired.
func (c *Countdown) Resume() {
	if c.state == CountdownPaused {
		c.state = CountdownRunning
	}
}

// Pause suspends ticking.
func (c *Countdown) Pause() {
	if c.state == CountdownRunning {
		c.state = CountdownPaused
	}
}

// Reset rewinds to the limit and leaves the countdown paused.
func (c *Countdown) Reset() {
	c.left = c.limit
	c.state = CountdownPaused
}

// Tick decrements a running countdown and reports whether it just expired.
func (c *Countdown) Tick() bool {
	if c.state != CountdownRunning {
		return false
	}
	if c.left > 0 {
		c.left--
	}
	if c.left == 0 {
		c.state = CountdownExpired
		return true
	}
	return false
}

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs a callback once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Shuffler permutes n elements through swap, with the signature of rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// Chooser draws a uniform index in [0, n).
type Chooser func(n int) int

// Randomness bundles the random sources a single game draws from.
type Randomness struct {
	Shuffle Shuffler
	Choose  Chooser
}

// SeededRandomness derives both sources from one seed.
func SeededRandomness(seed int64) Randomness {
	rnd := rand.New(rand.NewSource(seed))
	return Randomness{Shuffle: rnd.Shuffle, Choose: rnd.Intn}
}

func (r Randomness) orDefault() Randomness {
	if r.Shuffle == nil || r.Choose == nil {
		def := SeededRandomness(time.Now().UnixNano())
		if r.Shuffle == nil {
			r.Shuffle = def.Shuffle
		}
		if r.Choose == nil {
			r.Choose = def.Choose
		}
	}
	return r
}
