// Package idgen allocates numeric ids for new entities.
package idgen

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// Generator hands out ids for Conference, Session and Speaker keys.
type Generator interface {
	NextID() int64
}

// SonyFlakeGenerator produces positive ids that increase roughly in time
// order, so they sort like creation time.
type SonyFlakeGenerator struct {
	sf *sonyflake.Sonyflake
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewFlakeGenerator creates a generator. sonyflake derives the machine id
// from the host's private IP and fails when there is none.
func NewFlakeGenerator() (*SonyFlakeGenerator, error) {
	sf, err := sonyflake.New(sonyflake.Settings{StartTime: epoch})
	if err != nil {
		return nil, err
	}
	if sf == nil {
		return nil, errors.New("failed to create Sonyflake instance")
	}
	return &SonyFlakeGenerator{sf: sf}, nil
}

// NextID returns the next id. If the clock has run past sonyflake's range
// it falls back to a random positive id.
func (g *SonyFlakeGenerator) NextID() int64 {
	v, err := g.sf.NextID()
	if err != nil {
		return rand.Int64N(1<<62) + 1
	}
	return int64(v)
}

var (
	defaultOnce sync.Once
	defaultGen  Generator
)

// Default returns a process-wide generator. Hosts without a private IP get
// a random machine id.
func Default() Generator {
	defaultOnce.Do(func() {
		g, err := NewFlakeGenerator()
		if err == nil {
			defaultGen = g
			return
		}
		machineID := uint16(rand.UintN(1 << 16))
		defaultGen = &SonyFlakeGenerator{sf: sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: epoch,
			MachineID: func() (uint16, error) { return machineID, nil },
		})}
	})
	return defaultGen
}
