package analytics

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"sensor-analytics-api/models"
)

const (
	TemperatureMean   = 22.5
	TemperatureStdDev = 2.0
	HumidityMean      = 55.0
	HumidityStdDev    = 5.0

	ReadingInterval = time.Minute
)

var ErrInvalidArgument = errors.New("invalid argument")

// Generator fabricates synthetic sensor readings. It is safe for concurrent
// use; the random source is shared behind a mutex.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

type GeneratorOption func(*Generator)

// WithRand replaces the process-wide random source, e.g. with a seeded one.
func WithRand(rnd *rand.Rand) GeneratorOption {
	return func(g *Generator) {
		g.rnd = rnd
	}
}

// WithClock overrides how the reference instant is taken.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns count readings one minute apart, oldest first, the last
// one stamped with the reference instant.
func (g *Generator) Generate(count int) ([]models.SensorReading, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: record count must be positive, got %d", ErrInvalidArgument, count)
	}

	end := g.now().Truncate(time.Second)
	readings := make([]models.SensorReading, count)

	g.mu.Lock()
	defer g.mu.Unlock()

	for k := range readings {
		readings[k] = models.SensorReading{
			Timestamp:   end.Add(-time.Duration(count-1-k) * ReadingInterval),
			SensorID:    models.SensorIDs[g.rnd.IntN(len(models.SensorIDs))],
			Temperature: g.rnd.NormFloat64()*TemperatureStdDev + TemperatureMean,
			Humidity:    g.rnd.NormFloat64()*HumidityStdDev + HumidityMean,
		}
	}

	return readings, nil
}
