package sources

import (
	"math/rand"
	"sync"

	"github.com/alisaviation/exporter/internal/models"
)

// Simulator produces synthetic load figures for dashboards that need moving lines.
type Simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulator(seed int64) *Simulator {
	return &Simulator{rnd: rand.New(rand.NewSource(seed))}
}

func (s *Simulator) Sample() models.SimulatedLoad {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.SimulatedLoad{
		ActiveUsers: float64(100 + s.rnd.Intn(201)),
		RequestRate: 50 + s.rnd.Float64()*150,
		RandomLoad:  10 + s.rnd.Float64()*80,
	}
}
