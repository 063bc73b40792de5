package review

import (
	"math/rand/v2"

	"github.com/at-ishikawa/devnote/internal/journal"
)

// Sampler picks a log uniformly at random, ignoring scores and due dates.
type Sampler struct {
	rand *rand.Rand
}

// NewSampler returns a Sampler drawing from source. Pass a seeded source for reproducible picks;
// a nil source is seeded randomly.
func NewSampler(source rand.Source) *Sampler {
	if source == nil {
		source = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Sampler{rand: rand.New(source)}
}

// Pick returns one of logs, or false when logs is empty.
func (s *Sampler) Pick(logs []journal.LogRecord) (journal.LogRecord, bool) {
	if len(logs) == 0 {
		return journal.LogRecord{}, false
	}
	return logs[s.rand.IntN(len(logs))], true
}
