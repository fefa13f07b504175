package speech

import (
	"sync"

	"go.uber.org/zap"
)

// Synthesizer. the platform speech output. Speak starts asynchronous
// playback, Speaking reports whether playback is still in progress, Stop
// interrupts it.
type Synthesizer interface {
	Speak(text string)
	Stop()
	Speaking() bool
}

// Queue serializes utterances: an instruction that becomes due while
// another is still playing is deferred, never overlapped. Flush is driven
// by the caller (typically from the same sample loop that enqueues), so no
// timer is involved.
type Queue struct {
	log   *zap.Logger
	mu    sync.Mutex
	synth Synthesizer
	queue []string
}

func NewQueue(log *zap.Logger, synth Synthesizer) *Queue {
	return &Queue{log: log, synth: synth}
}

// Say speaks text immediately when the synthesizer is idle, otherwise
// defers it behind the in-progress utterance.
func (q *Queue) Say(text string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.synth.Speaking() || len(q.queue) > 0 {
		q.queue = append(q.queue, text)
		return
	}
	q.synth.Speak(text)
}

// Flush plays the next deferred utterance if the synthesizer has gone
// idle. Called once per position sample.
func (q *Queue) Flush() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.synth.Speaking() || len(q.queue) == 0 {
		return
	}
	next := q.queue[0]
	q.queue = q.queue[1:]
	q.synth.Speak(next)
}

// Stop interrupts playback and drops everything deferred.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue = nil
	q.synth.Stop()
}
