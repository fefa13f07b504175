package tracker

import (
	"sync"

	"github.com/cargoroute/guidance/pkg/datastructure"
)

// PushSource. a Source fed externally, by the websocket position ingest in
// the embedding server and by synthetic traces in tests.
type PushSource struct {
	mu      sync.Mutex
	onFix   func(datastructure.RawFix)
	onError func(error)
	active  bool
}

func NewPushSource() *PushSource {
	return &PushSource{}
}

func (p *PushSource) WatchPosition(onFix func(datastructure.RawFix), onError func(error)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFix = onFix
	p.onError = onError
	p.active = true

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.active = false
		p.onFix = nil
		p.onError = nil
	}, nil
}

// Push delivers one raw fix to the current watcher, in caller order.
func (p *PushSource) Push(fix datastructure.RawFix) {
	p.mu.Lock()
	onFix := p.onFix
	p.mu.Unlock()
	if onFix != nil {
		onFix(fix)
	}
}

func (p *PushSource) PushError(err error) {
	p.mu.Lock()
	onError := p.onError
	p.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}

func (p *PushSource) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}
