package routing

import (
	"net/http"
	"sync"
	"time"
)

// HTTPProbe. ConnectivityProbe that HEADs a well-known endpoint, with the
// result held for a short interval so the check does not run on every
// acquisition.
type HTTPProbe struct {
	mu         sync.Mutex
	client     *http.Client
	probeURL   string
	holdFor    time.Duration
	lastCheck  time.Time
	lastOnline bool
}

func NewHTTPProbe(probeURL string) *HTTPProbe {
	return &HTTPProbe{
		client:   &http.Client{Timeout: 3 * time.Second},
		probeURL: probeURL,
		holdFor:  10 * time.Second,
	}
}

func (p *HTTPProbe) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.lastCheck) < p.holdFor {
		return p.lastOnline
	}

	resp, err := p.client.Head(p.probeURL)
	if err == nil {
		resp.Body.Close()
	}
	p.lastCheck = time.Now()
	p.lastOnline = err == nil
	return p.lastOnline
}

// StaticProbe. fixed connectivity answer, used in tests and in embedded
// builds where the host application reports connectivity itself.
type StaticProbe bool

func (s StaticProbe) Online() bool {
	return bool(s)
}
