package scene

import (
	"sync"

	"github.com/google/uuid"
)

// Tracker 记录尚未释放的几何体与纹理，用于发现资源泄漏。
// nil *Tracker 可直接使用，此时不做任何记录。
type Tracker struct {
	mu       sync.Mutex
	live     map[uuid.UUID]string
	released int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{live: map[uuid.UUID]string{}}
}

// Geometry registers g and returns it.
func (t *Tracker) Geometry(g *Geometry) *Geometry {
	if t == nil || g == nil {
		return g
	}
	g.owner = t
	t.add(g.ID, "geometry")
	return g
}

// Texture registers tex and returns it.
func (t *Tracker) Texture(tex *Texture) *Texture {
	if t == nil || tex == nil {
		return tex
	}
	tex.owner = t
	t.add(tex.ID, "texture")
	return tex
}

func (t *Tracker) add(id uuid.UUID, kind string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.live[id] = kind
}

func (t *Tracker) forget(id uuid.UUID) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.live[id]; ok {
		delete(t.live, id)
		t.released++
	}
}

// Live returns the number of registered resources not yet released.
func (t *Tracker) Live() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// Released returns how many registered resources were released.
func (t *Tracker) Released() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}
