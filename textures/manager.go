package textures

import (
	"sync"

	"soft-render/core"
)

const defaultKey = "__default_white__"

// Manager caches textures by path.
type Manager struct {
	textures map[string]*Texture
	mu       sync.RWMutex
	wrap     WrapMode
}

// NewManager returns a cache that applies wrap to every texture it loads.
func NewManager(wrap WrapMode) *Manager {
	return &Manager{
		textures: make(map[string]*Texture),
		wrap:     wrap,
	}
}

// Load loads a texture, returning the cached one if available.
func (m *Manager) Load(path string) (*Texture, error) {
	m.mu.RLock()
	if tex, ok := m.textures[path]; ok {
		m.mu.RUnlock()
		return tex, nil
	}
	m.mu.RUnlock()

	tex, err := Load(path)
	if err != nil {
		return nil, err
	}
	tex.Wrap = m.wrap

	m.mu.Lock()
	m.textures[path] = tex
	m.mu.Unlock()
	return tex, nil
}

// GetOrDefault returns the texture at path, or a white 1x1 texture when
// path is empty or fails to load.
func (m *Manager) GetOrDefault(path string) *Texture {
	if path == "" {
		return m.Default()
	}
	tex, err := m.Load(path)
	if err != nil {
		core.Logger().Warn("texture fallback to white", "path", path, "err", err)
		return m.Default()
	}
	return tex
}

func (m *Manager) Default() *Texture {
	m.mu.RLock()
	if tex, ok := m.textures[defaultKey]; ok {
		m.mu.RUnlock()
		return tex
	}
	m.mu.RUnlock()

	tex := CreateSolidColorTexture(defaultKey, core.ColorWhite)
	m.mu.Lock()
	m.textures[defaultKey] = tex
	m.mu.Unlock()
	return tex
}

// Len returns the number of cached textures.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.textures)
}
