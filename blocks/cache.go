package blocks

import (
	"sync"

	"panelbar/pixel"
)

// cache is a block's last rendered bitmap. It is the only state shared with
// the interval goroutine. The generation counter lets a render that raced
// with a clear detect that its result is already stale.
type cache struct {
	mu  sync.Mutex
	img *pixel.Image
	gen uint64
}

// get returns the cached image (nil if invalid) and the current generation.
func (c *cache) get() (*pixel.Image, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img, c.gen
}

// put stores img unless the cache was cleared after gen was read.
func (c *cache) put(img *pixel.Image, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.img = img
	return true
}

func (c *cache) clear() {
	c.mu.Lock()
	c.img = nil
	c.gen++
	c.mu.Unlock()
}
