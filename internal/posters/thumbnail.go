package posters

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"sync"

	"github.com/nfnt/resize"

	"github.com/cineniche/cineniche/internal/metrics"
)

// MaxThumbnailWidth bounds the width accepted by Thumbnail.
const MaxThumbnailWidth = 1000

// Thumbnail decodes imageData and returns a JPEG scaled to width, keeping
// the aspect ratio. Images narrower than width are re-encoded unscaled.
func Thumbnail(imageData []byte, width uint) ([]byte, error) {
	if width == 0 || width > MaxThumbnailWidth {
		return nil, fmt.Errorf("thumbnail width must be between 1 and %d", MaxThumbnailWidth)
	}
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := img
	if uint(img.Bounds().Dx()) > width {
		resized = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	metrics.PosterThumbnails.Inc()
	return buf.Bytes(), nil
}

type thumbKey struct {
	file  string
	width uint
}

// ThumbnailCache remembers rendered thumbnails until Clear is called.
type ThumbnailCache struct {
	mu    sync.RWMutex
	items map[thumbKey][]byte
}

func NewThumbnailCache() *ThumbnailCache {
	return &ThumbnailCache{items: make(map[thumbKey][]byte)}
}

// Get returns the cached thumbnail, rendering it with load on a miss.
func (c *ThumbnailCache) Get(file string, width uint, load func() ([]byte, error)) ([]byte, error) {
	key := thumbKey{file, width}
	c.mu.RLock()
	data, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return data, nil
	}

	raw, err := load()
	if err != nil {
		return nil, err
	}
	data, err = Thumbnail(raw, width)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.items[key] = data
	c.mu.Unlock()
	return data, nil
}

// Clear drops every cached thumbnail.
func (c *ThumbnailCache) Clear() {
	c.mu.Lock()
	c.items = make(map[thumbKey][]byte)
	c.mu.Unlock()
}
