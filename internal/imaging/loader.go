package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"io"
	"os"
	"strings"
	"sync"
)

// ImageCache keeps decoded source images keyed by file path so repeated
// conversions of the same file (for example with different color counts)
// skip disk I/O and decoding.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	img    image.Image
	format string
	size   int64
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[string]cacheEntry),
	}
}

// Load returns the decoded image at path, reading it from disk on the
// first call. Supported formats are PNG, JPEG, and GIF.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (c *ImageCache) load(path string) (cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.entries[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return cacheEntry{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return cacheEntry{}, fmt.Errorf("failed to stat file: %w", err)
	}

	img, format, err := Decode(f)
	if err != nil {
		return cacheEntry{}, err
	}

	e := cacheEntry{img: img, format: format, size: stat.Size()}
	c.mu.Lock()
	c.entries[path] = e
	c.mu.Unlock()

	return e, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a source image and the size it will be
// processed at.
type ImageInfo struct {
	// Width and Height are the source dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// WorkingWidth and WorkingHeight are the dimensions after the
	// longer side has been capped at the maximum working dimension.
	WorkingWidth  int `json:"working_width"`
	WorkingHeight int `json:"working_height"`

	// Format is the decoder that recognised the data: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	// Alpha is ignored by the conversion.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads the image at path through the cache and describes it.
// maxDimension is the working-size bound used to compute WorkingWidth and
// WorkingHeight; a value <= 0 means no bound.
func LoadImageInfo(cache *ImageCache, path string, maxDimension int) (*ImageInfo, error) {
	e, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	bounds := e.img.Bounds()
	ww, wh := WorkingSize(bounds.Dx(), bounds.Dy(), maxDimension)

	hasAlpha := false
	switch e.img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		WorkingWidth:  ww,
		WorkingHeight: wh,
		Format:        e.format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: e.size,
	}, nil
}

// Decode reads an encoded image and returns it with the detected format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// DecodeBase64 decodes a base64-encoded PNG, JPEG or GIF. A leading data
// URL header such as "data:image/png;base64," is accepted and stripped.
func DecodeBase64(s string) (image.Image, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	if s == "" {
		return nil, fmt.Errorf("empty image data")
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	img, _, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// EncodePNGBase64 encodes img as PNG and returns the base64 string.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
