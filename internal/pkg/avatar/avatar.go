package avatar

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/dcanli/fieldside/internal/pkg/logger"
)

// DefaultSize is the avatar edge length in pixels.
const DefaultSize = 100

// bucketColors are the fixed background colors for the five alphabet
// buckets a-d, e-j, k-n, o-u and v-z. Non-letter initials take the first
// bucket.
var bucketColors = [5]string{
	"#5A8770",
	"#B2B7BB",
	"#6FA9AB",
	"#F5A25D",
	"#95A2B3",
}

// colorBucket maps a lower-cased initial onto its background color.
func colorBucket(r rune) string {
	switch {
	case r >= 'a' && r <= 'd':
		return bucketColors[0]
	case r >= 'e' && r <= 'j':
		return bucketColors[1]
	case r >= 'k' && r <= 'n':
		return bucketColors[2]
	case r >= 'o' && r <= 'u':
		return bucketColors[3]
	case r >= 'v' && r <= 'z':
		return bucketColors[4]
	default:
		return bucketColors[0]
	}
}

// Generator derives deterministic letter avatars from usernames. Generated
// PNG bytes are cached per lower-cased username and never mutated after the
// first write; duplicate computation under concurrency is benign.
type Generator struct {
	size int
	dir  string // optional persistence directory, empty disables it
	face font.Face

	mu    sync.RWMutex
	cache map[string][]byte
}

// NewGenerator creates a Generator rendering size x size avatars. If dir is
// non-empty, generated images are also persisted there as <username>.png.
func NewGenerator(size int, dir string) (*Generator, error) {
	if size <= 0 {
		size = DefaultSize
	}

	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse avatar font: %w", err)
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size: float64(size) * 0.7,
	})

	if dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create avatar directory %s: %w", dir, err)
		}
	}

	return &Generator{
		size:  size,
		dir:   dir,
		face:  face,
		cache: make(map[string][]byte),
	}, nil
}

// Avatar returns the PNG bytes for a username. The derivation is
// case-insensitive and deterministic; repeated calls hit the cache.
func (g *Generator) Avatar(username string) ([]byte, error) {
	key := strings.ToLower(username)

	g.mu.RLock()
	data, ok := g.cache[key]
	g.mu.RUnlock()
	if ok {
		return data, nil
	}

	data, err := g.render(key)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	// First write wins; a concurrent render of the same username produced
	// identical bytes anyway.
	if existing, ok := g.cache[key]; ok {
		data = existing
	} else {
		g.cache[key] = data
	}
	g.mu.Unlock()

	if g.dir != "" {
		g.persist(key, data)
	}

	return data, nil
}

// Ref returns the persisted file reference for a username, or "" when
// persistence is disabled.
func (g *Generator) Ref(username string) string {
	if g.dir == "" {
		return ""
	}
	return filepath.Join(g.dir, strings.ToLower(username)+".png")
}

// render rasterizes the avatar: the bucket color fills the square and the
// upper-cased initial is drawn in white with the baseline at 75% height.
func (g *Generator) render(key string) ([]byte, error) {
	initial := 'a'
	for _, r := range key {
		initial = unicode.ToLower(r)
		break
	}

	dc := gg.NewContext(g.size, g.size)
	dc.SetHexColor(colorBucket(initial))
	dc.Clear()

	dc.SetFontFace(g.face)
	dc.SetHexColor("#FFFFFF")
	letter := strings.ToUpper(string(initial))
	dc.DrawStringAnchored(letter, float64(g.size)/2, float64(g.size)*0.75, 0.5, 0)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode avatar png: %w", err)
	}

	return buf.Bytes(), nil
}

// persist writes the generated bytes to disk, best effort. The file content
// is derived state; a failed write only costs a re-render after restart.
func (g *Generator) persist(key string, data []byte) {
	path := filepath.Join(g.dir, key+".png")
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to persist avatar image")
	}
}
