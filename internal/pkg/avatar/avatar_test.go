package avatar

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestAvatarDeterministic(t *testing.T) {
	g, err := NewGenerator(DefaultSize, "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	first, err := g.Avatar("footballGuy")
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}
	second, err := g.Avatar("footballGuy")
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("repeated renders of the same username differ")
	}
}

func TestAvatarCaseInsensitive(t *testing.T) {
	g, err := NewGenerator(DefaultSize, "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	lower, err := g.Avatar("soccerlover")
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}
	mixed, err := g.Avatar("SoccerLover")
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}

	if !bytes.Equal(lower, mixed) {
		t.Error("username casing changed the rendered avatar")
	}
}

func TestAvatarServedFromCache(t *testing.T) {
	g, err := NewGenerator(DefaultSize, "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	first, err := g.Avatar("Alice")
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}
	second, err := g.Avatar("alice")
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}

	// Both casings share one cache entry keyed by the lower-cased name
	if len(g.cache) != 1 {
		t.Errorf("cache holds %d entries, want 1", len(g.cache))
	}
	// The second call must return the cached slice, not a fresh render
	if &first[0] != &second[0] {
		t.Error("second call re-rendered instead of returning the cached bytes")
	}
}

func TestAvatarConcurrentAccess(t *testing.T) {
	g, err := NewGenerator(DefaultSize, "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	names := []string{"alice", "Alice", "bob", "BOB", "zelda"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		for _, name := range names {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				if _, err := g.Avatar(name); err != nil {
					t.Errorf("Avatar(%q): %v", name, err)
				}
			}(name)
		}
	}
	wg.Wait()

	// Three distinct lower-cased names, three entries
	if len(g.cache) != 3 {
		t.Errorf("cache holds %d entries, want 3", len(g.cache))
	}

	// After the race settles, every name is served from the cache
	for _, name := range names {
		got, err := g.Avatar(name)
		if err != nil {
			t.Fatalf("Avatar(%q): %v", name, err)
		}
		cached, err := g.Avatar(name)
		if err != nil {
			t.Fatalf("Avatar(%q): %v", name, err)
		}
		if &got[0] != &cached[0] {
			t.Errorf("Avatar(%q) not served from cache after warm-up", name)
		}
	}
}

func TestAvatarDimensions(t *testing.T) {
	const size = 64
	g, err := NewGenerator(size, "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	data, err := g.Avatar("footballGuy")
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated avatar is not valid PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != size || bounds.Dy() != size {
		t.Errorf("avatar dimensions = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), size, size)
	}
}

func TestColorBucket(t *testing.T) {
	tests := []struct {
		initial rune
		want    string
	}{
		{'a', bucketColors[0]},
		{'d', bucketColors[0]},
		{'e', bucketColors[1]},
		{'j', bucketColors[1]},
		{'k', bucketColors[2]},
		{'n', bucketColors[2]},
		{'o', bucketColors[3]},
		{'u', bucketColors[3]},
		{'v', bucketColors[4]},
		{'z', bucketColors[4]},
		{'3', bucketColors[0]},
		{'_', bucketColors[0]},
	}

	for _, tt := range tests {
		if got := colorBucket(tt.initial); got != tt.want {
			t.Errorf("colorBucket(%q) = %s, want %s", tt.initial, got, tt.want)
		}
	}
}

func TestDifferentBucketsRenderDifferently(t *testing.T) {
	g, err := NewGenerator(DefaultSize, "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	a, err := g.Avatar("alice")
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}
	z, err := g.Avatar("zelda")
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}

	if bytes.Equal(a, z) {
		t.Error("usernames from different buckets rendered identically")
	}
}

func TestAvatarPersistence(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(DefaultSize, dir)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	if _, err := g.Avatar("FootballGuy"); err != nil {
		t.Fatalf("Avatar: %v", err)
	}

	ref := g.Ref("FootballGuy")
	if want := filepath.Join(dir, "footballguy.png"); ref != want {
		t.Errorf("Ref = %q, want %q", ref, want)
	}

	if _, err := os.Stat(ref); err != nil {
		t.Errorf("persisted avatar missing: %v", err)
	}
}

func TestRefWithoutPersistence(t *testing.T) {
	g, err := NewGenerator(DefaultSize, "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	if ref := g.Ref("footballGuy"); ref != "" {
		t.Errorf("Ref without persistence dir = %q, want empty", ref)
	}
}
