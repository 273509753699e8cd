package episodes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Vovarama1992/always_evening/internal/ports"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Cache keeps one directory of audio per episode under a single root.
type Cache struct {
	root string
}

func NewCache(root string) (*Cache, error) {
	if root == "" {
		return nil, fmt.Errorf("cache root is empty")
	}
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	return &Cache{root: root}, nil
}

func (c *Cache) Root() string {
	return c.root
}

func (c *Cache) Dir(id string) (string, error) {
	if !ValidID(id) {
		return "", ErrInvalidID
	}
	return filepath.Join(c.root, id), nil
}

func (c *Cache) Create(id string) (string, error) {
	dir, err := c.Dir(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create episode dir: %w", err)
	}
	return dir, nil
}

func (c *Cache) Exists(id string) bool {
	dir, err := c.Dir(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// LineFileName is "<order padded to 3>_<SPEAKER>.mp3", so names sort in play order.
func LineFileName(order int, speaker ports.Speaker) string {
	return fmt.Sprintf("%03d_%s%s", order, speaker, audioExt)
}

// WriteLine stores synthesized audio for one line and returns the file name.
func (c *Cache) WriteLine(id string, order int, speaker ports.Speaker, data []byte) (string, error) {
	name := LineFileName(order, speaker)
	if err := c.WriteFile(id, name, data); err != nil {
		return "", err
	}
	return name, nil
}

func (c *Cache) WriteFile(id, name string, data []byte) error {
	if !validSegment(name) {
		return ErrInvalidName
	}
	dir, err := c.Create(id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// OpenAudio opens a cached mp3; the caller closes the file.
func (c *Cache) OpenAudio(id, name string) (*os.File, os.FileInfo, error) {
	dir, err := c.Dir(id)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidAudioName(name); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}

// Files lists the regular files of an episode, sorted by name.
func (c *Cache) Files(id string) ([]string, error) {
	dir, err := c.Dir(id)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read episode dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
