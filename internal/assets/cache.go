package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"captioner/internal/fileutil"
	"captioner/internal/services"
)

// Artifact names inside a video directory.
const (
	AudioFile = "audio.mp3"
	TitleFile = "title.txt"
	// audioTemplate is handed to the downloader; the extractor replaces the
	// extension placeholder with the fixed encoding.
	audioTemplate = "audio.%(ext)s"
)

// Record describes a cached audio asset.
type Record struct {
	Key       string
	Dir       string
	AudioPath string
	TitlePath string
	Title     string
}

// Cache maps VideoKeys to directories under a cache root.
type Cache struct {
	root string
}

// NewCache returns a cache rooted at root.
func NewCache(root string) Cache {
	return Cache{root: root}
}

// Root returns the cache root directory.
func (c Cache) Root() string { return c.root }

// Dir returns the directory for key.
func (c Cache) Dir(key string) string { return filepath.Join(c.root, key) }

// AudioPath returns the audio artifact path for key.
func (c Cache) AudioPath(key string) string { return filepath.Join(c.root, key, AudioFile) }

// TitlePath returns the title artifact path for key.
func (c Cache) TitlePath(key string) string { return filepath.Join(c.root, key, TitleFile) }

func (c Cache) record(key, title string) Record {
	return Record{
		Key:       key,
		Dir:       c.Dir(key),
		AudioPath: c.AudioPath(key),
		TitlePath: c.TitlePath(key),
		Title:     title,
	}
}

// Lookup returns the cached record for key when both artifacts exist.
func (c Cache) Lookup(key string) (Record, bool, error) {
	audioOK, err := fileutil.FileExists(c.AudioPath(key))
	if err != nil {
		return Record{}, false, services.Wrap(services.ErrCorruptCache, services.StageFetch, "lookup", "stat audio", err)
	}
	title, titleOK, err := c.readTitle(key)
	if err != nil {
		return Record{}, false, err
	}
	if !audioOK || !titleOK {
		return Record{}, false, nil
	}
	return c.record(key, title), true, nil
}

// readTitle returns the persisted title, if any.
func (c Cache) readTitle(key string) (string, bool, error) {
	path := c.TitlePath(key)
	ok, err := fileutil.FileExists(path)
	if err != nil {
		return "", false, services.Wrap(services.ErrCorruptCache, services.StageFetch, "lookup", "stat title", err)
	}
	if !ok {
		return "", false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, services.Wrap(services.ErrCorruptCache, services.StageFetch, "lookup", fmt.Sprintf("read %s", path), err)
	}
	return string(data), true, nil
}

func (c Cache) writeTitle(key, title string) error {
	if err := os.MkdirAll(c.Dir(key), 0o755); err != nil {
		return services.DirectoryError(services.ErrDirectoryNotWritable, c.Dir(key), err)
	}
	if err := fileutil.WriteFileAtomic(c.TitlePath(key), []byte(title), 0o644); err != nil {
		return services.DirectoryError(services.ErrDirectoryNotWritable, c.TitlePath(key), err)
	}
	return nil
}
