package resume

import (
	"sync"

	"github.com/mafilu-cli/mafilu/filesystem"
	"github.com/metafates/gache"
)

// File keeps every record in one JSON object on disk.
type File struct {
	mu     sync.Mutex
	cacher *gache.Cache[map[string]string]
}

// NewFile returns a storage persisted at path through the active filesystem backend.
func NewFile(path string) *File {
	return &File{
		cacher: gache.New[map[string]string](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

func (f *File) load() (map[string]string, error) {
	cached, expired, err := f.cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]string), nil
	}
	return cached, nil
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	saved, err := f.load()
	if err != nil {
		return "", false, err
	}

	value, ok := saved[key]
	return value, ok, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	saved, err := f.load()
	if err != nil {
		return err
	}

	saved[key] = value
	return f.cacher.Set(saved)
}
