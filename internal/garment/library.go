package garment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrModelNotFound indicates no pretrained model file exists for the id.
var ErrModelNotFound = errors.New("no pretrained model available")

// Library loads pretrained garment models from disk and keeps them in a
// bounded LRU cache. Concurrent first loads of the same id are
// coalesced through singleflight, so a model is constructed at most
// once; cached entries are immutable and shared.
type Library struct {
	root  string
	cache *lru.Cache[string, *Model]
	group singleflight.Group
	log   *zap.Logger
}

// NewLibrary creates a Library rooted at the model directory. A nil
// logger disables logging.
func NewLibrary(root string, cacheSize int, log *zap.Logger) (*Library, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = 32
	}
	cache, err := lru.New[string, *Model](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating model cache: %w", err)
	}
	return &Library{root: root, cache: cache, log: log}, nil
}

// Has reports whether a model file exists for the garment id.
func (l *Library) Has(id string) bool {
	_, err := os.Stat(l.modelPath(id))
	return err == nil
}

// Load returns the model for id, loading and caching it on first use.
func (l *Library) Load(id string) (*Model, error) {
	if model, ok := l.cache.Get(id); ok {
		return model, nil
	}

	value, err, _ := l.group.Do(id, func() (any, error) {
		// A concurrent winner may have populated the cache already.
		if model, ok := l.cache.Get(id); ok {
			return model, nil
		}

		path := l.modelPath(id)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w for %s", ErrModelNotFound, id)
		}
		model, err := LoadModel(path)
		if err != nil {
			return nil, err
		}
		l.cache.Add(id, model)
		l.log.Info("loaded pretrained garment model",
			zap.String("garment", id),
			zap.Int("vertices", len(model.BaseVerts)),
			zap.Int("components", len(model.Components)))
		return model, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Model), nil
}

func (l *Library) modelPath(id string) string {
	return filepath.Join(l.root, id+".json")
}
