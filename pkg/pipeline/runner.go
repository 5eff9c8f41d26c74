package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowdeck/pkg/cache"
	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/persist"
	"github.com/matzehuels/flowdeck/pkg/render"
	"github.com/matzehuels/flowdeck/pkg/store"
)

// Runner renders documents with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Registry *persist.Registry
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute decodes doc and renders it in every requested format.
func (r *Runner) Execute(ctx context.Context, doc persist.Document, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := DocumentHash(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{DocumentHash: hash}

	decodeStart := time.Now()
	g, err := r.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Graph = g
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.Elements = g.Len()
	result.Stats.Connections = g.ConnectionCount()

	r.Logger.Debug("decoded document",
		"elements", result.Stats.Elements,
		"connections", result.Stats.Connections,
		"duration", result.Stats.DecodeTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, g, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Decode deserializes doc into a fresh graph.
func (r *Runner) Decode(doc persist.Document) (*diagram.Graph, error) {
	els, _, err := doc.Elements(r.Registry)
	if err != nil {
		return nil, err
	}
	g := diagram.New()
	if err := g.AddAll(els); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvariant, err, "build graph")
	}
	return g, nil
}

// RenderWithCacheInfo renders g in every requested format and reports
// whether all artifacts came from the cache. docHash identifies the
// document g was decoded from.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *diagram.Graph, docHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(docHash, opts.Render.KeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		allCached = false

		data, err := render.Render(g, format, opts.Render)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "err", err)
		}
	}
	return artifacts, allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *diagram.Graph, docHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, docHash, opts)
	return artifacts, err
}

// FetchDocument loads name from s. Documents from remote backends are
// cached for [cache.TTLDocument]; refresh bypasses the cached copy.
func (r *Runner) FetchDocument(ctx context.Context, s store.Store, backend, name string, refresh bool) (persist.Document, error) {
	remote := backend == store.BackendRedis || backend == store.BackendMongo
	key := r.Keyer.DocumentKey(backend, name)

	if remote && !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := persist.ReadDocument(bytes.NewReader(data)); err == nil {
				r.Logger.Debug("document from cache", "backend", backend, "name", name)
				return doc, nil
			}
		}
	}

	doc, err := s.Load(ctx, name)
	if err != nil {
		return persist.Document{}, err
	}

	if remote {
		var buf bytes.Buffer
		if err := persist.WriteDocument(&buf, doc); err == nil {
			_ = r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLDocument)
		}
	}
	return doc, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// DocumentHash returns the content hash of doc's encoded form.
func DocumentHash(doc persist.Document) (string, error) {
	var buf bytes.Buffer
	if err := persist.WriteDocument(&buf, doc); err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}
