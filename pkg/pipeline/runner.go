package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rankplot/pkg/cache"
	docio "github.com/matzehuels/rankplot/pkg/io"
	"github.com/matzehuels/rankplot/pkg/observability"
	"github.com/matzehuels/rankplot/pkg/rank"
	"github.com/matzehuels/rankplot/pkg/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Plotted is the output of the plot stage: the scene and layout plus the
// hash of their JSON encoding, which keys the artifact cache.
type Plotted struct {
	sink.Document
	Hash string
	data []byte
}

// Execute runs the complete decode → plot → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Decode
	decodeStart := time.Now()
	in, docHash, err := r.Decode(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.DocHash = docHash
	result.Stats.DecodeTime = time.Since(decodeStart)

	// Stage 2: Plot
	plotStart := time.Now()
	p, sceneHit, err := r.PlotWithCacheInfo(ctx, in, docHash, opts)
	if err != nil {
		return nil, err
	}
	result.Scene = p.Scene
	result.Layout = p.Layout
	result.Stats.PlotTime = time.Since(plotStart)
	result.Stats.Columns, result.Stats.Rows = dims(p.Layout)
	result.CacheInfo.SceneHit = sceneHit

	opts.Logger.Info("plotted chart",
		"columns", result.Stats.Columns,
		"rows", result.Stats.Rows,
		"cached", sceneHit,
		"duration", result.Stats.PlotTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.Hit = hit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Decode reads the document in opts and returns the chart input together
// with its content hash. A pre-decoded opts.Input is hashed through its JSON
// export so equal charts share cache entries.
func (r *Runner) Decode(ctx context.Context, opts Options) (rank.Input, string, error) {
	if opts.Input != nil {
		var buf bytes.Buffer
		if err := docio.WriteJSON(opts.Input, &buf); err != nil {
			return nil, "", err
		}
		return opts.Input, cache.Hash(buf.Bytes()), nil
	}

	hooks := observability.Render()
	start := time.Now()
	hooks.OnDecodeStart(ctx, opts.DocFormat, len(opts.Document))
	in, err := docio.Read(bytes.NewReader(opts.Document), opts.DocFormat)
	hooks.OnDecodeComplete(ctx, opts.DocFormat, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}
	return in, cache.Hash(opts.Document), nil
}

// PlotWithCacheInfo draws in on a fresh figure, or loads the scene from the
// cache, and reports whether the cache was hit.
func (r *Runner) PlotWithCacheInfo(ctx context.Context, in rank.Input, docHash string, opts Options) (*Plotted, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()

	keyOpts, err := opts.SceneKeyOpts()
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.SceneKey(docHash, keyOpts)

	if !opts.Refresh {
		if p, ok := r.cachedScene(ctx, cacheKey); ok {
			observability.Cache().OnCacheHit(ctx, "scene")
			return p, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "scene")
	}

	p, err := Plot(ctx, in, opts)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, p.data, cache.TTLScene); err != nil {
		opts.Logger.Debug("cache write failed", "type", "scene", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "scene", len(p.data))
	}
	return p, false, nil
}

// Plot draws in on a new figure without touching the cache.
func Plot(ctx context.Context, in rank.Input, opts Options) (*Plotted, error) {
	opts.SetDefaults()
	plotOpts := opts.Plot
	if plotOpts.Logger == nil {
		plotOpts.Logger = opts.Logger
	}

	t, err := rank.Normalize(in)
	if err != nil {
		return nil, err
	}

	hooks := observability.Render()
	start := time.Now()
	hooks.OnPlotStart(ctx, t.Rows(), t.RowLen())
	fig := opts.figure()
	_, err = rank.Plot(fig, in, plotOpts)
	hooks.OnPlotComplete(ctx, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	layout := rank.ComputeLayout(t, opts.Width/opts.Height, plotOpts)
	scene := fig.Scene()
	data, err := sink.RenderJSON(scene, layout)
	if err != nil {
		return nil, err
	}
	return &Plotted{
		Document: sink.Document{Scene: scene, Layout: layout},
		Hash:     cache.Hash(data),
		data:     data,
	}, nil
}

func (r *Runner) cachedScene(ctx context.Context, key string) (*Plotted, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var doc sink.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false
	}
	return &Plotted{Document: doc, Hash: cache.Hash(data), data: data}, true
}

// RenderWithCacheInfo encodes p in every requested format and reports
// whether all artifacts came from the cache. Missing formats are encoded
// concurrently.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *Plotted, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if _, dup := artifacts[format]; dup {
			continue
		}
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(p.Hash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
		artifacts[format] = nil
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Render()
	start := time.Now()
	hooks.OnEncodeStart(ctx, missing)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range missing {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := Render(p, format, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	hooks.OnEncodeComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for _, format := range missing {
		key := r.Keyer.ArtifactKey(p.Hash, opts.ArtifactKeyOpts(format))
		data := artifacts[format]
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache write failed", "type", "artifact", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func dims(l rank.Layout) (columns, rows int) {
	if len(l.Columns) == 0 {
		return 0, 0
	}
	return len(l.Columns), len(l.Columns[0].Rects)
}
