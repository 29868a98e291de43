// Package scheduler partitions a frame into tiles and dispatches them to a
// worker pool, per spec.md §4.6. It continues the teacher's
// internal/loader/voxel_core.go pattern of a pond worker pool consuming
// fixed-size chunks of a grid, retargeted from voxel generation onto pixel
// tiles. Workers are joined through a WaitGroup and also check an atomic
// running flag before each tile and each pixel (spec.md §4.6's "check
// running; exit if false"); pond's StopAndWait only marks the end time.
package scheduler

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	pond "github.com/alitto/pond/v2"

	"goray/internal/logger"
	"goray/internal/scene"

	"go.uber.org/zap"
)

// DefaultTileSize is spec.md §4.6's fixed tile size B.
const DefaultTileSize = 2

// Tile is an inclusive pixel rectangle.
type Tile struct {
	X0, X1, Y0, Y1 int
}

// Renderer is the capability the scheduler needs from the integrator: render
// one pixel. goray/internal/integrator.Integrator.Render satisfies this.
type Renderer interface {
	Render(x, y int) scene.PixelData
}

// Scheduler drives a worker pool over a frame's tiles, per spec.md §4.6's
// per-render state: frame dimensions, running flag, FIFO tile queue,
// aggregator channel, pixel counter, start time, and worker count.
type Scheduler struct {
	Width, Height int
	TileSize      int
	Workers       int

	render Renderer

	running   atomic.Bool
	pixels    atomic.Int64
	startTime time.Time
	endTime   time.Time

	Pixels chan scene.PixelData

	wg sync.WaitGroup
}

// New returns a Scheduler bound to the given renderer, sized for a w x h
// frame. Workers defaults to runtime.NumCPU() when workers <= 0.
func New(render Renderer, w, h, workers int) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scheduler{
		Width: w, Height: h,
		TileSize: DefaultTileSize,
		Workers:  workers,
		render:   render,
		Pixels:   make(chan scene.PixelData, w*h),
	}
}

// partition splits the frame into fixed-size inclusive tiles, clamping the
// last tile in each row/column, per spec.md §4.6 step 1.
func (s *Scheduler) partition() []Tile {
	var tiles []Tile
	for y0 := 0; y0 < s.Height; y0 += s.TileSize {
		y1 := y0 + s.TileSize - 1
		if y1 >= s.Height {
			y1 = s.Height - 1
		}
		for x0 := 0; x0 < s.Width; x0 += s.TileSize {
			x1 := x0 + s.TileSize - 1
			if x1 >= s.Width {
				x1 = s.Width - 1
			}
			tiles = append(tiles, Tile{X0: x0, X1: x1, Y0: y0, Y1: y1})
		}
	}
	return tiles
}

// Start partitions, shuffles and dispatches the frame's tiles to the worker
// pool, per spec.md §4.6. It returns once every worker has been spawned; it
// does not block for completion (read Pixels or poll IsDone).
func (s *Scheduler) Start() {
	tiles := s.partition()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })

	s.pixels.Store(0)
	s.startTime = time.Now()
	s.endTime = time.Time{}
	s.running.Store(true)

	var mu sync.Mutex
	queue := tiles

	pool := pond.NewPool(s.Workers)

	popTile := func() (Tile, bool) {
		mu.Lock()
		defer mu.Unlock()
		if len(queue) == 0 {
			return Tile{}, false
		}
		t := queue[0]
		queue = queue[1:]
		return t, true
	}

	logger.Log.Info("scheduler starting", zap.Int("tiles", len(tiles)), zap.Int("workers", s.Workers))

	for w := 0; w < s.Workers; w++ {
		s.wg.Add(1)
		pool.Submit(func() {
			defer s.wg.Done()
			for {
				if !s.running.Load() {
					return
				}
				tile, ok := popTile()
				if !ok {
					return
				}
				s.renderTile(tile)
			}
		})
	}

	go func() {
		pool.StopAndWait()
		s.endTime = time.Now()
	}()
}

func (s *Scheduler) renderTile(t Tile) {
	for y := t.Y0; y <= t.Y1; y++ {
		for x := t.X0; x <= t.X1; x++ {
			if !s.running.Load() {
				return
			}
			px := s.render.Render(x, y)
			s.Pixels <- px
			s.pixels.Add(1)
		}
	}
}

// Stop sets the running flag false and joins every worker, per spec.md
// §4.6; after Stop returns no worker is running and no further pixels will
// arrive (the concurrency model's join barrier).
func (s *Scheduler) Stop() {
	s.running.Store(false)
	s.wg.Wait()
	if s.endTime.IsZero() {
		s.endTime = time.Now()
	}
}

// Restart stops the scheduler (if running) and starts a fresh pass over the
// same frame dimensions.
func (s *Scheduler) Restart() {
	s.Stop()
	s.Start()
}

// IsDone reports whether every pixel of the frame has been rendered, per
// spec.md §4.6's completion invariant.
func (s *Scheduler) IsDone() bool {
	return s.pixels.Load() == int64(s.Width*s.Height)
}

// Elapsed returns the time since Start, frozen once IsDone becomes true.
func (s *Scheduler) Elapsed() time.Duration {
	if s.endTime.IsZero() {
		return time.Since(s.startTime)
	}
	return s.endTime.Sub(s.startTime)
}

// RenderedPixels returns the number of pixels delivered so far.
func (s *Scheduler) RenderedPixels() int64 {
	return s.pixels.Load()
}
