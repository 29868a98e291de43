package scheduler

import (
	"testing"
	"time"

	"goray/internal/scene"
)

type constantRenderer struct{}

func (constantRenderer) Render(x, y int) scene.PixelData {
	return scene.PixelData{X: x, Y: y, R: 42, G: 42, B: 42}
}

func drain(t *testing.T, s *Scheduler, total int) map[[2]int]scene.PixelData {
	t.Helper()
	got := make(map[[2]int]scene.PixelData, total)
	for len(got) < total {
		select {
		case px := <-s.Pixels:
			got[[2]int{px.X, px.Y}] = px
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out draining pixels, got %d/%d", len(got), total)
		}
	}
	return got
}

func TestPartitionCoversEveryPixelExactlyOnce(t *testing.T) {
	s := New(constantRenderer{}, 7, 5, 1)
	tiles := s.partition()

	seen := make(map[[2]int]bool)
	for _, tile := range tiles {
		for y := tile.Y0; y <= tile.Y1; y++ {
			for x := tile.X0; x <= tile.X1; x++ {
				if seen[[2]int{x, y}] {
					t.Fatalf("pixel (%d,%d) covered by more than one tile", x, y)
				}
				seen[[2]int{x, y}] = true
			}
		}
	}
	if len(seen) != 7*5 {
		t.Errorf("expected %d pixels covered, got %d", 7*5, len(seen))
	}
}

func TestStartStopCompletesAllPixels(t *testing.T) {
	w, h := 6, 6
	s := New(constantRenderer{}, w, h, 2)
	s.Start()

	got := drain(t, s, w*h)
	s.Stop()

	if !s.IsDone() {
		t.Error("expected IsDone true after draining every pixel")
	}
	if len(got) != w*h {
		t.Errorf("expected %d distinct pixels, got %d", w*h, len(got))
	}
}

func TestElapsedFreezesAfterStop(t *testing.T) {
	s := New(constantRenderer{}, 4, 4, 1)
	s.Start()
	drain(t, s, 16)
	s.Stop()

	e1 := s.Elapsed()
	time.Sleep(5 * time.Millisecond)
	e2 := s.Elapsed()

	if e1 != e2 {
		t.Errorf("expected elapsed time frozen after completion, got %v then %v", e1, e2)
	}
}

func TestIsDoneFalseBeforeCompletion(t *testing.T) {
	s := New(constantRenderer{}, 4, 4, 1)
	if s.IsDone() {
		t.Error("expected IsDone false before Start")
	}
}
