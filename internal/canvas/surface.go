// Package canvas provides a DPI-aware 2D drawing surface with
// save/restore semantics on top of gogpu/gg.
//
// Coordinates passed to a Surface are logical (CSS-like) pixels. The backing
// store is logical size multiplied by the device pixel ratio, and the ratio
// is applied once as the base transform, so callers never reason about DPR.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when a drawing surface cannot be created.
var ErrUnavailable = errors.New("canvas: 2d surface unavailable")

// frame is one Save level. It remembers how many compositing layers were
// opened inside it so Restore can close them.
type frame struct {
	layers int
}

// Surface is a drawable RGBA surface. It is not safe for concurrent use.
type Surface struct {
	dc     *gg.Context
	width  float64
	height float64
	dpr    float64
	log    *zap.Logger

	// frames[0] is the base frame; Save pushes, Restore pops.
	frames []frame
}

// New creates a surface of the given logical size and device pixel ratio.
func New(width, height, dpr float64) (*Surface, error) {
	bw, bh, err := backingSize(width, height, dpr)
	if err != nil {
		return nil, err
	}

	s := &Surface{
		dc:     gg.NewContext(bw, bh),
		width:  width,
		height: height,
		dpr:    dpr,
		log:    zap.NewNop(),
		frames: make([]frame, 1, 8),
	}
	s.dc.Scale(dpr, dpr)
	return s, nil
}

// SetLogger reports rasterizer failures to l at debug level. A failed fill
// or stroke leaves the pixels untouched and drawing carries on.
func (s *Surface) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.log = l
}

func (s *Surface) check(op string, err error) {
	if err != nil {
		s.log.Debug("draw failed", zap.String("op", op), zap.Error(err))
	}
}

func backingSize(width, height, dpr float64) (int, int, error) {
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	bw := int(math.Round(width * dpr))
	bh := int(math.Round(height * dpr))
	if bw <= 0 || bh <= 0 {
		return 0, 0, fmt.Errorf("%w: backing store %dx%d", ErrUnavailable, bw, bh)
	}
	return bw, bh, nil
}

// Resize reallocates the backing store and re-applies the DPR transform.
// Any open layers and saved states are discarded.
func (s *Surface) Resize(width, height, dpr float64) error {
	if dpr <= 0 {
		dpr = 1
	}
	bw, bh, err := backingSize(width, height, dpr)
	if err != nil {
		return err
	}
	s.unwind()
	if err := s.dc.Resize(bw, bh); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.width, s.height, s.dpr = width, height, dpr
	s.dc.Identity()
	s.dc.Scale(dpr, dpr)
	return nil
}

// Width returns the logical width.
func (s *Surface) Width() float64 { return s.width }

// Height returns the logical height.
func (s *Surface) Height() float64 { return s.height }

// DPR returns the device pixel ratio the backing store was sized with.
func (s *Surface) DPR() float64 { return s.dpr }

// BackingSize returns the pixel dimensions of the backing store.
func (s *Surface) BackingSize() (int, int) {
	return s.dc.Width(), s.dc.Height()
}

// Clear erases the whole surface to transparent and resets all state.
func (s *Surface) Clear() {
	s.unwind()
	s.dc.Clear()
	s.dc.Identity()
	s.dc.Scale(s.dpr, s.dpr)
}

// Fill paints the whole surface with c, ignoring the current transform.
func (s *Surface) Fill(c gg.RGBA) {
	s.dc.ClearWithColor(c)
}

// Save pushes the current transform and compositing state.
func (s *Surface) Save() {
	s.dc.Push()
	s.frames = append(s.frames, frame{})
}

// Restore pops the state pushed by the matching Save, compositing any layers
// opened since. Restore without a matching Save is a no-op.
func (s *Surface) Restore() {
	if len(s.frames) <= 1 {
		return
	}
	top := s.frames[len(s.frames)-1]
	for i := 0; i < top.layers; i++ {
		s.dc.PopLayer()
	}
	s.frames = s.frames[:len(s.frames)-1]
	s.dc.Pop()
}

// Depth returns the number of unmatched Save calls.
func (s *Surface) Depth() int {
	return len(s.frames) - 1
}

// SetGlobalAlpha makes everything drawn until the enclosing Restore
// composite at alpha a.
func (s *Surface) SetGlobalAlpha(a float64) {
	s.pushLayer(gg.BlendNormal, a)
}

// SetAdditive makes everything drawn until the enclosing Restore composite
// with a lightening blend, for glowing gas and light trails.
func (s *Surface) SetAdditive() {
	s.pushLayer(gg.BlendScreen, 1)
}

func (s *Surface) pushLayer(mode gg.BlendMode, opacity float64) {
	s.dc.PushLayer(mode, opacity)
	s.frames[len(s.frames)-1].layers++
}

// unwind closes every open layer and saved state.
func (s *Surface) unwind() {
	for len(s.frames) > 1 {
		s.Restore()
	}
	for i := 0; i < s.frames[0].layers; i++ {
		s.dc.PopLayer()
	}
	s.frames[0].layers = 0
}

// Flush composites layers opened at the base level so the pixels are final.
func (s *Surface) Flush() {
	s.unwind()
}

// Translate moves the origin.
func (s *Surface) Translate(x, y float64) { s.dc.Translate(x, y) }

// Rotate rotates the user space by angle radians.
func (s *Surface) Rotate(angle float64) { s.dc.Rotate(angle) }

// Scale scales the user space.
func (s *Surface) Scale(x, y float64) { s.dc.Scale(x, y) }

// Context exposes the underlying gg context for path construction.
func (s *Surface) Context() *gg.Context { return s.dc }

// Pixels composites open layers and returns the premultiplied RGBA backing
// store. The slice is owned by the surface and is only valid until the next
// Resize.
func (s *Surface) Pixels() []uint8 {
	s.Flush()
	return s.dc.ResizeTarget().Data()
}

// Image returns a copy of the surface as an image.
func (s *Surface) Image() *image.RGBA {
	s.Flush()
	return s.dc.ResizeTarget().ToImage()
}

// SavePNG writes the surface to a PNG file.
func (s *Surface) SavePNG(path string) error {
	s.Flush()
	return s.dc.SavePNG(path)
}

// Close releases the surface. It is safe to call more than once.
func (s *Surface) Close() error {
	if s.dc == nil {
		return nil
	}
	err := s.dc.Close()
	s.dc = nil
	return err
}
