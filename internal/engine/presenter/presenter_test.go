package presenter

import (
	"testing"

	mathx "github.com/Faultbox/spacejourney/pkg/math"
)

func TestFillQuadCoversViewport(t *testing.T) {
	var v [6 * vertexFloats]float32
	fillQuad(v[:], 800, 600)

	proj := mathx.PixelOrtho(800, 600)
	minX, maxX, minY, maxY := float32(1), float32(-1), float32(1), float32(-1)
	for i := 0; i < 6; i++ {
		p := proj.TransformPoint([3]float32{v[i*vertexFloats], v[i*vertexFloats+1], 0})
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])

		// uv follows position so the top-left texel lands top-left.
		u, w := v[i*vertexFloats+2], v[i*vertexFloats+3]
		if u != v[i*vertexFloats]/800 || w != v[i*vertexFloats+1]/600 {
			t.Errorf("vertex %d: uv (%v,%v) does not match position", i, u, w)
		}
	}
	near := func(a, b float32) bool { return a-b < 1e-5 && b-a < 1e-5 }
	if !near(minX, -1) || !near(maxX, 1) || !near(minY, -1) || !near(maxY, 1) {
		t.Errorf("clip bounds x[%v,%v] y[%v,%v], want full viewport", minX, maxX, minY, maxY)
	}
}
