package stage

import (
	"time"

	"github.com/Faultbox/spacejourney/internal/canvas"
	"github.com/Faultbox/spacejourney/internal/quality"
)

// Draw paints the active stages onto s back to front, each at its fade
// opacity. It neither clears nor flushes the surface.
func Draw(s *canvas.Surface, active []Active, q quality.Level, t time.Duration) {
	for _, a := range active {
		rc := RenderContext{
			Surface:  s,
			Width:    s.Width(),
			Height:   s.Height(),
			Progress: a.Progress,
			Quality:  q,
			Time:     t,
		}
		s.Save()
		s.SetGlobalAlpha(a.Opacity)
		a.Stage.Render(&rc)
		s.Restore()
	}
}
