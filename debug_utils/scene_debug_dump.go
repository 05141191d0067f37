package debug_utils

import (
	"log/slog"

	"github.com/gorustyt/goobj/scene"
)

// DuDumpScene logs a structural summary of a loaded scene: entity counts,
// per-shape element layout and bounds. Intended for debugging codec
// output, not for machine consumption.
func DuDumpScene(sc *scene.Scene) {
	if sc == nil {
		slog.Info("DuDumpScene: scene is nil.")
		return
	}
	slog.Info("scene",
		"shapes", len(sc.Shapes),
		"materials", len(sc.Materials),
		"textures", len(sc.Textures),
		"cameras", len(sc.Cameras),
		"envs", len(sc.Envs))
	for i, s := range sc.Shapes {
		bmin, bmax := s.Bounds()
		slog.Info("shape",
			"index", i,
			"name", s.Name,
			"group", s.GroupName,
			"material", s.MatName,
			"matid", s.MatID,
			"etype", s.EType.String(),
			"nelems", s.NElems,
			"nverts", s.NVerts,
			"xformed", s.XFormed,
			"bmin", bmin,
			"bmax", bmax)
	}
	for i, m := range sc.Materials {
		slog.Info("material", "index", i, "name", m.Name, "illum", m.Illum)
	}
	for i, t := range sc.Textures {
		slog.Info("texture", "index", i, "path", t.Path,
			"width", t.Width, "height", t.Height, "ncomp", t.NComp)
	}
	for i, c := range sc.Cameras {
		slog.Info("camera", "index", i, "name", c.Name,
			"from", c.From, "to", c.To, "aperture", c.Aperture)
	}
	for i, e := range sc.Envs {
		slog.Info("env", "index", i, "name", e.Name,
			"material", e.MatName, "matid", e.MatID)
	}
}
