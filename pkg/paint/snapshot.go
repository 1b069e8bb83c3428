package paint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tracelens/lineview/pkg/minimap"
	"github.com/tracelens/lineview/pkg/model"
	"github.com/tracelens/lineview/pkg/render"
	"github.com/tracelens/lineview/pkg/viewport"
)

// SnapshotOptions controls one-frame graph export.
type SnapshotOptions struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	// Minimap, when non-zero, draws an overview inset of that pixel
	// size in the bottom-right corner.
	MinimapWidth  int
	MinimapHeight int
	// AllNodes feeds the minimap projection; the RenderSet alone only
	// covers the visible subset.
	AllNodes []model.Node
}

// SaveSnapshot renders one computed frame to disk as PNG or SVG.
func SaveSnapshot(opts SnapshotOptions, rs render.RenderSet, vp viewport.Viewport) error {
	if len(rs.Entities) == 0 {
		return fmt.Errorf("no entities to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	frame := BuildFrame(rs, vp)

	var proj minimap.Projection
	withMinimap := opts.MinimapWidth > 0 && opts.MinimapHeight > 0
	if withMinimap {
		p, err := minimap.New(opts.AllNodes, opts.MinimapWidth, opts.MinimapHeight, minimap.DefaultPadding)
		if err != nil {
			withMinimap = false
		} else {
			proj = p
		}
	}

	switch format {
	case "png":
		p := NewPNGPainter(frame.Width, frame.Height)
		PaintFrame(p, frame)
		if withMinimap {
			ox := float64(frame.Width-proj.Width) - 12
			oy := float64(frame.Height-proj.Height) - 12
			p.DrawMinimap(proj, frame, vp, ox, oy)
		}
		return p.SavePNG(opts.Path)
	default:
		file, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer file.Close()
		p := NewSVGPainter(file, frame.Width, frame.Height)
		PaintFrame(p, frame)
		if withMinimap {
			p.DrawMinimap(proj, frame, vp, frame.Width-proj.Width-12, frame.Height-proj.Height-12)
		}
		p.End()
		return nil
	}
}
