package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tracelens/lineview/pkg/model"
	"github.com/tracelens/lineview/pkg/render"
	"github.com/tracelens/lineview/pkg/viewport"
)

// renderCanvas paints the current RenderSet onto a rune grid sized to
// the terminal. One terminal cell is one screen pixel as far as the
// viewport is concerned; the zoom factor absorbs the difference in
// scene scale.
func renderCanvas(rs render.RenderSet, vp viewport.Viewport, width, height int, selectedID string) []string {
	if height <= 0 || width <= 0 {
		return nil
	}
	grid := make([][]rune, height)
	for y := range grid {
		row := make([]rune, width)
		for x := range row {
			row[x] = ' '
		}
		grid[y] = row
	}

	centers := make(map[string]model.Point, len(rs.Entities))
	for _, e := range rs.Entities {
		centers[e.ID()] = vp.SceneToScreen(e.Center())
	}

	// Edges beneath entities.
	for _, edge := range rs.Edges {
		from, okF := centers[edge.Source]
		to, okT := centers[edge.Target]
		if !okF || !okT {
			continue
		}
		drawEdge(grid, from, to)
	}

	for _, e := range rs.Entities {
		drawEntity(grid, vp, e, e.ID() == selectedID)
	}

	out := make([]string, 0, height)
	for y := range grid {
		out = append(out, string(grid[y]))
	}
	return out
}

func drawEntity(grid [][]rune, vp viewport.Viewport, e render.Entity, selected bool) {
	gw, gh := len(grid[0]), len(grid)
	box := vp.SceneRectToScreen(e.Bounds())

	// Clip to a small halo around the grid before sizing anything: at
	// extreme zoom the screen box spans billions of cells, and the loop
	// bounds and Repeat counts below must stay proportional to the
	// surface, not the box.
	x := clipCoord(box.MinX, gw)
	y := clipCoord(box.MinY, gh)
	w := clipCoord(box.MaxX, gw) - x
	h := clipCoord(box.MaxY, gh) - y

	// Below full tier, or too small for a border, draw a glyph.
	if e.Tier != render.TierFull || w < 4 || h < 3 {
		glyph := entityGlyph(e, selected)
		cx := clipCoord((box.MinX+box.MaxX)/2, gw)
		cy := clipCoord((box.MinY+box.MaxY)/2, gh)
		setRune(grid, cx, cy, glyph)
		return
	}

	topL, topR, botL, botR, hr, vr := boxRunes(selected)
	drawText(grid, x, y, topL+strings.Repeat(string(hr), maxInt(0, w-2))+topR)
	for row := y + 1; row < y+h-1; row++ {
		setRune(grid, x, row, vr)
		clearSpan(grid, x+1, row, w-2)
		setRune(grid, x+w-1, row, vr)
	}
	drawText(grid, x, y+h-1, botL+strings.Repeat(string(hr), maxInt(0, w-2))+botR)

	label := entityLabel(e)
	drawText(grid, x+1, y+1, runewidth.Truncate(label, w-2, "…"))
	if h > 3 {
		drawText(grid, x+1, y+2, runewidth.Truncate(entitySubtitle(e), w-2, "…"))
	}
}

func entityGlyph(e render.Entity, selected bool) rune {
	switch {
	case selected:
		return '◎'
	case e.Kind == render.EntityCluster:
		return '◆'
	case e.Tier == render.TierMinimal:
		return '·'
	default:
		return '▪'
	}
}

func entityLabel(e render.Entity) string {
	if e.Kind == render.EntityCluster {
		return "◆ " + clusterCountLabel(e.Cluster.Size())
	}
	return e.Node.ID
}

func entitySubtitle(e render.Entity) string {
	if e.Kind == render.EntityCluster {
		return e.Cluster.ID
	}
	return string(e.Node.Kind)
}

func boxRunes(selected bool) (topL, topR, botL, botR string, h, v rune) {
	if selected {
		return "╔", "╗", "╚", "╝", '═', '║'
	}
	return "┌", "┐", "└", "┘", '─', '│'
}

// drawEdge routes an L-shaped connector between two screen points.
func drawEdge(grid [][]rune, from, to model.Point) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return
	}
	gw, gh := len(grid[0]), len(grid)
	x1, y1 := clipCoord(from.X, gw), clipCoord(from.Y, gh)
	x2, y2 := clipCoord(to.X, gw), clipCoord(to.Y, gh)

	midX := (x1 + x2) / 2
	drawH(grid, y1, x1, midX, '─')
	drawV(grid, midX, y1, y2, '│')
	drawH(grid, y2, midX, x2, '─')
	setRuneIfEmpty(grid, x2, y2, arrowFor(x1, x2))
}

func arrowFor(x1, x2 int) rune {
	if x2 >= x1 {
		return '→'
	}
	return '←'
}

func drawH(grid [][]rune, y, x1, x2 int, r rune) {
	if y < 0 || y >= len(grid) {
		return
	}
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	row := grid[y]
	for x := x1; x <= x2; x++ {
		if x >= 0 && x < len(row) {
			setRuneIfEmpty(grid, x, y, r)
		}
	}
}

func drawV(grid [][]rune, x, y1, y2 int, r rune) {
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		if y >= 0 && y < len(grid) {
			setRuneIfEmpty(grid, x, y, r)
		}
	}
}

func setRune(grid [][]rune, x, y int, r rune) {
	if y < 0 || y >= len(grid) {
		return
	}
	if x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = r
}

func setRuneIfEmpty(grid [][]rune, x, y int, r rune) {
	if y < 0 || y >= len(grid) {
		return
	}
	if x < 0 || x >= len(grid[y]) {
		return
	}
	if grid[y][x] != ' ' {
		return
	}
	grid[y][x] = r
}

func clearSpan(grid [][]rune, x, y, n int) {
	for i := 0; i < n; i++ {
		setRune(grid, x+i, y, ' ')
	}
}

func drawText(grid [][]rune, x, y int, s string) {
	if y < 0 || y >= len(grid) {
		return
	}
	row := grid[y]
	col := x
	for _, r := range s {
		if col < 0 {
			col++
			continue
		}
		if col >= len(row) {
			break
		}
		row[col] = r
		col++
	}
}

// clipCoord truncates a screen coordinate to just outside the grid so
// offscreen geometry still renders as offscreen while loop extents stay
// bounded by the surface size.
func clipCoord(v float64, limit int) int {
	return int(clampF(v, -2, float64(limit+1)))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
