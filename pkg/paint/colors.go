package paint

import (
	"fmt"
	"image/color"

	"github.com/tracelens/lineview/pkg/model"
)

var (
	colorSource    = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorTransform = color.RGBA{0xff, 0xf3, 0xe0, 0xff}
	colorSink      = color.RGBA{0xbb, 0xde, 0xfb, 0xff}
	colorCluster   = color.RGBA{0xe1, 0xbe, 0xe7, 0xff}
	colorStroke    = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorEdge      = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorText      = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle    = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop  = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorMinimapBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorViewRect  = color.RGBA{0xd3, 0x2f, 0x2f, 0xff}
)

func kindColor(k model.NodeKind) color.RGBA {
	switch k {
	case model.KindSource:
		return colorSource
	case model.KindTransform:
		return colorTransform
	case model.KindSink:
		return colorSink
	default:
		return colorTransform
	}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func clusterBadge(n int) string {
	return fmt.Sprintf("%d nodes", n)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
