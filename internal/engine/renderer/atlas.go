package renderer

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/minefocado/minefocado/internal/world/block"
)

const (
	atlasGrid = 16 // tiles per row/column
	tileSize  = 16 // pixels per tile edge
	atlasSize = atlasGrid * tileSize
)

// tileStyle describes how one atlas tile is painted: a base color, the
// amount of per-pixel brightness jitter, and an optional speckle color
// for ores.
type tileStyle struct {
	base    color.NRGBA
	jitter  int
	speckle *color.NRGBA
}

var tileStyles = map[int]tileStyle{
	block.TexStone:     {base: color.NRGBA{128, 128, 128, 255}, jitter: 12},
	block.TexDirt:      {base: color.NRGBA{134, 96, 67, 255}, jitter: 14},
	block.TexGrassSide: {base: color.NRGBA{134, 96, 67, 255}, jitter: 10},
	block.TexGrassTop:  {base: color.NRGBA{95, 159, 53, 255}, jitter: 16},
	block.TexSand:      {base: color.NRGBA{219, 207, 163, 255}, jitter: 10},
	block.TexWater:     {base: color.NRGBA{52, 95, 218, 180}, jitter: 8},
	block.TexBedrock:   {base: color.NRGBA{60, 60, 60, 255}, jitter: 20},
	block.TexWoodSide:  {base: color.NRGBA{102, 81, 50, 255}, jitter: 12},
	block.TexWoodEnd:   {base: color.NRGBA{151, 122, 73, 255}, jitter: 10},
	block.TexLeaves:    {base: color.NRGBA{58, 121, 39, 240}, jitter: 22},
	block.TexGlass:     {base: color.NRGBA{200, 220, 230, 90}, jitter: 4},
	block.TexCoalOre:   {base: color.NRGBA{128, 128, 128, 255}, jitter: 12, speckle: &color.NRGBA{35, 35, 35, 255}},
	block.TexIronOre:   {base: color.NRGBA{128, 128, 128, 255}, jitter: 12, speckle: &color.NRGBA{216, 175, 147, 255}},
	block.TexGoldOre:   {base: color.NRGBA{128, 128, 128, 255}, jitter: 12, speckle: &color.NRGBA{252, 238, 75, 255}},
	block.TexDiamondOre: {base: color.NRGBA{128, 128, 128, 255}, jitter: 12, speckle: &color.NRGBA{93, 236, 245, 255}},
}

// buildAtlasImage paints the procedural block atlas. Tiles get a flat
// base color with noise so adjacent faces of the same material do not
// merge visually. The RNG seed is fixed so the atlas is identical run
// to run.
func buildAtlasImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	rng := rand.New(rand.NewSource(1))

	for slot, style := range orderedStyles() {
		if style == nil {
			continue
		}
		tileX := (slot % atlasGrid) * tileSize
		tileY := (slot / atlasGrid) * tileSize

		for py := 0; py < tileSize; py++ {
			for px := 0; px < tileSize; px++ {
				c := style.base
				if style.jitter > 0 {
					d := rng.Intn(2*style.jitter+1) - style.jitter
					c.R = clampByte(int(c.R) + d)
					c.G = clampByte(int(c.G) + d)
					c.B = clampByte(int(c.B) + d)
				}
				if style.speckle != nil && rng.Intn(10) == 0 {
					c = *style.speckle
				}
				img.SetNRGBA(tileX+px, tileY+py, c)
			}
		}
	}

	return img
}

// orderedStyles returns the styles indexed by slot so iteration order,
// and with it the RNG stream, is deterministic.
func orderedStyles() []*tileStyle {
	out := make([]*tileStyle, atlasGrid*atlasGrid)
	for slot := range out {
		if style, ok := tileStyles[slot]; ok {
			s := style
			out[slot] = &s
		}
	}
	return out
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// uploadAtlasTexture creates the GL texture for the atlas. Nearest
// filtering keeps the blocky look; clamping inside tiles is handled by
// the UV rects the mesh compiler emits.
func uploadAtlasTexture() uint32 {
	img := buildAtlasImage()

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(atlasSize), int32(atlasSize), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}
