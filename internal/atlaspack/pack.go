// Package atlaspack computes texture atlas layouts with a skyline best-fit
// packer operating on half-resolution cells.
package atlaspack

import (
	"cmp"
	"slices"
)

// Border is the gutter between packed textures in atlas pixels. Items are
// packed on a grid of Border-sized cells.
const Border = 2

// MinBaseSize is the smallest base grid width in cells.
const MinBaseSize = 8

// EmptySize is the atlas edge length used when there is nothing to pack.
const EmptySize = 4

// Item is a texture to pack.
type Item struct {
	// Key identifies the item and breaks ordering ties.
	Key uint64

	// Width and Height are the texture size in pixels.
	Width, Height int
}

// Placement is the packed position of an Item.
type Placement struct {
	Item

	// X and Y are the cell position of the item.
	X, Y int

	// CellWidth and CellHeight are the item size in cells.
	CellWidth, CellHeight int
}

// PixelX returns the horizontal pixel offset of the item content.
func (p Placement) PixelX() int { return p.X*Border + Border/2 }

// PixelY returns the vertical pixel offset of the item content.
func (p Placement) PixelY() int { return p.Y*Border + Border/2 }

// Layout is the result of Pack.
type Layout struct {
	// Width and Height are the atlas size in pixels.
	Width, Height int

	// Placements are in packing order: tallest first, then widest, then by key.
	Placements []Placement
}

func nextPowerOfTwo(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

// Pack lays out items. The result depends only on the item set, not on the
// order of the input slice.
func Pack(items []Item) Layout {
	if len(items) == 0 {
		return Layout{Width: EmptySize, Height: EmptySize}
	}

	placements := make([]Placement, len(items))
	baseSize := MinBaseSize
	for i, it := range items {
		placements[i] = Placement{
			Item:       it,
			CellWidth:  it.Width/Border + 1,
			CellHeight: it.Height/Border + 1,
		}
		if baseSize < placements[i].CellWidth {
			baseSize = nextPowerOfTwo(placements[i].CellWidth)
		}
	}

	slices.SortFunc(placements, func(a, b Placement) int {
		if a.CellHeight != b.CellHeight {
			return cmp.Compare(b.CellHeight, a.CellHeight)
		}
		if a.CellWidth != b.CellWidth {
			return cmp.Compare(b.CellWidth, a.CellWidth)
		}
		return cmp.Compare(a.Key, b.Key)
	})

	var atlasHeight int
	for {
		maxHeight := packSkyline(placements, baseSize)
		if maxHeight <= baseSize*2 {
			atlasHeight = maxHeight
			break
		}
		baseSize *= 2
	}

	return Layout{
		Width:      baseSize * Border,
		Height:     nextPowerOfTwo(atlasHeight * Border),
		Placements: placements,
	}
}

// packSkyline places every item at the column offset giving the lowest
// resulting top edge and returns the packed height in cells.
func packSkyline(placements []Placement, baseSize int) int {
	skyline := make([]int, baseSize)
	maxHeight := 0
	for i := range placements {
		p := &placements[i]
		bestIdx, bestHeight := 0, int(^uint(0)>>1)
		for j := 0; j <= baseSize-p.CellWidth; j++ {
			height := 0
			for k := range p.CellWidth {
				if h := skyline[j+k]; h > height {
					height = h
					if height > bestHeight {
						break
					}
				}
			}
			if height < bestHeight {
				bestHeight = height
				bestIdx = j
			}
		}

		for k := range p.CellWidth {
			skyline[bestIdx+k] = bestHeight + p.CellHeight
		}
		p.X, p.Y = bestIdx, bestHeight
		maxHeight = max(maxHeight, p.Y+p.CellHeight)
	}
	return maxHeight
}
