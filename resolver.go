package arcade

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// TileRegion is a resolved tile: the texture to draw from and the source
// rectangle within it, in the texture's own coordinate space.
type TileRegion struct {
	Texture *ebiten.Image
	Source  image.Rectangle
}

// GridSheet is an atlas image cut into a uniform grid of tiles covering the
// id range [FirstID, FirstID+TileCount).
type GridSheet struct {
	Texture    *ebiten.Image
	TileWidth  int
	TileHeight int
	FirstID    TileID
	TileCount  int

	// Columns overrides the column count. Zero derives it from the texture
	// width divided by TileWidth.
	Columns int
}

// Contains reports whether id falls inside the sheet's id range.
func (g *GridSheet) Contains(id TileID) bool {
	return id >= g.FirstID && uint64(id) < uint64(g.FirstID)+uint64(g.TileCount)
}

func (g *GridSheet) columns() int {
	if g.Columns > 0 {
		return g.Columns
	}
	return g.Texture.Bounds().Dx() / g.TileWidth
}

// region computes the source rectangle of id. The caller has checked Contains.
func (g *GridSheet) region(id TileID) (image.Rectangle, bool) {
	cols := g.columns()
	if cols <= 0 {
		return image.Rectangle{}, false
	}
	local := int(id - g.FirstID)
	origin := g.Texture.Bounds().Min
	x := origin.X + (local%cols)*g.TileWidth
	y := origin.Y + (local/cols)*g.TileHeight
	return image.Rect(x, y, x+g.TileWidth, y+g.TileHeight), true
}

// TileAtlas resolves tile ids into texture regions. It composes single-tile
// textures, looked up by exact id, with grid sheets searched in insertion
// order. Textures are shared by reference; the atlas never copies pixels.
type TileAtlas struct {
	tiles  map[TileID]*ebiten.Image
	sheets []GridSheet
	missed map[TileID]struct{}
}

// NewTileAtlas creates an empty atlas.
func NewTileAtlas() *TileAtlas {
	return &TileAtlas{tiles: make(map[TileID]*ebiten.Image)}
}

// AddTile maps id to a whole texture. A later call for the same id wins.
func (a *TileAtlas) AddTile(id TileID, tex *ebiten.Image) {
	a.tiles[id] = tex
}

// AddSheet appends a grid sheet. Sheets added earlier take precedence when
// id ranges overlap.
func (a *TileAtlas) AddSheet(sheet GridSheet) error {
	if sheet.Texture == nil {
		return fmt.Errorf("arcade: grid sheet at first id %d has no texture", sheet.FirstID)
	}
	if sheet.TileWidth <= 0 || sheet.TileHeight <= 0 {
		return fmt.Errorf("arcade: grid sheet at first id %d: tile size %dx%d must be positive",
			sheet.FirstID, sheet.TileWidth, sheet.TileHeight)
	}
	if sheet.TileCount < 0 {
		return fmt.Errorf("arcade: grid sheet at first id %d: negative tile count %d",
			sheet.FirstID, sheet.TileCount)
	}
	a.sheets = append(a.sheets, sheet)
	return nil
}

// Sheets returns the grid sheets in lookup order. The slice must not be mutated.
func (a *TileAtlas) Sheets() []GridSheet { return a.sheets }

// TileCount returns the number of single-tile entries.
func (a *TileAtlas) TileCount() int { return len(a.tiles) }

// Region resolves id. Single-tile entries are checked first, then the first
// grid sheet whose range contains id. A miss returns false; callers skip the
// tile.
func (a *TileAtlas) Region(id TileID) (TileRegion, bool) {
	if tex, ok := a.tiles[id]; ok {
		return TileRegion{Texture: tex, Source: tex.Bounds()}, true
	}
	for i := range a.sheets {
		sheet := &a.sheets[i]
		if !sheet.Contains(id) {
			continue
		}
		if src, ok := sheet.region(id); ok {
			return TileRegion{Texture: sheet.Texture, Source: src}, true
		}
		break
	}
	if globalDebug {
		a.logMiss(id)
	}
	return TileRegion{}, false
}

func (a *TileAtlas) logMiss(id TileID) {
	if a.missed == nil {
		a.missed = make(map[TileID]struct{})
	}
	if _, seen := a.missed[id]; seen {
		return
	}
	a.missed[id] = struct{}{}
	debugf("tile %d not found in atlas, skipping", id)
}

// Combine merges other into a. Single-tile entries from other overwrite
// entries with the same id; other's sheets are appended after a's, keeping
// their relative order.
func (a *TileAtlas) Combine(other *TileAtlas) {
	if other == nil {
		return
	}
	for id, tex := range other.tiles {
		a.tiles[id] = tex
	}
	a.sheets = append(a.sheets, other.sheets...)
}

// CombineAtlases folds atlases left to right into a new atlas.
func CombineAtlases(atlases ...*TileAtlas) *TileAtlas {
	out := NewTileAtlas()
	for _, a := range atlases {
		out.Combine(a)
	}
	return out
}
