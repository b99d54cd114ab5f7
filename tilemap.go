package arcade

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrInvalidMap is returned for map data whose layers or tileset references
// are malformed.
var ErrInvalidMap = errors.New("invalid tile map")

// maxTilesPerDraw is the maximum number of tiles per DrawTriangles call.
// Limited by uint16 index buffer: 65535 / 4 vertices per tile = 16383.
const maxTilesPerDraw = 16383

// uvOrder defines vertex UV assignment for each combination of flip flags.
// Indexed by 3-bit flag value: (flipH << 2) | (flipV << 1) | flipD.
// Each entry contains 4 corner indices: TL=0, TR=1, BL=2, BR=3.
//
//	result[i] is which source corner goes to vertex position i.
var uvOrder = [8][4]int{
	{0, 1, 2, 3}, // no flags
	{0, 2, 1, 3}, // D only (transpose)
	{2, 3, 0, 1}, // V flip
	{1, 3, 0, 2}, // V+D (90° CCW)
	{1, 0, 3, 2}, // H flip
	{2, 0, 3, 1}, // H+D (90° CW)
	{3, 2, 1, 0}, // H+V (180°)
	{3, 1, 2, 0}, // H+V+D (anti-transpose)
}

// DrawRequest is one tile ready for the renderer: where to sample, where to
// draw in map space, and which flips to apply.
type DrawRequest struct {
	Texture *ebiten.Image
	Source  image.Rectangle
	X, Y    float64
	Flags   uint32
}

// TileLayer is a grid of raw tile values. Zero means empty; the top three
// bits carry flip flags.
type TileLayer struct {
	Name    string
	Width   int
	Height  int
	Data    []uint32 // row-major, len = Width * Height
	Visible bool

	// animated cells, keyed by cell index, bound to the map's registry
	instances map[int]InstanceID
}

// Tile returns the raw value at (col, row), or 0 outside the layer.
func (l *TileLayer) Tile(col, row int) uint32 {
	if col < 0 || col >= l.Width || row < 0 || row >= l.Height {
		return 0
	}
	return l.Data[row*l.Width+col]
}

// MapObject is an object from an object group. arcade passes objects through
// without interpreting them.
type MapObject struct {
	ID         int
	Name       string
	Type       string
	X, Y       float64
	Width      float64
	Height     float64
	Point      bool
	Properties Properties
}

// ObjectGroup is a named collection of map objects.
type ObjectGroup struct {
	Name       string
	Objects    []MapObject
	Properties Properties
}

// TileMap is a loaded map: tile layers in draw order, object groups, the
// composed atlas of all tilesets and the registry animating its cells.
// Animated cells share one timeline per base tile.
type TileMap struct {
	Width      int // in tiles
	Height     int
	TileWidth  int // in pixels
	TileHeight int

	Layers       []*TileLayer
	ObjectGroups []ObjectGroup
	Tilesets     []*Tileset
	Atlas        *TileAtlas
	Animations   *AnimationRegistry

	requests []DrawRequest
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewTileMap creates an empty map drawing from atlas. A nil registry gets an
// empty one.
func NewTileMap(width, height, tileWidth, tileHeight int, atlas *TileAtlas, anims *AnimationRegistry) *TileMap {
	if atlas == nil {
		atlas = NewTileAtlas()
	}
	if anims == nil {
		anims = NewAnimationRegistry(nil)
	}
	return &TileMap{
		Width:      width,
		Height:     height,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Atlas:      atlas,
		Animations: anims,
	}
}

// AddLayer appends a visible tile layer and binds its animated cells.
func (m *TileMap) AddLayer(name string, w, h int, data []uint32) (*TileLayer, error) {
	if w < 0 || h < 0 || len(data) != w*h {
		return nil, fmt.Errorf("arcade: layer %q: %d values for a %dx%d grid: %w",
			name, len(data), w, h, ErrInvalidMap)
	}
	l := &TileLayer{
		Name:      name,
		Width:     w,
		Height:    h,
		Data:      data,
		Visible:   true,
		instances: make(map[int]InstanceID),
	}
	for i, raw := range data {
		if raw == 0 {
			continue
		}
		id, _ := SplitTileValue(raw)
		if m.Animations.Animated(id) {
			l.instances[i] = m.Animations.AddInstance(id, OwnershipShared)
		}
	}
	m.Layers = append(m.Layers, l)
	return l, nil
}

// Layer returns the tile layer with the given name.
func (m *TileMap) Layer(name string) *TileLayer {
	for _, l := range m.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// ObjectGroup returns the object group with the given name.
func (m *TileMap) ObjectGroup(name string) (ObjectGroup, bool) {
	for _, g := range m.ObjectGroups {
		if g.Name == name {
			return g, true
		}
	}
	return ObjectGroup{}, false
}

// SetTile replaces the raw value at (col, row) in layer l and rebinds the
// cell's animation. Out-of-range cells are ignored.
func (m *TileMap) SetTile(l *TileLayer, col, row int, raw uint32) {
	if col < 0 || col >= l.Width || row < 0 || row >= l.Height {
		return
	}
	i := row*l.Width + col
	l.Data[i] = raw

	id, _ := SplitTileValue(raw)
	animated := raw != 0 && m.Animations.Animated(id)
	inst, bound := l.instances[i]
	switch {
	case bound && animated:
		m.Animations.SetDefaultTile(inst, id)
	case bound:
		m.Animations.RemoveInstance(inst)
		delete(l.instances, i)
	case animated:
		l.instances[i] = m.Animations.AddInstance(id, OwnershipShared)
	}
}

// Update advances the map's tile animations.
func (m *TileMap) Update(dt float64) {
	m.Animations.Update(dt)
}

// CellTileID returns the id drawn at (col, row) of l this frame, following
// animations. The second result is false for empty cells.
func (m *TileMap) CellTileID(l *TileLayer, col, row int) (TileID, bool) {
	raw := l.Tile(col, row)
	if raw == 0 {
		return 0, false
	}
	id, _ := SplitTileValue(raw)
	if inst, ok := l.instances[row*l.Width+col]; ok {
		return m.Animations.TileID(inst)
	}
	return id, true
}

// AppendDrawRequests appends one request per drawable tile: visible layers in
// ascending order, cells row by row. Empty cells and atlas misses are skipped.
func (m *TileMap) AppendDrawRequests(dst []DrawRequest) []DrawRequest {
	tw := float64(m.TileWidth)
	th := float64(m.TileHeight)
	for _, l := range m.Layers {
		if !l.Visible {
			continue
		}
		for row := 0; row < l.Height; row++ {
			rowOffset := row * l.Width
			for col := 0; col < l.Width; col++ {
				raw := l.Data[rowOffset+col]
				if raw == 0 {
					continue
				}
				id, flags := SplitTileValue(raw)
				if inst, ok := l.instances[rowOffset+col]; ok {
					id, _ = m.Animations.TileID(inst)
				}
				region, ok := m.Atlas.Region(id)
				if !ok {
					continue
				}
				// Tiles taller than the grid are anchored bottom-left.
				y := float64(row)*th + th - float64(region.Source.Dy())
				dst = append(dst, DrawRequest{
					Texture: region.Texture,
					Source:  region.Source,
					X:       float64(col) * tw,
					Y:       y,
					Flags:   flags,
				})
			}
		}
	}
	return dst
}

// Draw renders the map onto screen with the map origin at -offset. Runs of
// requests sharing a texture are submitted as one DrawTriangles call.
func (m *TileMap) Draw(screen *ebiten.Image, offset Vec2) {
	m.requests = m.AppendDrawRequests(m.requests[:0])
	reqs := m.requests
	for start := 0; start < len(reqs); {
		tex := reqs[start].Texture
		end := start + 1
		for end < len(reqs) && reqs[end].Texture == tex && end-start < maxTilesPerDraw {
			end++
		}
		m.drawBatch(screen, reqs[start:end], offset)
		start = end
	}
}

func (m *TileMap) drawBatch(screen *ebiten.Image, batch []DrawRequest, offset Vec2) {
	m.ensureBuffers(len(batch))
	verts := m.vertices[:len(batch)*4]
	for i := range batch {
		r := &batch[i]
		v := verts[i*4 : i*4+4]
		setTileUVs(v, r.Source, r.Flags)

		x := float32(r.X - offset.X)
		y := float32(r.Y - offset.Y)
		w := float32(r.Source.Dx())
		h := float32(r.Source.Dy())
		if r.Flags&FlipDiagonal != 0 {
			w, h = h, w
		}
		v[0].DstX, v[0].DstY = x, y
		v[1].DstX, v[1].DstY = x+w, y
		v[2].DstX, v[2].DstY = x, y+h
		v[3].DstX, v[3].DstY = x+w, y+h
		for j := range v {
			v[j].ColorR, v[j].ColorG, v[j].ColorB, v[j].ColorA = 1, 1, 1, 1
		}
	}
	screen.DrawTriangles(verts, m.indices[:len(batch)*6], batch[0].Texture, nil)
}

// ensureBuffers grows the vertex and index buffers to hold n tiles.
func (m *TileMap) ensureBuffers(n int) {
	if n <= len(m.vertices)/4 {
		return
	}
	m.vertices = make([]ebiten.Vertex, n*4)

	// Build index buffer (topology never changes).
	m.indices = make([]uint16, n*6)
	for i := 0; i < n; i++ {
		base := uint16(i * 4)
		off := i * 6
		m.indices[off+0] = base + 0
		m.indices[off+1] = base + 1
		m.indices[off+2] = base + 2
		m.indices[off+3] = base + 1
		m.indices[off+4] = base + 3
		m.indices[off+5] = base + 2
	}
}

// setTileUVs sets the source coordinates of a tile's four vertices,
// applying flip flags via the lookup table.
func setTileUVs(verts []ebiten.Vertex, src image.Rectangle, flags uint32) {
	sx0, sy0 := float32(src.Min.X), float32(src.Min.Y)
	sx1, sy1 := float32(src.Max.X), float32(src.Max.Y)

	// The four UV corners: TL(0), TR(1), BL(2), BR(3).
	uvX := [4]float32{sx0, sx1, sx0, sx1}
	uvY := [4]float32{sy0, sy0, sy1, sy1}

	order := uvOrder[flagIndex(flags)]
	for i := 0; i < 4; i++ {
		verts[i].SrcX = uvX[order[i]]
		verts[i].SrcY = uvY[order[i]]
	}
}

func flagIndex(flags uint32) int {
	idx := 0
	if flags&FlipHorizontal != 0 {
		idx |= 4
	}
	if flags&FlipVertical != 0 {
		idx |= 2
	}
	if flags&FlipDiagonal != 0 {
		idx |= 1
	}
	return idx
}

// --- JSON structure types (Tiled JSON format) ---

type jsonObject struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Class      string         `json:"class"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Point      bool           `json:"point"`
	Properties []jsonProperty `json:"properties"`
}

type jsonLayer struct {
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Data       []uint32       `json:"data"`
	Visible    *bool          `json:"visible"`
	Objects    []jsonObject   `json:"objects"`
	Properties []jsonProperty `json:"properties"`
}

type jsonTilesetRef struct {
	FirstGID TileID `json:"firstgid"`
	Source   string `json:"source"`
}

type jsonMap struct {
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	TileWidth  int               `json:"tilewidth"`
	TileHeight int               `json:"tileheight"`
	Tilesets   []json.RawMessage `json:"tilesets"`
	Layers     []jsonLayer       `json:"layers"`
}

// SourceLoader reads an external tileset file referenced by a map.
type SourceLoader func(path string) ([]byte, error)

// LoadTileMap parses a Tiled JSON map. Tilesets may be embedded or external
// (read through sources). The map's atlas is the fold of its tilesets' atlases
// in declaration order and its registry holds every tileset's animations.
// Tile layers must be uncompressed CSV-style arrays.
func LoadTileMap(data []byte, images ImageLoader, sources SourceLoader) (*TileMap, error) {
	var raw jsonMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("arcade: failed to parse map JSON: %w", err)
	}
	if raw.TileWidth <= 0 || raw.TileHeight <= 0 {
		return nil, fmt.Errorf("arcade: map tile size %dx%d: %w", raw.TileWidth, raw.TileHeight, ErrInvalidMap)
	}

	tilesets := make([]*Tileset, 0, len(raw.Tilesets))
	for i, entry := range raw.Tilesets {
		ts, err := loadTilesetRef(entry, images, sources)
		if err != nil {
			return nil, fmt.Errorf("arcade: map tileset %d: %w", i, err)
		}
		tilesets = append(tilesets, ts)
	}

	atlas := NewTileAtlas()
	library := make(map[TileID][]AnimationFrame)
	for _, ts := range tilesets {
		atlas.Combine(ts.Atlas)
		for gid, frames := range ts.Animations {
			library[gid] = frames
		}
	}

	m := NewTileMap(raw.Width, raw.Height, raw.TileWidth, raw.TileHeight, atlas, NewAnimationRegistry(library))
	m.Tilesets = tilesets

	for _, jl := range raw.Layers {
		switch jl.Type {
		case "tilelayer":
			l, err := m.AddLayer(jl.Name, jl.Width, jl.Height, jl.Data)
			if err != nil {
				return nil, err
			}
			if jl.Visible != nil {
				l.Visible = *jl.Visible
			}
		case "objectgroup":
			m.ObjectGroups = append(m.ObjectGroups, convertObjectGroup(&jl))
		default:
			debugf("map layer %q of type %q skipped", jl.Name, jl.Type)
		}
	}
	return m, nil
}

func loadTilesetRef(entry json.RawMessage, images ImageLoader, sources SourceLoader) (*Tileset, error) {
	var ref jsonTilesetRef
	if err := json.Unmarshal(entry, &ref); err != nil {
		return nil, fmt.Errorf("parse tileset reference: %w", err)
	}
	if ref.FirstGID == 0 {
		return nil, fmt.Errorf("tileset reference without firstgid: %w", ErrInvalidMap)
	}
	if ref.Source == "" {
		return LoadTileset(entry, ref.FirstGID, images)
	}
	if sources == nil {
		return nil, fmt.Errorf("external tileset %s: no source loader: %w", ref.Source, ErrInvalidMap)
	}
	data, err := sources(ref.Source)
	if err != nil {
		return nil, fmt.Errorf("read tileset %s: %w", ref.Source, err)
	}
	ts, err := LoadTileset(data, ref.FirstGID, images)
	if err != nil {
		return nil, fmt.Errorf("tileset %s: %w", ref.Source, err)
	}
	return ts, nil
}

func convertObjectGroup(jl *jsonLayer) ObjectGroup {
	g := ObjectGroup{
		Name:       jl.Name,
		Objects:    make([]MapObject, len(jl.Objects)),
		Properties: convertProperties(jl.Properties),
	}
	for i, o := range jl.Objects {
		typ := o.Type
		if typ == "" {
			typ = o.Class
		}
		g.Objects[i] = MapObject{
			ID:         o.ID,
			Name:       o.Name,
			Type:       typ,
			X:          o.X,
			Y:          o.Y,
			Width:      o.Width,
			Height:     o.Height,
			Point:      o.Point,
			Properties: convertProperties(o.Properties),
		}
	}
	return g
}

func convertProperties(props []jsonProperty) Properties {
	if len(props) == 0 {
		return nil
	}
	out := make(Properties, len(props))
	for _, p := range props {
		out[p.Name] = p.Value
	}
	return out
}
