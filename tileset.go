package arcade

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	// ErrInvalidTileset is returned for tileset data that cannot describe
	// any tiles: bad sizes, no image, out-of-range tile ids.
	ErrInvalidTileset = errors.New("invalid tileset")
	// ErrUnsupportedImage is returned for image references that are not PNG.
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// ImageLoader loads the image referenced by a tileset. Paths are passed
// exactly as they appear in the tileset data.
type ImageLoader func(path string) (*ebiten.Image, error)

// Properties are the named per-tile or per-object values authored in the map
// editor. arcade does not interpret them.
type Properties map[string]any

// StringValue returns the named property as a string.
func (p Properties) StringValue(name string) (string, bool) {
	v, ok := p[name].(string)
	return v, ok
}

// Tileset is one tileset after loading: its tiles resolvable through Atlas,
// its animations keyed by global tile id, and its per-tile properties.
type Tileset struct {
	Name       string
	FirstGID   TileID
	TileWidth  int
	TileHeight int
	TileCount  int

	Atlas      *TileAtlas
	Animations map[TileID][]AnimationFrame
	Properties map[TileID]Properties
}

// LastGID returns the last global id the tileset covers.
func (ts *Tileset) LastGID() TileID {
	return ts.FirstGID + TileID(ts.TileCount) - 1
}

// --- JSON structure types (Tiled JSON format) ---

type jsonProperty struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type jsonTile struct {
	ID          int            `json:"id"`
	Image       string         `json:"image"`
	ImageWidth  int            `json:"imagewidth"`
	ImageHeight int            `json:"imageheight"`
	Animation   []RawFrame     `json:"animation"`
	Properties  []jsonProperty `json:"properties"`
}

type jsonTileset struct {
	Name        string     `json:"name"`
	Image       string     `json:"image"`
	ImageWidth  int        `json:"imagewidth"`
	ImageHeight int        `json:"imageheight"`
	TileWidth   int        `json:"tilewidth"`
	TileHeight  int        `json:"tileheight"`
	TileCount   int        `json:"tilecount"`
	Columns     int        `json:"columns"`
	Tiles       []jsonTile `json:"tiles"`
}

// LoadTileset parses a Tiled JSON tileset whose first global id is firstGID.
// A tileset either has one sheet image cut into a grid or one image per tile.
// Every local id in the data, including animation frame ids, is offset by
// firstGID. Errors describe the offending field and wrap ErrInvalidTileset,
// ErrUnsupportedImage, ErrInvalidFrame, or the loader's error.
func LoadTileset(data []byte, firstGID TileID, load ImageLoader) (*Tileset, error) {
	var raw jsonTileset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("arcade: failed to parse tileset JSON: %w", err)
	}
	return buildTileset(&raw, firstGID, load)
}

func buildTileset(raw *jsonTileset, firstGID TileID, load ImageLoader) (*Tileset, error) {
	if firstGID == 0 {
		return nil, fmt.Errorf("arcade: tileset %q: first gid must be at least 1: %w", raw.Name, ErrInvalidTileset)
	}
	if raw.TileWidth <= 0 || raw.TileHeight <= 0 {
		return nil, fmt.Errorf("arcade: tileset %q: tile size %dx%d: %w",
			raw.Name, raw.TileWidth, raw.TileHeight, ErrInvalidTileset)
	}
	if load == nil {
		return nil, fmt.Errorf("arcade: tileset %q: no image loader", raw.Name)
	}

	ts := &Tileset{
		Name:       raw.Name,
		FirstGID:   firstGID,
		TileWidth:  raw.TileWidth,
		TileHeight: raw.TileHeight,
		TileCount:  raw.TileCount,
		Atlas:      NewTileAtlas(),
		Animations: make(map[TileID][]AnimationFrame),
		Properties: make(map[TileID]Properties),
	}

	if raw.Image != "" {
		if err := ts.loadSheet(raw, load); err != nil {
			return nil, err
		}
	} else if err := ts.loadCollection(raw, load); err != nil {
		return nil, err
	}

	for _, tile := range raw.Tiles {
		if tile.ID < 0 || (ts.TileCount > 0 && raw.Image != "" && tile.ID >= ts.TileCount) {
			return nil, fmt.Errorf("arcade: tileset %q: tile id %d outside [0, %d): %w",
				raw.Name, tile.ID, ts.TileCount, ErrInvalidTileset)
		}
		gid := firstGID + TileID(tile.ID)
		if len(tile.Animation) > 0 {
			frames, err := ConvertFrames(tile.Animation, firstGID)
			if err != nil {
				return nil, fmt.Errorf("arcade: tileset %q: tile %d animation: %w", raw.Name, tile.ID, err)
			}
			ts.Animations[gid] = frames
		}
		if props := convertProperties(tile.Properties); props != nil {
			ts.Properties[gid] = props
		}
	}
	return ts, nil
}

func (ts *Tileset) loadSheet(raw *jsonTileset, load ImageLoader) error {
	img, err := loadImage(raw.Image, load)
	if err != nil {
		return fmt.Errorf("arcade: tileset %q: %w", raw.Name, err)
	}
	count := raw.TileCount
	if count == 0 {
		cols := img.Bounds().Dx() / raw.TileWidth
		rows := img.Bounds().Dy() / raw.TileHeight
		count = cols * rows
		ts.TileCount = count
	}
	if count <= 0 {
		return fmt.Errorf("arcade: tileset %q: image %s holds no %dx%d tiles: %w",
			raw.Name, raw.Image, raw.TileWidth, raw.TileHeight, ErrInvalidTileset)
	}
	return ts.Atlas.AddSheet(GridSheet{
		Texture:    img,
		TileWidth:  raw.TileWidth,
		TileHeight: raw.TileHeight,
		FirstID:    ts.FirstGID,
		TileCount:  count,
		Columns:    raw.Columns,
	})
}

func (ts *Tileset) loadCollection(raw *jsonTileset, load ImageLoader) error {
	loaded := 0
	maxID := -1
	for _, tile := range raw.Tiles {
		if tile.Image == "" {
			continue
		}
		img, err := loadImage(tile.Image, load)
		if err != nil {
			return fmt.Errorf("arcade: tileset %q: tile %d: %w", raw.Name, tile.ID, err)
		}
		ts.Atlas.AddTile(ts.FirstGID+TileID(tile.ID), img)
		loaded++
		maxID = max(maxID, tile.ID)
	}
	if loaded == 0 {
		return fmt.Errorf("arcade: tileset %q has neither a sheet image nor tile images: %w",
			raw.Name, ErrInvalidTileset)
	}
	if ts.TileCount <= maxID {
		ts.TileCount = maxID + 1
	}
	return nil
}

func loadImage(p string, load ImageLoader) (*ebiten.Image, error) {
	if !strings.EqualFold(path.Ext(p), ".png") {
		return nil, fmt.Errorf("image %s: %w", p, ErrUnsupportedImage)
	}
	img, err := load(p)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", p, err)
	}
	if img == nil {
		return nil, fmt.Errorf("load image %s: loader returned no image", p)
	}
	return img, nil
}

// Direction is a facing read from a tile property.
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

// String returns the direction's property spelling.
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection parses a facing property value. Matching is case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	case "left":
		return DirectionLeft, nil
	case "right":
		return DirectionRight, nil
	}
	return DirectionNone, fmt.Errorf("arcade: unrecognized direction %q: %w", s, ErrInvalidTileset)
}
