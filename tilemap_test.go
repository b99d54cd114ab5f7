package arcade

import (
	"errors"
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const testMapJSON = `{
	"width": 3,
	"height": 2,
	"tilewidth": 32,
	"tileheight": 32,
	"tilesets": [
		{
			"firstgid": 1,
			"name": "dungeon",
			"image": "dungeon.png",
			"tilewidth": 32,
			"tileheight": 32,
			"tilecount": 6,
			"columns": 3,
			"tiles": [
				{"id": 1, "animation": [
					{"tileid": 0, "duration": 200},
					{"tileid": 2, "duration": 200},
					{"tileid": 1, "duration": 200},
					{"tileid": 2, "duration": 200}
				]}
			]
		},
		{"firstgid": 7, "source": "props.json"}
	],
	"layers": [
		{"type": "tilelayer", "name": "ground", "width": 3, "height": 2,
		 "data": [1, 2, 0, 2147483651, 2, 99]},
		{"type": "tilelayer", "name": "props", "width": 3, "height": 2,
		 "data": [0, 0, 7, 0, 0, 0]},
		{"type": "tilelayer", "name": "secret", "width": 3, "height": 2, "visible": false,
		 "data": [1, 1, 1, 1, 1, 1]},
		{"type": "imagelayer", "name": "sky"},
		{"type": "objectgroup", "name": "spawns", "objects": [
			{"id": 1, "name": "player", "type": "spawn", "x": 32, "y": 64, "point": true,
			 "properties": [{"name": "facing", "type": "string", "value": "down"}]},
			{"id": 2, "name": "bat", "class": "enemy", "x": 64, "y": 0, "width": 32, "height": 32}
		]}
	]
}`

const testPropsTilesetJSON = `{
	"name": "props",
	"tilewidth": 32,
	"tileheight": 64,
	"tiles": [{"id": 0, "image": "tree.png", "imagewidth": 32, "imageheight": 64}]
}`

func loadTestMap(t *testing.T) (*TileMap, *fakeImages) {
	t.Helper()
	imgs := &fakeImages{sizes: map[string]image.Point{
		"dungeon.png": {96, 64},
		"tree.png":    {32, 64},
	}}
	sources := func(p string) ([]byte, error) {
		if p == "props.json" {
			return []byte(testPropsTilesetJSON), nil
		}
		return nil, errors.New("no such tileset")
	}
	m, err := LoadTileMap([]byte(testMapJSON), imgs.load, sources)
	if err != nil {
		t.Fatalf("LoadTileMap: %v", err)
	}
	return m, imgs
}

func TestLoadTileMap(t *testing.T) {
	m, _ := loadTestMap(t)

	if m.Width != 3 || m.Height != 2 || m.TileWidth != 32 || m.TileHeight != 32 {
		t.Errorf("map size = %dx%d of %dx%d", m.Width, m.Height, m.TileWidth, m.TileHeight)
	}
	if len(m.Tilesets) != 2 || m.Tilesets[1].Name != "props" || m.Tilesets[1].FirstGID != 7 {
		t.Fatalf("tilesets not loaded in order")
	}
	if len(m.Layers) != 3 {
		t.Fatalf("got %d tile layers, want 3", len(m.Layers))
	}
	if m.Layer("secret").Visible {
		t.Error("secret layer should be hidden")
	}
	if m.Layer("sky") != nil {
		t.Error("image layers should be skipped")
	}
	if _, ok := m.Atlas.Region(7); !ok {
		t.Error("external tileset tiles should be in the combined atlas")
	}
	if !m.Animations.Animated(2) {
		t.Error("tileset animations should be in the map registry")
	}
}

func TestLoadTileMap_ObjectGroups(t *testing.T) {
	m, _ := loadTestMap(t)
	g, ok := m.ObjectGroup("spawns")
	if !ok {
		t.Fatal("object group missing")
	}
	if len(g.Objects) != 2 {
		t.Fatalf("got %d objects, want 2", len(g.Objects))
	}
	p := g.Objects[0]
	if p.Name != "player" || p.Type != "spawn" || !p.Point || p.X != 32 || p.Y != 64 {
		t.Errorf("player object = %+v", p)
	}
	if v, _ := p.Properties.StringValue("facing"); v != "down" {
		t.Errorf("player facing = %q, want down", v)
	}
	if g.Objects[1].Type != "enemy" {
		t.Errorf("class should fill in for type, got %q", g.Objects[1].Type)
	}
	if _, ok := m.ObjectGroup("nope"); ok {
		t.Error("unknown group should not be found")
	}
}

func TestTileMap_AnimatedCellsShareTimeline(t *testing.T) {
	m, _ := loadTestMap(t)
	ground := m.Layer("ground")

	// gid 2 appears twice in ground and not at all in secret.
	if m.Animations.SharedTimelines() != 1 {
		t.Fatalf("SharedTimelines = %d, want 1", m.Animations.SharedTimelines())
	}

	if id, _ := m.CellTileID(ground, 1, 0); id != 2 {
		t.Errorf("before update cell shows %d, want base 2", id)
	}
	m.Update(0.1)
	a, _ := m.CellTileID(ground, 1, 0)
	b, _ := m.CellTileID(ground, 1, 1)
	if a != 1 || b != 1 {
		t.Errorf("animated cells = %d, %d; want 1, 1", a, b)
	}
	m.Update(0.1)
	if id, _ := m.CellTileID(ground, 1, 0); id != 3 {
		t.Errorf("after 200ms cell shows %d, want 3", id)
	}

	if id, _ := m.CellTileID(ground, 0, 1); id != 3 {
		t.Errorf("flipped static cell = %d, want 3", id)
	}
	if _, ok := m.CellTileID(ground, 2, 0); ok {
		t.Error("empty cell should report false")
	}
	if _, ok := m.CellTileID(ground, 5, 5); ok {
		t.Error("out-of-range cell should report false")
	}
}

func TestTileMap_DrawRequests(t *testing.T) {
	m, _ := loadTestMap(t)
	m.Update(0.1) // gid 2 now shows frame gid 1

	reqs := m.AppendDrawRequests(nil)

	want := []struct {
		src   image.Rectangle
		x, y  float64
		flags uint32
	}{
		{image.Rect(0, 0, 32, 32), 0, 0, 0},                 // ground (0,0) gid 1
		{image.Rect(0, 0, 32, 32), 32, 0, 0},                // ground (1,0) gid 2 -> 1
		{image.Rect(64, 0, 96, 32), 0, 32, FlipHorizontal},  // ground (0,1) gid 3 flipped
		{image.Rect(0, 0, 32, 32), 32, 32, 0},               // ground (1,1) gid 2 -> 1
		{image.Rect(0, 0, 32, 64), 64, -32, 0},              // props (2,0) tree, bottom anchored
	}
	if len(reqs) != len(want) {
		t.Fatalf("got %d requests, want %d", len(reqs), len(want))
	}
	for i, w := range want {
		r := reqs[i]
		if r.Source != w.src || r.X != w.x || r.Y != w.y || r.Flags != w.flags {
			t.Errorf("request %d = {%v %v,%v %#x}, want {%v %v,%v %#x}",
				i, r.Source, r.X, r.Y, r.Flags, w.src, w.x, w.y, w.flags)
		}
	}
	if reqs[4].Texture == reqs[0].Texture {
		t.Error("prop tile should draw from its own texture")
	}
}

func TestTileMap_SetTile(t *testing.T) {
	m, _ := loadTestMap(t)
	ground := m.Layer("ground")
	instances := m.Animations.Len()

	m.SetTile(ground, 0, 0, 2)
	if m.Animations.Len() != instances+1 {
		t.Errorf("animated SetTile should add an instance")
	}
	if ground.Tile(0, 0) != 2 {
		t.Errorf("Tile(0,0) = %d, want 2", ground.Tile(0, 0))
	}

	m.SetTile(ground, 1, 0, 4)
	m.SetTile(ground, 1, 1, 0)
	if m.Animations.Len() != instances-1 {
		t.Errorf("Len = %d, want %d after unbinding two cells", m.Animations.Len(), instances-1)
	}
	if id, _ := m.CellTileID(ground, 1, 0); id != 4 {
		t.Errorf("replaced cell = %d, want 4", id)
	}

	m.SetTile(ground, 9, 9, 1)
}

func TestTileMap_Draw(t *testing.T) {
	m, _ := loadTestMap(t)
	screen := ebiten.NewImage(96, 64)
	m.Draw(screen, Vec2{X: 8, Y: 4})

	// Draw reuses its buffers across frames.
	m.Draw(screen, Vec2{})
	if cap(m.indices) < 6*4 {
		t.Errorf("index buffer too small: %d", cap(m.indices))
	}
}

func TestTileMap_AddLayerValidation(t *testing.T) {
	m := NewTileMap(2, 2, 16, 16, nil, nil)
	if _, err := m.AddLayer("bad", 2, 2, []uint32{1, 2, 3}); !errors.Is(err, ErrInvalidMap) {
		t.Errorf("error = %v, want ErrInvalidMap", err)
	}
	l, err := m.AddLayer("ok", 2, 2, []uint32{1, 0, 0, 1})
	if err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	if !l.Visible || m.Layer("ok") != l {
		t.Error("added layer should be visible and findable")
	}
	if got := m.AppendDrawRequests(nil); len(got) != 0 {
		t.Errorf("empty atlas should produce no requests, got %d", len(got))
	}
}

func TestLoadTileMap_Errors(t *testing.T) {
	imgs := &fakeImages{sizes: map[string]image.Point{"a.png": {32, 32}}}
	tests := []struct {
		name string
		data string
	}{
		{"tile size", `{"width":1,"height":1,"tilewidth":0,"tileheight":16}`},
		{"missing firstgid", `{"tilewidth":16,"tileheight":16,"tilesets":[{"image":"a.png","tilewidth":16,"tileheight":16}]}`},
		{"external without loader", `{"tilewidth":16,"tileheight":16,"tilesets":[{"firstgid":1,"source":"x.json"}]}`},
		{"short layer", `{"tilewidth":16,"tileheight":16,"layers":[{"type":"tilelayer","name":"g","width":2,"height":2,"data":[1]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTileMap([]byte(tt.data), imgs.load, nil)
			if !errors.Is(err, ErrInvalidMap) {
				t.Errorf("error = %v, want ErrInvalidMap", err)
			}
		})
	}

	_, err := LoadTileMap([]byte(`{"tilewidth":16,"tileheight":16,"tilesets":[{"firstgid":1,"image":"a.gif","tilewidth":16,"tileheight":16}]}`), imgs.load, nil)
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("gif tileset error = %v, want ErrUnsupportedImage", err)
	}
}

func TestSplitTileValue(t *testing.T) {
	id, flags := SplitTileValue(0xE0000005)
	if id != 5 {
		t.Errorf("id = %d, want 5", id)
	}
	if flags != FlipHorizontal|FlipVertical|FlipDiagonal {
		t.Errorf("flags = %#x", flags)
	}
}

func TestSetTileUVs(t *testing.T) {
	src := image.Rect(10, 20, 30, 40)
	tests := []struct {
		name  string
		flags uint32
		tl    [2]float32 // source corner sampled at the top-left vertex
		tr    [2]float32
	}{
		{"none", 0, [2]float32{10, 20}, [2]float32{30, 20}},
		{"horizontal", FlipHorizontal, [2]float32{30, 20}, [2]float32{10, 20}},
		{"vertical", FlipVertical, [2]float32{10, 40}, [2]float32{30, 40}},
		{"both", FlipHorizontal | FlipVertical, [2]float32{30, 40}, [2]float32{10, 40}},
		{"diagonal", FlipDiagonal, [2]float32{10, 20}, [2]float32{10, 40}},
		{"rotate cw", FlipHorizontal | FlipDiagonal, [2]float32{10, 40}, [2]float32{10, 20}},
		{"rotate ccw", FlipVertical | FlipDiagonal, [2]float32{30, 20}, [2]float32{30, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := make([]ebiten.Vertex, 4)
			setTileUVs(v, src, tt.flags)
			if got := [2]float32{v[0].SrcX, v[0].SrcY}; got != tt.tl {
				t.Errorf("top-left samples %v, want %v", got, tt.tl)
			}
			if got := [2]float32{v[1].SrcX, v[1].SrcY}; got != tt.tr {
				t.Errorf("top-right samples %v, want %v", got, tt.tr)
			}
		})
	}
}
