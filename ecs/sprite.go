package ecs

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/arcade"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// SpriteData places a registry-backed tile instance in map space.
type SpriteData struct {
	Instance arcade.InstanceID
	X, Y     float64
	Hidden   bool
}

// Sprite is the component type for SpriteData.
var Sprite = donburi.NewComponentType[SpriteData]()

var spriteQuery = donburi.NewQuery(filter.Contains(Sprite))

// NewSprite creates an entity displaying base with an owned timeline.
func NewSprite(world donburi.World, anims *arcade.AnimationRegistry, base arcade.TileID, x, y float64) *donburi.Entry {
	entry := world.Entry(world.Create(Sprite))
	Sprite.SetValue(entry, SpriteData{
		Instance: anims.AddInstance(base, arcade.OwnershipOwned),
		X:        x,
		Y:        y,
	})
	return entry
}

// RemoveSprite releases the entry's tile instance and removes the entity.
func RemoveSprite(world donburi.World, anims *arcade.AnimationRegistry, entry *donburi.Entry) {
	if entry.HasComponent(Sprite) {
		anims.RemoveInstance(Sprite.Get(entry).Instance)
	}
	world.Remove(entry.Entity())
}

// DrawSprites draws every visible sprite at its current animation frame,
// with the map origin at -offset. Sprites whose tile misses the atlas are
// skipped.
func DrawSprites(world donburi.World, screen *ebiten.Image, anims *arcade.AnimationRegistry, atlas *arcade.TileAtlas, offset arcade.Vec2) {
	var op ebiten.DrawImageOptions
	spriteQuery.Each(world, func(entry *donburi.Entry) {
		s := Sprite.Get(entry)
		if s.Hidden {
			return
		}
		id, ok := anims.TileID(s.Instance)
		if !ok {
			return
		}
		region, ok := atlas.Region(id)
		if !ok {
			return
		}
		op.GeoM.Reset()
		op.GeoM.Translate(s.X-offset.X, s.Y-offset.Y)
		screen.DrawImage(region.Texture.SubImage(region.Source).(*ebiten.Image), &op)
	})
}
