package block

import "fmt"

// MaxBlocks is the size of the ID space. Block data is stored as one byte
// per cell, so IDs above 255 cannot exist.
const MaxBlocks = 256

// Registry is an immutable lookup table of block types. It is built once
// at startup and shared by reference with the terrain synthesizer and the
// mesh compiler, so it must not be mutated after construction.
type Registry struct {
	byID [MaxBlocks]*Block
}

// Texture atlas slots for the default block set. The renderer paints its
// procedural atlas in this order.
const (
	TexAir = iota
	TexStone
	TexDirt
	TexGrassSide
	TexGrassTop
	TexSand
	TexWater
	TexBedrock
	TexWoodSide
	TexWoodEnd
	TexLeaves
	TexGlass
	TexCoalOre
	TexIronOre
	TexGoldOre
	TexDiamondOre
)

// NewRegistry builds a registry holding the default block set.
func NewRegistry() *Registry {
	r := &Registry{}

	r.register(&Block{ID: Air, Name: "Air", Transparent: true, textures: same(TexAir)})
	r.register(&Block{ID: Stone, Name: "Stone", Solid: true, textures: same(TexStone)})
	r.register(&Block{ID: Dirt, Name: "Dirt", Solid: true, textures: same(TexDirt)})
	r.register(&Block{ID: Grass, Name: "Grass", Solid: true,
		textures: [6]int{TexGrassTop, TexDirt, TexGrassSide, TexGrassSide, TexGrassSide, TexGrassSide}})
	r.register(&Block{ID: Sand, Name: "Sand", Solid: true, textures: same(TexSand)})
	r.register(&Block{ID: Water, Name: "Water", Transparent: true, Liquid: true, textures: same(TexWater)})
	r.register(&Block{ID: Bedrock, Name: "Bedrock", Solid: true, textures: same(TexBedrock)})
	r.register(&Block{ID: Wood, Name: "Wood", Solid: true,
		textures: [6]int{TexWoodEnd, TexWoodEnd, TexWoodSide, TexWoodSide, TexWoodSide, TexWoodSide}})
	r.register(&Block{ID: Leaves, Name: "Leaves", Solid: true, Transparent: true, textures: same(TexLeaves)})
	r.register(&Block{ID: Glass, Name: "Glass", Solid: true, Transparent: true, textures: same(TexGlass)})
	r.register(&Block{ID: CoalOre, Name: "Coal Ore", Solid: true, textures: same(TexCoalOre)})
	r.register(&Block{ID: IronOre, Name: "Iron Ore", Solid: true, textures: same(TexIronOre)})
	r.register(&Block{ID: GoldOre, Name: "Gold Ore", Solid: true, textures: same(TexGoldOre)})
	r.register(&Block{ID: DiamondOre, Name: "Diamond Ore", Solid: true, textures: same(TexDiamondOre)})

	return r
}

func same(tex int) [6]int {
	return [6]int{tex, tex, tex, tex, tex, tex}
}

func (r *Registry) register(b *Block) {
	if r.byID[b.ID] != nil {
		panic(fmt.Sprintf("block: duplicate ID %d (%s)", b.ID, b.Name))
	}
	r.byID[b.ID] = b
}

// Get returns the block for the given ID. Unregistered IDs resolve to air
// so that corrupt or future block data degrades to empty space instead of
// failing.
func (r *Registry) Get(id byte) *Block {
	if b := r.byID[id]; b != nil {
		return b
	}
	return r.byID[Air]
}

// IsSolid reports whether the block with the given ID blocks movement.
func (r *Registry) IsSolid(id byte) bool {
	return r.Get(id).Solid
}

// IsOpaque reports whether the block with the given ID hides adjacent faces.
func (r *Registry) IsOpaque(id byte) bool {
	return r.Get(id).Opaque()
}

// TextureIndex returns the atlas texture index of a block face.
func (r *Registry) TextureIndex(id byte, f Face) int {
	return r.Get(id).TextureIndex(f)
}

// Count returns the number of registered block types.
func (r *Registry) Count() int {
	n := 0
	for _, b := range r.byID {
		if b != nil {
			n++
		}
	}
	return n
}
