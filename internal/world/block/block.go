// Package block defines block types and the capability table used by
// terrain generation and mesh building.
package block

// Face identifies one of the six faces of a cube.
type Face int

// Face order matches the texture index table layout.
const (
	FaceUp Face = iota
	FaceDown
	FaceFront
	FaceBack
	FaceLeft
	FaceRight
)

// Well-known block IDs. ID 0 is always air.
const (
	Air byte = iota
	Stone
	Dirt
	Grass
	Sand
	Water
	Bedrock
	Wood
	Leaves
	Glass
	CoalOre
	IronOre
	GoldOre
	DiamondOre
)

// Block describes the static properties of one block type.
type Block struct {
	ID          byte
	Name        string
	Solid       bool
	Transparent bool
	Liquid      bool

	// Atlas texture index per face, ordered UP, DOWN, FRONT, BACK, LEFT, RIGHT.
	textures [6]int
}

// TextureIndex returns the atlas texture index for the given face.
func (b *Block) TextureIndex(f Face) int {
	return b.textures[f]
}

// Opaque reports whether the block fully hides faces behind it.
func (b *Block) Opaque() bool {
	return b.Solid && !b.Transparent
}
