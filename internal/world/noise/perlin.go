// Package noise implements seeded 3D gradient noise for terrain synthesis.
package noise

import (
	"math"
	"math/rand"
)

// Perlin is a classic 3D gradient noise field. The permutation table is
// derived from the seed at construction time and never written afterwards,
// so a single instance may be shared across worker goroutines.
type Perlin struct {
	seed int64
	perm [512]int
}

// New creates a noise field for the given seed. Equal seeds always yield
// identical fields, across runs and across processes.
func New(seed int64) *Perlin {
	p := &Perlin{seed: seed}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 256; i++ {
		p.perm[i] = i
	}
	for i := 0; i < 256; i++ {
		j := rng.Intn(256)
		p.perm[i], p.perm[j] = p.perm[j], p.perm[i]
	}
	// Duplicate so lattice hashing never indexes past the table.
	for i := 0; i < 256; i++ {
		p.perm[i+256] = p.perm[i]
	}
	return p
}

// Seed returns the seed the field was built from.
func (p *Perlin) Seed() int64 {
	return p.seed
}

// Value samples the noise field at the given point. The result is in
// [-1, 1]. Coordinates outside the unit lattice wrap via modulo-256
// indexing, so every input is valid.
func (p *Perlin) Value(x, y, z float64) float64 {
	xi := int(math.Floor(x)) & 255
	yi := int(math.Floor(y)) & 255
	zi := int(math.Floor(z)) & 255

	x -= math.Floor(x)
	y -= math.Floor(y)
	z -= math.Floor(z)

	u := fade(x)
	v := fade(y)
	w := fade(z)

	a := p.perm[xi] + yi
	aa := p.perm[a] + zi
	ab := p.perm[a+1] + zi
	b := p.perm[xi+1] + yi
	ba := p.perm[b] + zi
	bb := p.perm[b+1] + zi

	return lerp(w,
		lerp(v,
			lerp(u, grad(p.perm[aa], x, y, z), grad(p.perm[ba], x-1, y, z)),
			lerp(u, grad(p.perm[ab], x, y-1, z), grad(p.perm[bb], x-1, y-1, z))),
		lerp(v,
			lerp(u, grad(p.perm[aa+1], x, y, z-1), grad(p.perm[ba+1], x-1, y, z-1)),
			lerp(u, grad(p.perm[ab+1], x, y-1, z-1), grad(p.perm[bb+1], x-1, y-1, z-1))))
}

// Octaves sums n samples of progressively doubled frequency and
// persistence-scaled amplitude, normalized back into [-1, 1].
func (p *Perlin) Octaves(x, y, z float64, octaves int, persistence float64) float64 {
	var total, maxValue float64
	frequency := 1.0
	amplitude := 1.0

	for i := 0; i < octaves; i++ {
		total += p.Value(x*frequency, y*frequency, z*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxValue
}

// HeightAt samples a 2D heightmap value for a world column. The noise is
// remapped from [-1, 1] to [0, max]. Smaller scales produce larger
// terrain features.
func (p *Perlin) HeightAt(worldX, worldZ int, octaves int, scale, max float64) float64 {
	x := float64(worldX) / scale
	z := float64(worldZ) / scale
	n := (p.Octaves(x, 0, z, octaves, 0.5) + 1) / 2
	return n * max
}

// fade is the 6t^5 - 15t^4 + 10t^3 smoothstep curve.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad maps the low 4 hash bits onto 12 gradient directions and returns
// the dot product with the distance vector.
func grad(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
