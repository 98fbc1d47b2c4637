package renderer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the layout every mesh uses.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec3
	UV       mgl32.Vec2
}

// FloatsPerVertex is the interleaved size of a Vertex.
const FloatsPerVertex = 11

// Geometry is CPU-side mesh data. Triangles wind clockwise when seen from
// the side their normals face.
type Geometry struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Interleave flattens the vertices as position, normal, tangent, uv.
func (g *Geometry) Interleave() []float32 {
	data := make([]float32, 0, len(g.Vertices)*FloatsPerVertex)
	for _, v := range g.Vertices {
		data = append(data,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.Tangent[0], v.Tangent[1], v.Tangent[2],
			v.UV[0], v.UV[1])
	}
	return data
}

// BoundingRadius is the distance from the origin to the farthest vertex.
func (g *Geometry) BoundingRadius() float32 {
	var maxSq float32
	for _, v := range g.Vertices {
		if d := v.Position.LenSqr(); d > maxSq {
			maxSq = d
		}
	}
	return math32.Sqrt(maxSq)
}

// NewCube builds an axis-aligned cube of edge length size centred on the
// origin, four vertices per face.
func NewCube(size float32) *Geometry {
	h := size / 2
	faces := []struct{ normal, up mgl32.Vec3 }{
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	}

	g := &Geometry{Name: "cube"}
	for _, f := range faces {
		// Right as seen by a viewer looking at the face from outside.
		right := f.normal.Cross(f.up)
		center := f.normal.Mul(h)
		r := right.Mul(h)
		u := f.up.Mul(h)

		base := uint32(len(g.Vertices))
		corners := []struct {
			pos mgl32.Vec3
			uv  mgl32.Vec2
		}{
			{center.Sub(r).Add(u), mgl32.Vec2{0, 0}},
			{center.Add(r).Add(u), mgl32.Vec2{1, 0}},
			{center.Add(r).Sub(u), mgl32.Vec2{1, 1}},
			{center.Sub(r).Sub(u), mgl32.Vec2{0, 1}},
		}
		for _, c := range corners {
			g.Vertices = append(g.Vertices, Vertex{Position: c.pos, Normal: f.normal, Tangent: right, UV: c.uv})
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// NewPlane builds a square of edge length size on the XZ plane facing +Y,
// split into divisions x divisions cells.
func NewPlane(size float32, divisions int) *Geometry {
	if divisions < 1 {
		divisions = 1
	}
	h := size / 2
	step := size / float32(divisions)

	g := &Geometry{Name: "plane"}
	for i := 0; i <= divisions; i++ {
		for j := 0; j <= divisions; j++ {
			g.Vertices = append(g.Vertices, Vertex{
				Position: mgl32.Vec3{-h + float32(j)*step, 0, h - float32(i)*step},
				Normal:   mgl32.Vec3{0, 1, 0},
				Tangent:  mgl32.Vec3{1, 0, 0},
				UV:       mgl32.Vec2{float32(j) / float32(divisions), float32(i) / float32(divisions)},
			})
		}
	}
	g.Indices = gridIndices(divisions, divisions)
	return g
}

// NewSphere builds a UV sphere with the given number of longitudinal slices
// and latitudinal stacks.
func NewSphere(radius float32, slices, stacks int) *Geometry {
	if slices < 3 {
		slices = 3
	}
	if stacks < 2 {
		stacks = 2
	}

	g := &Geometry{Name: "sphere"}
	for i := 0; i <= stacks; i++ {
		phi := math32.Pi * float32(i) / float32(stacks)
		sinPhi, cosPhi := math32.Sincos(phi)
		for j := 0; j <= slices; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(slices)
			sinTheta, cosTheta := math32.Sincos(theta)

			normal := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			g.Vertices = append(g.Vertices, Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				Tangent:  mgl32.Vec3{-sinTheta, 0, cosTheta},
				UV:       mgl32.Vec2{float32(j) / float32(slices), float32(i) / float32(stacks)},
			})
		}
	}
	g.Indices = gridIndices(stacks, slices)
	return g
}

// gridIndices triangulates a rows x cols grid of cells whose vertices are
// laid out row-major, top row first, left to right.
func gridIndices(rows, cols int) []uint32 {
	indices := make([]uint32, 0, rows*cols*6)
	stride := uint32(cols + 1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			tl := uint32(i)*stride + uint32(j)
			tr := tl + 1
			bl := tl + stride
			br := bl + 1
			indices = append(indices, tl, tr, br, tl, br, bl)
		}
	}
	return indices
}
