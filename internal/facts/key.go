package facts

import "fmt"

// Key identifies a measurable quantity: a distance between two points or
// an angle at a vertex. Keys are canonical; constructing the same quantity
// from its point ids in any order yields an identical value. The interface
// is sealed: DistanceKey and AngleKey are the only implementations.
type Key interface {
	fmt.Stringer
	factKey()
}

// DistanceKey is the unordered pair of endpoint ids of a distance.
type DistanceKey struct {
	A, B string
}

func (DistanceKey) factKey() {}

func (k DistanceKey) String() string {
	return k.A + k.B
}

// Distance returns the canonical key for the distance between two points,
// regardless of argument order.
func Distance(a, b string) DistanceKey {
	if b < a {
		a, b = b, a
	}
	return DistanceKey{A: a, B: b}
}

// AngleKey is an angle at Vertex between the rays toward Ray1 and Ray2,
// with the ray ends normalized to a fixed order.
type AngleKey struct {
	Vertex string
	Ray1   string
	Ray2   string
}

func (AngleKey) factKey() {}

func (k AngleKey) String() string {
	return "∠" + k.Ray1 + k.Vertex + k.Ray2
}

// Angle returns the canonical key for the angle at vertex between the two
// rays, regardless of ray order.
func Angle(vertex, ray1, ray2 string) AngleKey {
	if ray2 < ray1 {
		ray1, ray2 = ray2, ray1
	}
	return AngleKey{Vertex: vertex, Ray1: ray1, Ray2: ray2}
}

// sameKind reports whether two keys measure the same kind of quantity.
// Distances only ever equal distances, angles only angles.
func sameKind(a, b Key) bool {
	switch a.(type) {
	case DistanceKey:
		_, ok := b.(DistanceKey)
		return ok
	case AngleKey:
		_, ok := b.(AngleKey)
		return ok
	}
	return false
}
