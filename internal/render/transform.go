package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Vec3 = mgl64.Vec3

// Transform is a node's local position, orientation and scale.
type Transform struct {
	Position Vec3
	Rotation mgl64.Quat
	Scale    Vec3
}

func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent(), Scale: Vec3{1, 1, 1}}
}

func At(x, y, z float64) Transform {
	t := Identity()
	t.Position = Vec3{x, y, z}
	return t
}

// Euler builds an XYZ-order rotation from angles in radians.
func Euler(x, y, z float64) mgl64.Quat {
	return mgl64.AnglesToQuat(x, y, z, mgl64.XYZ)
}

var forward = Vec3{0, 0, 1}

// FaceDirection returns the rotation that points +Z along dir. A zero dir
// yields the identity.
func FaceDirection(dir Vec3) mgl64.Quat {
	if dir.Len() < 1e-9 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(forward, dir)
}

// Matrix returns translate * rotate * scale.
func (t Transform) Matrix() mgl64.Mat4 {
	s := t.Scale
	if s == (Vec3{}) {
		s = Vec3{1, 1, 1}
	}
	r := t.Rotation
	if r == (mgl64.Quat{}) {
		r = mgl64.QuatIdent()
	}
	return mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(r.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

// AxisAngle decomposes the rotation for backends that take an axis and an
// angle in degrees.
func (t Transform) AxisAngle() (Vec3, float64) {
	q := t.Rotation
	if q == (mgl64.Quat{}) {
		return Vec3{0, 1, 0}, 0
	}
	q = q.Normalize()
	w := math.Max(-1, math.Min(1, q.W))
	angle := 2 * math.Acos(w)
	sin := math.Sqrt(1 - w*w)
	if sin < 1e-6 {
		return Vec3{0, 1, 0}, 0
	}
	return q.V.Mul(1 / sin), mgl64.RadToDeg(angle)
}
