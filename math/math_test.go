package math

import (
	"math"
	"math/rand"
	"testing"
)

const tolerance = 1e-9

func vec3Near(a, b Vec3, tol float64) bool {
	return NearlyEqual(a.X, b.X, tol) && NearlyEqual(a.Y, b.Y, tol) && NearlyEqual(a.Z, b.Z, tol)
}

func mat4Near(a, b Mat4, tol float64) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if !NearlyEqual(a[i][j], b[i][j], tol) {
				return false
			}
		}
	}
	return true
}

func randomVec3(r *rand.Rand) Vec3 {
	return Vec3{X: r.Float64()*20 - 10, Y: r.Float64()*20 - 10, Z: r.Float64()*20 - 10}
}

func randomMat4(r *rand.Rand) Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = r.Float64()*4 - 2
		}
	}
	return m
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	// Addition
	if got, want := v1.Add(v2), NewVec3(5, 7, 9); got != want {
		t.Errorf("Add: expected %v, got %v", want, got)
	}

	// Subtraction
	if got, want := v2.Sub(v1), NewVec3(3, 3, 3); got != want {
		t.Errorf("Sub: expected %v, got %v", want, got)
	}

	// Scalar multiplication and division
	if got, want := v1.Mul(2), NewVec3(2, 4, 6); got != want {
		t.Errorf("Mul: expected %v, got %v", want, got)
	}
	if got, want := v1.Mul(2).Div(2), v1; got != want {
		t.Errorf("Div: expected %v, got %v", want, got)
	}

	// Dot product
	if dot := v1.Dot(v2); dot != 32 {
		t.Errorf("Dot: expected 32, got %v", dot)
	}

	// Right x Up = Front in a right-handed system
	if cross := Vec3Right.Cross(Vec3Up); cross != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, cross)
	}
}

func TestVecIndexing(t *testing.T) {
	v := NewVec4(1, 2, 3, 4)
	for i := 0; i < 4; i++ {
		if v.At(i) != float64(i+1) {
			t.Errorf("Vec4.At(%d) = %v", i, v.At(i))
		}
	}
	if got := v.With(2, 9); got.Z != 9 || v.Z != 3 {
		t.Errorf("With should copy: got %v, original %v", got, v)
	}

	expectPanic(t, "Vec2.At(2)", func() { NewVec2(1, 2).At(2) })
	expectPanic(t, "Vec3.At(-1)", func() { NewVec3(1, 2, 3).At(-1) })
	expectPanic(t, "Vec4.At(4)", func() { v.At(4) })
	expectPanic(t, "Vec3.With(3)", func() { NewVec3(1, 2, 3).With(3, 0) })
}

func TestDivisionByNearZeroPanics(t *testing.T) {
	expectPanic(t, "Vec3.Div(0)", func() { NewVec3(1, 1, 1).Div(0) })
	expectPanic(t, "Vec2.Div(1e-300)", func() { NewVec2(1, 1).Div(1e-300) })
	expectPanic(t, "Vec4.PerspectiveDivide(w=0)", func() { NewVec4(1, 1, 1, 0).PerspectiveDivide() })
}

func TestNormalize(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		v := randomVec3(r)
		if v.Length() < 1e-6 {
			continue
		}
		if l := v.Normalize().Length(); math.Abs(l-1) > tolerance {
			t.Fatalf("|normalize(%v)| = %v, want 1", v, l)
		}
	}

	if got := Vec3Zero.Normalize(); got != Vec3Zero {
		t.Errorf("normalize(0) = %v, want zero vector", got)
	}
	if got := (Vec2{}).Normalize(); got != (Vec2{}) {
		t.Errorf("normalize(Vec2 0) = %v, want zero vector", got)
	}
}

func TestCrossIsOrthogonal(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		a, b := randomVec3(r), randomVec3(r)
		c := a.Cross(b)
		if d := c.Dot(a); math.Abs(d) > 1e-9 {
			t.Fatalf("dot(cross(a,b), a) = %v for a=%v b=%v", d, a, b)
		}
		if d := c.Dot(b); math.Abs(d) > 1e-9 {
			t.Fatalf("dot(cross(a,b), b) = %v for a=%v b=%v", d, a, b)
		}
	}
}

func TestVec2CrossPromotes(t *testing.T) {
	got := NewVec2(2, 0).Cross(NewVec2(0, 3))
	if got != NewVec3(0, 0, 6) {
		t.Errorf("Vec2 cross: expected (0,0,6), got %v", got)
	}
	got = NewVec2(0, 3).Cross(NewVec2(2, 0))
	if got != NewVec3(0, 0, -6) {
		t.Errorf("Vec2 cross reversed: expected (0,0,-6), got %v", got)
	}
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := 0.0
			if i == j {
				expected = 1
			}
			if m[i][j] != expected {
				t.Errorf("Identity: expected [%d][%d] = %v, got %v", i, j, expected, m[i][j])
			}
		}
	}

	r := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		v := randomVec3(r).ToVec4(r.Float64())
		if got := m.MulVec(v); got != v {
			t.Fatalf("identity * %v = %v", v, got)
		}
	}
}

func TestMat4Associative(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		a, b, c := randomMat4(r), randomMat4(r), randomMat4(r)
		left := a.Mul(b).Mul(c)
		right := a.Mul(b.Mul(c))
		if !mat4Near(left, right, 1e-9) {
			t.Fatalf("(AB)C != A(BC):\n%v\n%v", left, right)
		}
	}
}

func TestMat4IndexPanics(t *testing.T) {
	m := Mat4Identity()
	expectPanic(t, "At(4,0)", func() { m.At(4, 0) })
	expectPanic(t, "Row(-1)", func() { m.Row(-1) })
	expectPanic(t, "Col(4)", func() { m.Col(4) })
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	if m[0][3] != 1 || m[1][3] != 2 || m[2][3] != 3 {
		t.Errorf("Translation: expected (1,2,3) in column 3, got (%v,%v,%v)", m[0][3], m[1][3], m[2][3])
	}

	if got := m.MulPoint(Vec3Zero); got != translation {
		t.Errorf("Translation: expected %v, got %v", translation, got)
	}
	if got := m.MulDir(Vec3Up); got != Vec3Up {
		t.Errorf("Translation must not move directions, got %v", got)
	}
}

func TestMat4Rotation(t *testing.T) {
	// 90 degrees about Y takes +X to -Z.
	got := Mat4RotationY(math.Pi / 2).MulDir(Vec3Right)
	if !vec3Near(got, Vec3Back, 1e-12) {
		t.Errorf("RotationY: expected %v, got %v", Vec3Back, got)
	}

	axis := NewVec3(1, 2, 3).Normalize()
	a := Mat4RotationAxis(axis, 0.7)
	b := QuaternionFromAxisAngle(axis, 0.7).ToMat4()
	if !mat4Near(a, b, 1e-12) {
		t.Errorf("axis rotation and quaternion disagree:\n%v\n%v", a, b)
	}
}

func TestQuaternionRotation(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Up, math.Pi/2)
	result := q.RotateVector(Vec3Right)
	if !vec3Near(result, Vec3Back, 1e-12) {
		t.Errorf("Quaternion rotation: expected (0,0,-1), got %v", result)
	}

	euler := NewVec3(0.3, -1.1, 0.4)
	if !mat4Near(QuaternionFromEuler(euler).ToMat4(), Mat4Rotation(euler), 1e-12) {
		t.Error("QuaternionFromEuler does not match Mat4Rotation")
	}
}

func TestMat4Inverse(t *testing.T) {
	m := Mat4TRS(NewVec3(1, -2, 3), NewVec3(0.2, 0.5, -0.3), NewVec3(2, 3, 0.5))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse: unexpected singular matrix")
	}
	if !mat4Near(m.Mul(inv), Mat4Identity(), 1e-9) {
		t.Errorf("m * inverse(m) != I:\n%v", m.Mul(inv))
	}

	if _, ok := Mat4Zero().Inverse(); ok {
		t.Error("Inverse of zero matrix should fail")
	}
}

func BenchmarkVec3Add(b *testing.B) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
