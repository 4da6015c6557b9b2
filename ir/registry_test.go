package ir

import "testing"

func TestTypeRegistry_ScalarDeduplication(t *testing.T) {
	reg := NewTypeRegistry()

	f1 := reg.Scalar(BaseFloat)
	f2 := reg.Scalar(BaseFloat)

	if f1 != f2 {
		t.Errorf("expected the same *Type for two float scalar requests, got %p and %p", f1, f2)
	}
	if reg.Count() != 1 {
		t.Errorf("expected 1 interned type, got %d", reg.Count())
	}
}

func TestTypeRegistry_DifferentScalars(t *testing.T) {
	reg := NewTypeRegistry()

	f := reg.Scalar(BaseFloat)
	i := reg.Scalar(BaseInt)
	u := reg.Scalar(BaseUint)
	b := reg.Scalar(BaseBool)

	types := []*Type{f, i, u, b}
	for a := 0; a < len(types); a++ {
		for c := a + 1; c < len(types); c++ {
			if types[a] == types[c] {
				t.Errorf("expected distinct types, got %p == %p", types[a], types[c])
			}
		}
	}
	if reg.Count() != 4 {
		t.Errorf("expected 4 interned types, got %d", reg.Count())
	}
}

func TestTypeRegistry_VectorDeduplication(t *testing.T) {
	reg := NewTypeRegistry()

	v1 := reg.Vector(BaseFloat, 4)
	v2 := reg.Vector(BaseFloat, 4)
	if v1 != v2 {
		t.Errorf("expected the same *Type for two vec4<float> requests, got %p and %p", v1, v2)
	}

	v3 := reg.Vector(BaseFloat, 3)
	if v1 == v3 {
		t.Error("vec4<float> should not equal vec3<float>")
	}
}

func TestTypeRegistry_MatrixAndArray(t *testing.T) {
	reg := NewTypeRegistry()

	m1 := reg.Matrix(BaseFloat, 4, 4)
	m2 := reg.Matrix(BaseFloat, 4, 4)
	if m1 != m2 {
		t.Error("expected mat4x4<float> to be canonical")
	}

	elem := reg.Scalar(BaseFloat)
	a1 := reg.Array(elem, 3)
	a2 := reg.Array(elem, 3)
	if a1 != a2 {
		t.Error("expected float[3] to be canonical")
	}
	a3 := reg.Array(elem, 0)
	if a1 == a3 {
		t.Error("runtime-sized array should differ from a fixed-size one")
	}
}

func TestTypeRegistry_StructDeduplication(t *testing.T) {
	reg := NewTypeRegistry()
	f := reg.Scalar(BaseFloat)

	fields := []StructField{{Name: "a", Type: f}, {Name: "b", Type: f}}
	s1 := reg.Struct("S", fields)
	s2 := reg.Struct("S", fields)
	if s1 != s2 {
		t.Error("expected identical struct declarations to intern to the same *Type")
	}
}

func TestComponentsAndHelpers(t *testing.T) {
	reg := NewTypeRegistry()
	f := reg.Scalar(BaseFloat)
	v3 := reg.Vector(BaseFloat, 3)
	m := reg.Matrix(BaseFloat, 4, 4)
	arr := reg.Array(f, 5)

	if Components(f) != 1 {
		t.Errorf("scalar has 1 component, got %d", Components(f))
	}
	if Components(v3) != 3 {
		t.Errorf("vec3 has 3 components, got %d", Components(v3))
	}
	if Components(m) != 16 {
		t.Errorf("mat4 has 16 components, got %d", Components(m))
	}
	if !IsArray(arr) {
		t.Error("expected IsArray(float[5]) to be true")
	}
	if BaseKindOf(v3) != BaseFloat {
		t.Errorf("expected vec3<float> base kind to be float, got %s", BaseKindOf(v3))
	}
	if got := reg.GetInstance(BaseFloat, 4, 1); got != reg.Vector(BaseFloat, 4) {
		t.Error("GetInstance(float, 4, 1) should return the canonical vec4<float>")
	}
	if got := reg.GetInstance(BaseFloat, 1, 1); got != reg.Scalar(BaseFloat) {
		t.Error("GetInstance(float, 1, 1) should return the canonical scalar float")
	}
}
