package types

import "testing"

func TestParseTypeRoundTripBuiltins(t *testing.T) {
	r := New()
	for _, size := range []uint8{2, 3, 4} {
		for _, elem := range []Primitive{F32, F16, I32, U32} {
			want := Vec(size, elem)
			str := TypeToString(want)
			got, ok := r.ParseType(str)
			if !ok {
				t.Fatalf("ParseType(%q) failed", str)
			}
			if !got.Equal(want) {
				t.Errorf("round trip mismatch for %q: got %+v want %+v", str, got, want)
			}
		}
	}
}

func TestParseTypeRoundTripMatrices(t *testing.T) {
	r := New()
	for _, cols := range []uint8{2, 3, 4} {
		for _, rows := range []uint8{2, 3, 4} {
			for _, elem := range []Primitive{F32, F16} {
				want := Mat(cols, rows, elem)
				str := TypeToString(want)
				got, ok := r.ParseType(str)
				if !ok || !got.Equal(want) {
					t.Errorf("round trip mismatch for %q: got %+v ok=%v want %+v", str, got, ok, want)
				}
			}
		}
	}
}

func TestParseTypeShortForm(t *testing.T) {
	got, ok := ParseType("vec3f")
	if !ok || !got.Equal(Vec(3, F32)) {
		t.Fatalf("vec3f: got %+v ok=%v", got, ok)
	}
	got, ok = ParseType("mat4x4h")
	if !ok || !got.Equal(Mat(4, 4, F16)) {
		t.Fatalf("mat4x4h: got %+v ok=%v", got, ok)
	}
}

func TestParseTypeArray(t *testing.T) {
	got, ok := ParseType("array<f32, 4>")
	if !ok {
		t.Fatal("array<f32, 4> failed to parse")
	}
	n := uint32(4)
	if !got.Equal(Arr(Prm(F32), &n)) {
		t.Errorf("got %+v", got)
	}

	got, ok = ParseType("array<f32>")
	if !ok || !got.Equal(Arr(Prm(F32), nil)) {
		t.Errorf("runtime array: got %+v ok=%v", got, ok)
	}
}

func TestParseTypeTextureRoundTrip(t *testing.T) {
	r := New()
	cases := []Ref{
		Tex(Dim2D, SampleFloat),
		Tex(Dim2D, SampleSint),
		Tex(DimCube, SampleUint),
		Tex(Dim2D, SampleDepth),
		Tex(Dim2DArray, SampleDepth),
	}
	for _, want := range cases {
		str := TypeToString(want)
		got, ok := r.ParseType(str)
		if !ok || !got.Equal(want) {
			t.Errorf("texture round trip mismatch for %q: got %+v ok=%v want %+v", str, got, ok, want)
		}
	}
}

func TestParseTypeUnrecognized(t *testing.T) {
	if _, ok := ParseType("not_a_type<<<"); ok {
		t.Error("expected failure for garbage input")
	}
}

func TestRegisterStructLayout(t *testing.T) {
	r := New()
	// struct { a: f32, b: vec3<f32> } -- a at 0 (align4,size4), b must align
	// to 16 so offset 16, size 12, struct size rounds up to 16*2=32? max
	// align among fields is 16 (vec3), so total = roundUp(16+12, 16) = 32.
	info := r.RegisterStruct("S", []Field{
		{Name: "a", Type: Prm(F32)},
		{Name: "b", Type: Vec(3, F32)},
	})
	if info.Align != 16 {
		t.Errorf("expected align 16, got %d", info.Align)
	}
	if info.Size != 32 {
		t.Errorf("expected size 32, got %d", info.Size)
	}
}

func TestRegisterStructLastWriteWins(t *testing.T) {
	r := New()
	r.RegisterStruct("S", []Field{{Name: "a", Type: Prm(F32)}})
	r.RegisterStruct("S", []Field{{Name: "a", Type: Prm(F32)}, {Name: "b", Type: Prm(F32)}})

	fields, ok := r.Fields("S")
	if !ok || len(fields) != 2 {
		t.Fatalf("expected last registration to win, got %+v ok=%v", fields, ok)
	}
}

func TestStructRoundTripThroughRegistry(t *testing.T) {
	r := New()
	r.RegisterStruct("Particle", []Field{{Name: "pos", Type: Vec(3, F32)}})

	str := TypeToString(Struct("Particle"))
	got, ok := r.ParseType(str)
	if !ok || !got.Equal(Struct("Particle")) {
		t.Errorf("struct round trip failed: got %+v ok=%v", got, ok)
	}
}

func TestVec3AlignmentInvariant(t *testing.T) {
	r := New()
	align, size := r.AlignAndSize(Vec(3, F32))
	if size != 12 || align != 16 {
		t.Errorf("vec3<f32> must be size 12 align 16, got size=%d align=%d", size, align)
	}
}
