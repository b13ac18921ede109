package swizzle

import "testing"

func TestEvaluateVec3XYZ(t *testing.T) {
	res := Evaluate(3, "xyz")
	if !res.Valid {
		t.Fatalf("xyz on vec3 should be valid, got error: %s", res.Error)
	}
	if res.Scalar {
		t.Error("xyz should not be scalar")
	}
	if res.ResultSize != 3 {
		t.Errorf("expected result size 3, got %d", res.ResultSize)
	}
	want := []int{0, 1, 2}
	for i, v := range want {
		if res.Indices[i] != v {
			t.Errorf("indices mismatch: got %v want %v", res.Indices, want)
			break
		}
	}
	if !res.Writable {
		t.Error("xyz should be writable (all distinct)")
	}
}

func TestEvaluateVec3XYZWOutOfRange(t *testing.T) {
	res := Evaluate(3, "xyzw")
	if res.Valid {
		t.Fatal("xyzw on vec3 should be invalid")
	}
	if !containsAll(res.Error, "vec3", "w") {
		t.Errorf("error message should mention vec3 and w, got: %s", res.Error)
	}
}

func TestEvaluateScalarResult(t *testing.T) {
	res := Evaluate(4, "x")
	if !res.Valid || !res.Scalar {
		t.Fatalf("single component selector should produce a scalar result: %+v", res)
	}
}

func TestEvaluateMixedComponentSets(t *testing.T) {
	res := Evaluate(4, "xr")
	if res.Valid {
		t.Fatal("mixing xyzw and rgba components should be invalid")
	}
}

func TestEvaluateRepeatedComponentsNotWritable(t *testing.T) {
	res := Evaluate(4, "xxy")
	if !res.Valid {
		t.Fatalf("xxy should be a valid read swizzle: %s", res.Error)
	}
	if res.Writable {
		t.Error("repeated components must not be writable")
	}
}

func TestEvaluateRejectsEmptyAndOverlong(t *testing.T) {
	if Evaluate(4, "").Valid {
		t.Error("empty selector should be invalid")
	}
	if Evaluate(4, "xyzwx").Valid {
		t.Error("selector longer than 4 should be invalid")
	}
}

func TestEvaluateRGBAAndSTPQ(t *testing.T) {
	if res := Evaluate(4, "rgba"); !res.Valid {
		t.Errorf("rgba should be valid: %s", res.Error)
	}
	if res := Evaluate(2, "st"); !res.Valid {
		t.Errorf("st should be valid: %s", res.Error)
	}
}

func TestAllSwizzlesEnumeration(t *testing.T) {
	for _, size := range []int{2, 3, 4} {
		all := AllSwizzles(size)
		if len(all) == 0 {
			t.Fatalf("expected non-empty enumeration for size %d", size)
		}
		for _, s := range all {
			if len(s) < 1 || len(s) > 4 {
				t.Errorf("enumerated selector %q has invalid length", s)
			}
			if res := Evaluate(size, s); !res.Valid {
				t.Errorf("enumerated selector %q should evaluate valid: %s", s, res.Error)
			}
		}
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
