package classify

import "testing"

func TestShape(t *testing.T) {
	cases := []struct {
		value string
		want  ValueShape
	}{
		{"35", ShapeNumeric},
		{"$125.5 million", ShapeNumeric},
		{"15%", ShapeNumeric},
		{"1,250", ShapeNumeric},
		{"-3.2%", ShapeNumeric},
		{"₹500 crore", ShapeNumeric},
		{"O+", ShapeCodeLike},
		{"AB-123", ShapeCodeLike},
		{"IN2024", ShapeCodeLike},
		{"XYZ", ShapeCodeLike},
		{"Indian national", ShapeShortText},
		{"Life360 Inc.", ShapeShortText},
		{"Cloud platform expertise", ShapeShortText},
		{"Extensive cloud platform expertise and technical leadership skills", ShapeLongText},
		{"", ShapeShortText},
		{"   ", ShapeShortText},
	}
	for _, tc := range cases {
		if got := Shape(tc.value); got != tc.want {
			t.Errorf("Shape(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestShapeString(t *testing.T) {
	cases := map[ValueShape]string{
		ShapeNumeric:   "numeric",
		ShapeCodeLike:  "code-like",
		ShapeShortText: "short-text",
		ShapeLongText:  "long-text",
	}
	for shape, want := range cases {
		if got := shape.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", shape, got, want)
		}
	}
}

func TestThresholdFavorsRecallForCodes(t *testing.T) {
	if Threshold(ShapeNumeric) >= Threshold(ShapeShortText) {
		t.Fatal("numeric threshold should be below short-text threshold")
	}
	if Threshold(ShapeCodeLike) >= Threshold(ShapeLongText) {
		t.Fatal("code-like threshold should be below long-text threshold")
	}
	if Threshold(ShapeShortText) >= Threshold(ShapeLongText) {
		t.Fatal("short-text threshold should be below long-text threshold")
	}
}

func TestFuzzyCutoff(t *testing.T) {
	if FuzzyCutoff(ShapeCodeLike) <= FuzzyCutoff(ShapeLongText) {
		t.Fatal("code-like values need a tighter fuzzy cutoff than long text")
	}
	if got := FuzzyCutoff(ShapeNumeric); got != fuzzyCutoffTight {
		t.Fatalf("FuzzyCutoff(numeric) = %v, want %v", got, fuzzyCutoffTight)
	}
}

func TestShapeDeterminism(t *testing.T) {
	for i := 0; i < 100; i++ {
		if Shape("O+") != ShapeCodeLike || Shape("$115.5 million") != ShapeNumeric {
			t.Fatal("classification must be deterministic")
		}
	}
}
