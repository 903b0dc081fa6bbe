package tetris

import "testing"

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in   int
		want uint8
	}{
		{0, 0}, {3, 3}, {4, 0}, {5, 1}, {-1, 3}, {-4, 0}, {-7, 1},
	}
	for _, tt := range tests {
		if got := NormalizeRotation(tt.in); got != tt.want {
			t.Errorf("NormalizeRotation(%d) = %d, expected %d", tt.in, got, tt.want)
		}
	}
}

func TestPieceCatalogShape(t *testing.T) {
	for _, v := range AllVariants {
		for r := range uint8(4) {
			blocks := Blocks(v, r)
			seen := map[Offset]bool{}
			for _, o := range blocks {
				if seen[o] {
					t.Errorf("%v rotation %d repeats block %v", v, r, o)
				}
				seen[o] = true
				if o.X < 0 || o.X > 3 || o.Y < 0 || o.Y > 3 {
					t.Errorf("%v rotation %d block %v outside 4x4 box", v, r, o)
				}
			}
			minX, maxX := MinMaxX(v, r)
			minY, maxY := MinMaxY(v, r)
			if minX > maxX || minY > maxY {
				t.Errorf("%v rotation %d bad bounds x[%d,%d] y[%d,%d]", v, r, minX, maxX, minY, maxY)
			}
		}
	}
}

func TestPieceBounds(t *testing.T) {
	tests := []struct {
		v                      Variant
		rot                    uint8
		minX, maxX, minY, maxY uint8
	}{
		{VariantI, 0, 0, 3, 2, 2},
		{VariantI, 1, 2, 2, 0, 3},
		{VariantO, 0, 1, 2, 1, 2},
		{VariantT, 0, 0, 2, 1, 2},
		{VariantT, 2, 0, 2, 0, 1},
		{VariantS, 3, 0, 1, 0, 2},
	}
	for _, tt := range tests {
		minX, maxX := MinMaxX(tt.v, tt.rot)
		minY, maxY := MinMaxY(tt.v, tt.rot)
		if minX != tt.minX || maxX != tt.maxX || minY != tt.minY || maxY != tt.maxY {
			t.Errorf("%v/%d bounds x[%d,%d] y[%d,%d], expected x[%d,%d] y[%d,%d]",
				tt.v, tt.rot, minX, maxX, minY, maxY, tt.minX, tt.maxX, tt.minY, tt.maxY)
		}
	}
}

func TestPieceRotatedWraps(t *testing.T) {
	p := NewPiece(VariantL)
	for range 4 {
		p = p.Rotated(true)
	}
	if p.Rotation != 0 {
		t.Errorf("four clockwise turns: rotation %d, expected 0", p.Rotation)
	}
	if got := NewPiece(VariantL).Rotated(false).Rotation; got != 3 {
		t.Errorf("counter-clockwise from spawn: rotation %d, expected 3", got)
	}
}

func TestParseVariant(t *testing.T) {
	for _, v := range AllVariants {
		got, err := ParseVariant(v.String())
		if err != nil || got != v {
			t.Errorf("ParseVariant(%q) = %v, %v", v.String(), got, err)
		}
	}
	if _, err := ParseVariant("X"); err == nil {
		t.Error("ParseVariant(\"X\") should fail")
	}
}
