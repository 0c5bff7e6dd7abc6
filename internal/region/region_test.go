package region

import "testing"

func TestIntersectExhaustiveTable(t *testing.T) {
	// Mirrors spec.md's canonical table test: every valid pair of ranges
	// drawn from [0..8] must land in exactly one of the named buckets and
	// must agree with DominanceOf's coarse projection.
	for i := 0; i <= 8; i++ {
		for j := i; j <= 8; j++ {
			for s := 0; s <= 8; s++ {
				for e := s; e <= 8; e++ {
					kind, err := Intersect(i, j, s, e)
					if err != nil {
						t.Fatalf("Intersect(%d,%d,%d,%d): unexpected error %v", i, j, s, e, err)
					}
					if kind.String() == "" {
						t.Fatalf("Intersect(%d,%d,%d,%d) produced unnamed kind %d", i, j, s, e, kind)
					}
					if _, err := DominanceOf(i, j, s, e); err != nil {
						t.Fatalf("DominanceOf(%d,%d,%d,%d): unexpected error %v", i, j, s, e, err)
					}
				}
			}
		}
	}
}

func TestIntersectInvalidRange(t *testing.T) {
	if _, err := Intersect(5, 2, 0, 3); err == nil {
		t.Fatalf("expected ErrInvalidRange for i>j")
	}
	if _, err := Intersect(0, 3, 5, 2); err == nil {
		t.Fatalf("expected ErrInvalidRange for s>e")
	}
}

func TestIntersectNamedCases(t *testing.T) {
	tests := []struct {
		name       string
		i, j, s, e int
		want       Intersection
	}{
		{"same", 2, 5, 2, 5, Same},
		{"fragment", 3, 4, 2, 5, Fragment},
		{"container", 2, 5, 3, 4, Container},
		{"start-self-longer", 2, 6, 2, 4, Start},
		{"start-self-shorter", 2, 4, 2, 6, Start},
		{"end-self-longer", 2, 6, 4, 6, End},
		{"end-self-shorter", 4, 6, 2, 6, End},
		{"before", 0, 2, 5, 7, Before},
		{"after", 5, 7, 0, 2, After},
		{"next", 0, 2, 2, 4, Next},
		{"previous", 2, 4, 0, 2, Previous},
		{"ahead-empty-self", 2, 2, 2, 4, Ahead},
		{"behind-empty-self", 4, 4, 2, 4, Behind},
		{"overflow", 0, 3, 2, 5, Overflow},
		{"underflow", 2, 5, 0, 3, Underflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Intersect(tt.i, tt.j, tt.s, tt.e)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Intersect(%d,%d,%d,%d) = %s, want %s", tt.i, tt.j, tt.s, tt.e, got, tt.want)
			}
		})
	}
}

func TestDominanceOppositeInvolutive(t *testing.T) {
	for i := 0; i <= 6; i++ {
		for j := i; j <= 6; j++ {
			for s := 0; s <= 6; s++ {
				for e := s; e <= 6; e++ {
					ab, err := DominanceOf(i, j, s, e)
					if err != nil {
						t.Fatalf("DominanceOf(%d,%d,%d,%d): %v", i, j, s, e, err)
					}
					ba, err := DominanceOf(s, e, i, j)
					if err != nil {
						t.Fatalf("DominanceOf(%d,%d,%d,%d): %v", s, e, i, j, err)
					}
					if ab.Opposite() != ba {
						t.Fatalf("dominance(%d,%d,%d,%d)=%s opposite %s, but dominance(%d,%d,%d,%d)=%s",
							i, j, s, e, ab, ab.Opposite(), s, e, i, j, ba)
					}
				}
			}
		}
	}
}

func TestDominanceShareForbidsExactTieBreak(t *testing.T) {
	d, err := DominanceOf(0, 3, 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != Share {
		t.Fatalf("expected SHARE for overlapping non-nested ranges, got %s", d)
	}
	if d.Opposite() != Share {
		t.Fatalf("SHARE must be its own opposite")
	}
}
