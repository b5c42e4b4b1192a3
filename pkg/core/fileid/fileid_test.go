package fileid

import "testing"

func TestComputeDeterministic(t *testing.T) {
	a := Compute("Movies/tc/movie.mkv", 12345)
	b := Compute("Movies/tc/movie.mkv", 12345)
	if a != b {
		t.Fatalf("expected deterministic id, got %s != %s", a, b)
	}
}

func TestComputeDiffersOnPathOrSize(t *testing.T) {
	base := Compute("a/movie.mkv", 100)
	diffPath := Compute("b/movie.mkv", 100)
	diffSize := Compute("a/movie.mkv", 101)

	if base == diffPath {
		t.Fatalf("expected different id for different path")
	}
	if base == diffSize {
		t.Fatalf("expected different id for different size")
	}
}

func TestComputeShape(t *testing.T) {
	id := Compute("x.srt", 1)
	if !Valid(id) {
		t.Fatalf("expected %q to be a valid id", id)
	}
	if len(id) != len(Prefix)+16 {
		t.Fatalf("expected id length %d, got %d", len(Prefix)+16, len(id))
	}
}

func TestValidRejectsGarbage(t *testing.T) {
	cases := []string{"", "file_", "file_zz00000000000000", "nope_0000000000000000", "file_000000000000000"}
	for _, c := range cases {
		if Valid(c) {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}
