package lcs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type lcsTest struct {
	a, b string
	want string
}

var lcsTests = []lcsTest{
	{"", "", ""},
	{"abc", "", ""},
	{"", "abc", ""},
	{"abc", "abc", "abc"},
	{"hello", "hallo", "hllo"},
	{"abcdef", "acf", "acf"},
	{"xmjyauz", "mzjawxu", "mjau"},
	{"abab", "baba", "bab"},
	{"кошка", "мошка", "ошка"},
}

func TestStringLCS(t *testing.T) {
	for _, tc := range lcsTests {
		if got := StringLCS(tc.a, tc.b); got != tc.want {
			t.Errorf("StringLCS(%q, %q) = %q, want %q", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestIndicesLCS(t *testing.T) {
	a := []int{1, 2, 3, 3, 7, 8}
	b := []int{2, 3, 3, 4, 7, 9}
	pairs := IndicesLCS(len(a), len(b), func(i, j int) bool { return a[i] == b[j] })
	want := [][2]int{{1, 0}, {2, 1}, {3, 2}, {4, 4}}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Fatalf("IndicesLCS mismatch (-want +got):\n%s", diff)
	}
}

// The walk prefers the diagonal on ties, so repeated runs of equal
// elements align deterministically and as early as possible.
func TestIndicesLCSDiagonalTieBreak(t *testing.T) {
	a := []byte("aa")
	b := []byte("aa")
	pairs := IndicesLCS(len(a), len(b), func(i, j int) bool { return a[i] == b[j] })
	want := [][2]int{{0, 0}, {1, 1}}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Fatalf("IndicesLCS mismatch (-want +got):\n%s", diff)
	}
}

func TestIndicesLCSMonotone(t *testing.T) {
	a := []byte("abcabba")
	b := []byte("cbabac")
	pairs := IndicesLCS(len(a), len(b), func(i, j int) bool { return a[i] == b[j] })
	pi, pj := -1, -1
	for _, p := range pairs {
		if p[0] <= pi || p[1] <= pj {
			t.Fatalf("pairs not strictly increasing: %v", pairs)
		}
		pi, pj = p[0], p[1]
		if a[p[0]] != b[p[1]] {
			t.Fatalf("pair %v does not match", p)
		}
	}
	if len(pairs) != 4 {
		t.Fatalf("LCS length = %d, want 4", len(pairs))
	}
}
