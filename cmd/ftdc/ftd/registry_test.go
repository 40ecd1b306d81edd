package ftd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContainerPath(t *testing.T) {
	p := ContainerPath{0, 2}
	a := p.Child(1)
	b := p.Child(5)
	if a.String() != "0,2,1" || b.String() != "0,2,5" {
		t.Fatalf("children alias each other: %s %s", a, b)
	}
	if !a.HasPrefix(p) || p.HasPrefix(a) {
		t.Fatal("prefix relation wrong")
	}

	for _, s := range []string{"", "0", "3,1,4"} {
		got, err := ParseContainerPath(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got.String() != s {
			t.Fatalf("round trip of %q gave %q", s, got)
		}
	}
	if _, err := ParseContainerPath("1,x"); err == nil {
		t.Fatal("expected error for non-numeric segment")
	}
}

func TestContainerKey(t *testing.T) {
	cases := []struct {
		in   string
		want ContainerKey
	}{
		{"X", BareKey("X")},
		{"#X", QualifiedKey("", "X")},
		{"card#X", QualifiedKey("card", "X")},
		{"outer#inner#X", QualifiedKey("outer", "inner#X")},
	}
	for _, tc := range cases {
		got := ParseContainerKey(tc.in)
		if got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Fatalf("%s: String gave %q", tc.in, got.String())
		}
	}
	if BareKey("a#b") == QualifiedKey("a", "b") {
		t.Fatal("bare and qualified keys must differ")
	}
}

func TestRegistry_MergeAndFirst(t *testing.T) {
	child := NewRegistry()
	child.Add(BareKey("X"), ContainerPath{0})
	child.Add(BareKey("X"), ContainerPath{2, 1})

	t.Run("qualified under owner", func(t *testing.T) {
		r := NewRegistry()
		r.Merge(ContainerPath{4}, child, "card", true)
		got, ok := r.Lookup(ParseContainerKey("card#X"))
		if !ok {
			t.Fatalf("missing card#X in %v", r.Keys())
		}
		if diff := cmp.Diff([]ContainerPath{{4, 0}, {4, 2, 1}}, got); diff != "" {
			t.Fatalf("paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("qualified without owner", func(t *testing.T) {
		r := NewRegistry()
		r.Merge(ContainerPath{1}, child, "", true)
		if !r.Has(ParseContainerKey("#X")) || r.Has(BareKey("X")) {
			t.Fatalf("unexpected keys %v", r.Keys())
		}
	})

	t.Run("bare keeps keys", func(t *testing.T) {
		r := NewRegistry()
		r.Add(BareKey("X"), ContainerPath{9})
		r.Merge(ContainerPath{1}, child, "card", false)
		first, _ := r.First(BareKey("X"))
		if !first.Equal(ContainerPath{9}) {
			t.Fatalf("earlier instance must stay first, got %v", first)
		}
		all, _ := r.Lookup(BareKey("X"))
		if len(all) != 3 {
			t.Fatalf("expected 3 instances, got %d", len(all))
		}
	})

	t.Run("merged paths are copies", func(t *testing.T) {
		at := ContainerPath{1}
		r := NewRegistry()
		r.Merge(at, child, "", false)
		at[0] = 7
		first, _ := r.First(BareKey("X"))
		if first[0] != 1 {
			t.Fatalf("registry shares memory with caller: %v", first)
		}
	})
}
