package topics

import (
	"slices"
	"strings"
	"testing"
)

func TestCatalogOrder(t *testing.T) {
	want := []string{
		"Arithmetic Expressions",
		"Debugging & Errors",
		"Code Tracing",
		"Algorithms & Pseudocode",
		"C Code Writing",
		"Arrays",
		"Pointers",
	}
	if got := Names(); !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestFilter(t *testing.T) {
	got := Filter([]string{"Pointers", "Quantum", "Arrays", "Pointers"})
	want := []string{"Arrays", "Pointers"}
	if !slices.Equal(got, want) {
		t.Fatalf("Filter() = %v, want %v", got, want)
	}
	if Filter(nil) != nil {
		t.Fatal("Filter(nil) should be nil")
	}
}

func TestIsKnown(t *testing.T) {
	if !IsKnown(CodeTracing) {
		t.Fatal("expected Code Tracing to be known")
	}
	if IsKnown("code tracing") {
		t.Fatal("labels are case sensitive")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "mutated"
	if Names()[0] != ArithmeticExpressions {
		t.Fatal("All() must not expose the catalog")
	}
}

func TestMaterialCoversEveryTopic(t *testing.T) {
	m := Material()
	for i, name := range Names() {
		header := "TOPIC " + string(rune('1'+i)) + ": " + strings.ToUpper(name)
		if !strings.Contains(m, header) {
			t.Errorf("material missing header %q", header)
		}
	}
	if !strings.Contains(m, "24/5 is 4") {
		t.Error("material should spell out integer division")
	}
}
