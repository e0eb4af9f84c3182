package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommentString(t *testing.T) {
	tests := []struct {
		names []string
		sizes []int
		out   string
	}{
		{[]string{"A"}, []int{1}, "# Column contents: A(0)"},
		{[]string{"A"}, []int{11}, "# Column contents: A(0-10)"},
		{[]string{"A", "B"}, []int{1, 1}, "# Column contents: A(0) B(1)"},
		{[]string{"B", "A"}, []int{2, 1}, "# Column contents: B(0-1) A(2)"},
		{[]string{"A", "B", "C"}, []int{1, 2, 1},
			"# Column contents: A(0) B(1-2) C(3)"},
	}

	for i, test := range tests {
		out := CommentString(test.names, test.sizes)
		if out != test.out {
			t.Errorf("%d) Expected '%s', got '%s'.", i, test.out, out)
		}
	}
}

func TestFormatCols(t *testing.T) {
	tests := []struct {
		ints   [][]int
		floats [][]float64
		order  []int
		out    []string
	}{
		{nil, nil, nil, []string{}},
		{[][]int{{1, 20}}, nil, []int{0}, []string{" 1", "20"}},
		{nil, [][]float64{{0.5, 1.25}}, []int{0}, []string{" 0.5", "1.25"}},
		{[][]int{{1, 2}}, [][]float64{{1e12, 3e13}}, []int{1, 0},
			[]string{"1e+12 1", "3e+13 2"}},
	}

	for i, test := range tests {
		out := FormatCols(test.ints, test.floats, test.order)
		if strings.Join(out, "\n") != strings.Join(test.out, "\n") {
			t.Errorf("%d) Expected %q, got %q.", i, test.out, out)
		}
	}
}

func TestParse(t *testing.T) {
	data := []byte(`# mass weight
1e12 2 # first
3e12   0.5

5e12 1
`)
	cols, err := Parse(data, []int{1, 0})
	if err != nil {
		t.Fatalf("Parse gave error: %s", err)
	}
	if len(cols) != 2 || len(cols[0]) != 3 {
		t.Fatalf("Parse gave columns %v.", cols)
	}
	if cols[0][1] != 0.5 || cols[1][2] != 5e12 {
		t.Errorf("Parse gave columns %v.", cols)
	}
}

func TestParseInvalid(t *testing.T) {
	texts := []string{
		"1 2\n3\n",
		"1 two\n",
		"1\n",
	}
	for i, text := range texts {
		if _, err := Parse([]byte(text), []int{0, 1}); err == nil {
			t.Errorf("%d) No error when parsing %q.", i, text)
		}
	}
}

func TestHalosFromCols(t *testing.T) {
	halos, err := HalosFromCols([]float64{1e12, 2e12}, nil)
	if err != nil || len(halos) != 2 || halos[1].Weight != 0 {
		t.Errorf("HalosFromCols gave %v, %v.", halos, err)
	}
	if _, err = HalosFromCols([]float64{1e12}, []float64{1, 2}); err == nil {
		t.Errorf("HalosFromCols accepted columns of unequal length.")
	}
}

func TestReadHalos(t *testing.T) {
	dir := t.TempDir()
	yamlName := filepath.Join(dir, "halos.yaml")
	colName := filepath.Join(dir, "halos.txt")

	yamlText := "halos:\n  - mass: 1e12\n    weight: 2\n  - mass: 3.5e13\n"
	if err := os.WriteFile(yamlName, []byte(yamlText), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(colName, []byte("7 1e12 2\n8 3.5e13 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, fname := range []string{yamlName, colName} {
		halos, err := ReadHalos(fname, 1, 2)
		if err != nil {
			t.Errorf("ReadHalos(%s) gave error: %s", fname, err)
			continue
		}
		if len(halos) != 2 || halos[0].Mass != 1e12 ||
			halos[0].Weight != 2 || halos[1].Mass != 3.5e13 ||
			halos[1].Weight != 0 {
			t.Errorf("ReadHalos(%s) gave %v.", fname, halos)
		}
	}

	if _, err := ParseHalos([]byte("halos: []\n")); err == nil {
		t.Errorf("ParseHalos accepted an empty halo list.")
	}
}
