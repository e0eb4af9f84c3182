package version

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		s     string
		v     Version
		valid bool
	}{
		{"0.0.0", Version{0, 0, 0}, true},
		{"1.02.3", Version{1, 2, 3}, true},
		{" 4.5.6 ", Version{4, 5, 6}, true},
		{"", Version{}, false},
		{"0", Version{}, false},
		{"0.0", Version{}, false},
		{"0.0.0.0", Version{}, false},
		{"0.-1.0", Version{}, false},
		{"a.b.c", Version{}, false},
	}

	for i := range tests {
		v, err := Parse(tests[i].s)
		if err != nil {
			if tests[i].valid {
				t.Errorf("Parse('%s') gave an error: %s.", tests[i].s, err)
			}
		} else if !tests[i].valid {
			t.Errorf("Expected Parse('%s') to give an error, but it "+
				"didn't.", tests[i].s)
		} else if v != tests[i].v {
			t.Errorf("Parse('%s') parsed to %s.", tests[i].s, v)
		}
	}
}

func TestCheckSource(t *testing.T) {
	if err := CheckSource(SourceVersion); err != nil {
		t.Errorf("CheckSource(SourceVersion) gave error: %s", err)
	}
	src, _ := Parse(SourceVersion)
	patched := Version{src.Major, src.Minor, src.Patch + 3}
	if err := CheckSource(patched.String()); err != nil {
		t.Errorf("CheckSource(%s) gave error: %s", patched, err)
	}
	bumped := Version{src.Major + 1, 0, 0}
	if err := CheckSource(bumped.String()); err == nil {
		t.Errorf("CheckSource(%s) did not give an error.", bumped)
	}
	if err := CheckSource("meow"); err == nil {
		t.Errorf("CheckSource('meow') did not give an error.")
	}
}
