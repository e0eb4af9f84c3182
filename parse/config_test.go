package parse

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestIntConv(t *testing.T) {
	var x int64
	if ok := intConv(&x)("41891"); !ok || x != 41891 {
		t.Errorf("intConv gave (%v, %d) on valid input.", ok, x)
	}
	if ok := intConv(&x)("meow"); ok {
		t.Errorf("intConv successful on invalid input.")
	}
}

func TestFloatConv(t *testing.T) {
	var x float64
	if ok := floatConv(&x)("1e13"); !ok || x != 1e13 {
		t.Errorf("floatConv gave (%v, %g) on valid input.", ok, x)
	}
	if ok := floatConv(&x)("meow"); ok {
		t.Errorf("floatConv successful on invalid input.")
	}
}

func TestFloatsConv(t *testing.T) {
	x := []float64{7}
	if ok := floatsConv(&x)("1, 2.5 , 3"); !ok {
		t.Errorf("floatsConv unsuccessful on valid input.")
	}
	if len(x) != 3 || x[0] != 1 || x[1] != 2.5 || x[2] != 3 {
		t.Errorf("floatsConv wrote %v to pointer.", x)
	}
	if ok := floatsConv(&x)(""); !ok || len(x) != 0 {
		t.Errorf("floatsConv did not accept the empty list.")
	}
	if ok := floatsConv(&x)("1,meow,3"); ok {
		t.Errorf("floatsConv successful on invalid input.")
	}
}

func TestStringsConv(t *testing.T) {
	var x []string
	stringsConv(&x)("median, average , peak")
	if len(x) != 3 || x[0] != "median" || x[1] != "average" || x[2] != "peak" {
		t.Errorf("stringsConv wrote %v to pointer.", x)
	}
}

func TestRemoveComments(t *testing.T) {
	table := []struct {
		in, out  []string
		lineNums []int
	}{
		{[]string{}, []string{}, []int{}},
		{[]string{"meow"}, []string{"meow"}, []int{0}},
		{[]string{"#meow"}, []string{}, []int{}},
		{[]string{"meow", " # comment", "", "   mew "},
			[]string{"meow", "mew"}, []int{0, 3}},
	}

	for i := range table {
		res, lineNums := removeComments(table[i].in)
		if len(res) != len(table[i].out) || len(lineNums) != len(res) {
			t.Errorf("%d) removeComments(%v) gave %v, %v",
				i+1, table[i].in, res, lineNums)
			continue
		}
		for j := range res {
			if res[j] != table[i].out[j] || lineNums[j] != table[i].lineNums[j] {
				t.Errorf("%d) removeComments(%v) gave %v, %v",
					i+1, table[i].in, res, lineNums)
			}
		}
	}
}

func TestAssociationList(t *testing.T) {
	table := []struct {
		lines       []string
		names, vals []string
		errLine     int
	}{
		{[]string{"a=b"}, []string{"a"}, []string{"b"}, -1},
		{[]string{"a"}, nil, nil, 0},
		{[]string{"=b"}, nil, nil, 0},
		{[]string{"A=b", "c=", " a = "},
			[]string{"a", "c", "a"}, []string{"b", "", ""}, -1},
	}

	for i := range table {
		names, vals, errLine := associationList(table[i].lines)
		if errLine != table[i].errLine {
			t.Errorf("%d) Expected errLine = %d, got %d",
				i+1, table[i].errLine, errLine)
		}
		if errLine != -1 {
			continue
		}
		for j := range names {
			if names[j] != table[i].names[j] || vals[j] != table[i].vals[j] {
				t.Errorf("%d) Expected %v = %v, got %v = %v", i+1,
					table[i].names, table[i].vals, names, vals)
			}
		}
	}
}

type testConfig struct {
	mass  float64
	zs    []float64
	acc   int64
	diff  bool
	model string
	stats []string
}

func makeTestConfig() (*testConfig, *ConfigVars) {
	config := &testConfig{}
	vars := NewConfigVars("test.config")
	vars.Float(&config.mass, "Mass", 1e12)
	vars.Floats(&config.zs, "Redshifts", []float64{})
	vars.Int(&config.acc, "Acc", 1000)
	vars.Bool(&config.diff, "Diff", false)
	vars.String(&config.model, "Model", "EC")
	vars.Strings(&config.stats, "Statistics", []string{})
	return config, vars
}

const validConfig = `# leading comment
[test.config]
mass = 1e13 # trailing comment
Redshifts = 0.5, 1, 2
ACC = 200
diff = true
Statistics = median, peak
`

func TestParseValidConfig(t *testing.T) {
	config, vars := makeTestConfig()
	if err := ParseConfig(validConfig, "valid", vars); err != nil {
		t.Fatalf("Expected successful parse, but got error:\n%s", err)
	}

	if config.mass != 1e13 {
		t.Errorf("Expected mass = 1e13, got %g", config.mass)
	}
	if len(config.zs) != 3 || math.Abs(config.zs[2]-2) > 1e-12 {
		t.Errorf("Expected Redshifts = [0.5 1 2], got %v", config.zs)
	}
	if config.acc != 200 || !config.diff {
		t.Errorf("Expected acc = 200, diff = true, got %d, %v",
			config.acc, config.diff)
	}
	if config.model != "EC" {
		t.Errorf("Expected the default model to survive, got %s", config.model)
	}
	if len(config.stats) != 2 || config.stats[1] != "peak" {
		t.Errorf("Expected Statistics = [median peak], got %v", config.stats)
	}
	if !vars.IsSet("acc") || vars.IsSet("model") {
		t.Errorf("IsSet does not track assigned variables.")
	}
}

func TestParseInvalidConfig(t *testing.T) {
	texts := []string{
		"",
		"[other.config]\nmass = 1",
		"[test.config]\nmass",
		"[test.config]\n = 3",
		"[test.config]\nmass = 1\nMASS = 2",
		"[test.config]\nvolume = 1",
		"[test.config]\nacc = 1.5",
		"[test.config]\nredshifts = 1, two",
	}

	for i := range texts {
		_, vars := makeTestConfig()
		err := ParseConfig(texts[i], "invalid", vars)
		if err == nil {
			t.Errorf("%d) No error was reported when parsing %q", i, texts[i])
		} else if testing.Verbose() {
			t.Logf("%d) %s", i, err)
		}
	}
}

func TestReadConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "test.config")
	if err := os.WriteFile(fname, []byte(validConfig), 0644); err != nil {
		t.Fatal(err)
	}

	config, vars := makeTestConfig()
	if err := ReadConfig(fname, vars); err != nil {
		t.Fatalf("ReadConfig gave error: %s", err)
	}
	if config.acc != 200 {
		t.Errorf("ReadConfig did not parse the file contents.")
	}

	if err := ReadConfig(fname+".missing", vars); err == nil {
		t.Errorf("ReadConfig of a missing file gave no error.")
	}
}
