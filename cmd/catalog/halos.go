package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/formation/formation"
)

// HaloFile is the YAML layout of a halo ensemble:
//
//	halos:
//	  - mass: 1e12
//	    weight: 2
//	  - mass: 3e12
type HaloFile struct {
	Halos []formation.Halo `yaml:"halos"`
}

// ParseHalos decodes a YAML halo file. Missing weights are zero, and
// formation.NewEnsemble weights a file without any uniformly.
func ParseHalos(data []byte) ([]formation.Halo, error) {
	file := HaloFile{}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("I couldn't parse the halo file: %w", err)
	}
	if len(file.Halos) == 0 {
		return nil, fmt.Errorf("The halo file doesn't list any halos.")
	}
	return file.Halos, nil
}

// HalosFromCols pairs a mass column with an optional weight column. A nil
// weight column leaves every weight at zero.
func HalosFromCols(masses, weights []float64) ([]formation.Halo, error) {
	if weights != nil && len(weights) != len(masses) {
		return nil, fmt.Errorf("The mass column has %d entries, but the "+
			"weight column has %d.", len(masses), len(weights))
	}
	halos := make([]formation.Halo, len(masses))
	for i, m := range masses {
		halos[i].Mass = m
		if weights != nil {
			halos[i].Weight = weights[i]
		}
	}
	return halos, nil
}

// ReadHalos reads an ensemble from fname. Files ending in .yaml or .yml are
// decoded with ParseHalos and everything else is read as a column file with
// masses in massCol and weights in weightCol. A negative weightCol means the
// file has no weights.
func ReadHalos(fname string, massCol, weightCol int) ([]formation.Halo, error) {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(fname)
		if err != nil {
			return nil, err
		}
		return ParseHalos(data)
	}

	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadHaloCols(f, massCol, weightCol)
}

// ReadHaloCols reads an ensemble from a column file.
func ReadHaloCols(r io.Reader, massCol, weightCol int) ([]formation.Halo, error) {
	idxs := []int{massCol}
	if weightCol >= 0 {
		idxs = append(idxs, weightCol)
	}
	cols, err := Read(r, idxs)
	if err != nil {
		return nil, err
	}

	var weights []float64
	if weightCol >= 0 {
		weights = cols[1]
	}
	return HalosFromCols(cols[0], weights)
}
