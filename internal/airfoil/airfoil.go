// Package airfoil loads 2D airfoil cross sections from Selig-format
// .dat coordinate files, the tabulated geometry handed to the external
// aerodynamic solvers.
package airfoil

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrTooFewPoints is returned for coordinate files that cannot describe
// a closed cross section.
var ErrTooFewPoints = errors.New("airfoil needs at least three coordinate points")

// Airfoil is a named set of cross-section coordinates, ordered as they
// appear in the file (conventionally trailing edge, over the upper
// surface to the leading edge and back along the lower surface).
type Airfoil struct {
	Name string
	X    []float64
	Y    []float64
}

// Points returns the number of coordinate points.
func (a *Airfoil) Points() int {
	return len(a.X)
}

// Load parses a Selig-format .dat file: an optional name line followed
// by one "x y" coordinate pair per line. Blank lines are skipped. When
// the file has no name line, the file name without extension is used.
func Load(path string) (*Airfoil, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening airfoil file: %w", err)
	}
	defer f.Close()

	a := Airfoil{Name: baseName(path)}

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		var x, y float64
		var errX, errY error
		if len(fields) >= 2 {
			x, errX = strconv.ParseFloat(fields[0], 64)
			y, errY = strconv.ParseFloat(fields[1], 64)
		}
		if len(fields) < 2 || errX != nil || errY != nil {
			// Header line carrying the airfoil name; only valid before
			// any coordinates have been read.
			if len(a.X) == 0 && line == 1 {
				a.Name = text
				continue
			}
			return nil, fmt.Errorf("%s:%d: expected coordinate pair, got %q", path, line, text)
		}

		a.X = append(a.X, x)
		a.Y = append(a.Y, y)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading airfoil file: %w", err)
	}

	if len(a.X) < 3 {
		return nil, fmt.Errorf("%s: %w", path, ErrTooFewPoints)
	}
	return &a, nil
}

// List returns the .dat files directly inside dir, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading airfoils folder: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".dat") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no .dat files found in %s", dir)
	}
	return files, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
