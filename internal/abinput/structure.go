package abinput

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Site is one atomic site in a structure.
type Site struct {
	Element string     `json:"element"`
	Coords  [3]float64 `json:"coords"`
}

// Structure is a periodic crystal structure: a lattice plus atomic sites.
type Structure struct {
	Lattice [3][3]float64 `json:"lattice"`
	Sites   []Site        `json:"sites"`
}

// LoadStructure reads a structure from a JSON file.
func LoadStructure(path string) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read structure: %w", err)
	}
	var s Structure
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse structure %s: %w", path, err)
	}
	if len(s.Sites) == 0 {
		return nil, fmt.Errorf("structure %s has no sites", path)
	}
	return &s, nil
}

// NumSites returns the number of atomic sites.
func (s *Structure) NumSites() int {
	return len(s.Sites)
}

// Elements returns the sorted set of element symbols present.
func (s *Structure) Elements() []string {
	seen := make(map[string]bool)
	var elements []string
	for _, site := range s.Sites {
		if !seen[site.Element] {
			seen[site.Element] = true
			elements = append(elements, site.Element)
		}
	}
	sort.Strings(elements)
	return elements
}

// ReducedFormula returns the chemical formula with site counts divided by
// their greatest common divisor, e.g. 4 O and 8 H sites reduce to "H2O".
// A count of one is omitted, so two Si sites reduce to "Si".
func (s *Structure) ReducedFormula() string {
	if len(s.Sites) == 0 {
		return ""
	}
	counts := make(map[string]int)
	for _, site := range s.Sites {
		counts[site.Element]++
	}

	divisor := 0
	for _, c := range counts {
		divisor = gcd(divisor, c)
	}

	var sb strings.Builder
	for _, el := range s.Elements() {
		sb.WriteString(el)
		if reduced := counts[el] / divisor; reduced > 1 {
			fmt.Fprintf(&sb, "%d", reduced)
		}
	}
	return sb.String()
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
