// Package cascade builds the Line → Area → Equipment Type → Equipment
// hierarchy that drives the dependent dropdowns.
//
// An Index is built once from the full mapping table and never mutated
// afterwards, so a single *Index can be shared by every form without locking.
package cascade

import (
	"slices"
	"strings"

	"github.com/fault-logbook/backend/internal/models"
	"github.com/hashicorp/go-set/v2"
)

// Index is the immutable four-level lookup.
type Index struct {
	tree map[string]map[string]map[string][]string
}

// Build constructs an Index from mapping rows. All four values are trimmed.
// Rows whose trimmed Line is empty are ignored; empty Area, Equipment Type or
// Equipment values are kept as keys.
// Leaf equipment lists are deduplicated and sorted lexicographically
// (case-sensitive, byte order).
func Build(rows []models.MappingRow) *Index {
	leaves := make(map[string]map[string]map[string]*set.Set[string])

	for _, r := range rows {
		r = models.MappingRow{
			Line:          strings.TrimSpace(r.Line),
			Area:          strings.TrimSpace(r.Area),
			EquipmentType: strings.TrimSpace(r.EquipmentType),
			Equipment:     strings.TrimSpace(r.Equipment),
		}
		if r.Line == "" {
			continue
		}
		areas, ok := leaves[r.Line]
		if !ok {
			areas = make(map[string]map[string]*set.Set[string])
			leaves[r.Line] = areas
		}
		types, ok := areas[r.Area]
		if !ok {
			types = make(map[string]*set.Set[string])
			areas[r.Area] = types
		}
		equip, ok := types[r.EquipmentType]
		if !ok {
			equip = set.New[string](4)
			types[r.EquipmentType] = equip
		}
		equip.Insert(r.Equipment)
	}

	tree := make(map[string]map[string]map[string][]string, len(leaves))
	for line, areas := range leaves {
		tree[line] = make(map[string]map[string][]string, len(areas))
		for area, types := range areas {
			tree[line][area] = make(map[string][]string, len(types))
			for etype, equip := range types {
				sorted := equip.Slice()
				slices.Sort(sorted)
				tree[line][area][etype] = sorted
			}
		}
	}

	return &Index{tree: tree}
}

// Lines returns every line, sorted.
func (x *Index) Lines() []string {
	if x == nil {
		return []string{}
	}
	return sortedKeys(x.tree)
}

// Areas returns the sorted areas under line, or an empty slice if line is unknown.
func (x *Index) Areas(line string) []string {
	if x == nil {
		return []string{}
	}
	return sortedKeys(x.tree[line])
}

// EquipmentTypes returns the sorted equipment types under (line, area).
func (x *Index) EquipmentTypes(line, area string) []string {
	if x == nil {
		return []string{}
	}
	return sortedKeys(x.tree[line][area])
}

// Equipment returns the sorted equipment under (line, area, equipmentType).
// The result is a copy; callers may modify it.
func (x *Index) Equipment(line, area, equipmentType string) []string {
	if x == nil {
		return []string{}
	}
	leaf := x.tree[line][area][equipmentType]
	out := make([]string, len(leaf))
	copy(out, leaf)
	return out
}

// Len returns the number of lines in the index.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.tree)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
