// Package attrs indexes the dataset entries of a results file's global attributes.
package attrs

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/qa4sm/qa4sm-reader/schema"
)

// AttributeIndex maps attribute ids to dataset short names and converts between
// attribute ids and the ids embedded in variable and file names.
//
// Name ids count from 1 only when the reference is not the first attribute
// entry; in that case offset is -1 and attrID = nameID - 1.
type AttributeIndex struct {
	attrs     map[string]string
	shortName map[int]string
	byName    map[string][]int
	ids       []int
	refID     int
	offset    int
}

// NewAttributeIndex scans attrs for dataset entries and locates the reference
// through the val_ref indirection.
func NewAttributeIndex(attrs map[string]string) (*AttributeIndex, error) {
	idx := &AttributeIndex{
		attrs:     maps.Clone(attrs),
		shortName: make(map[int]string),
		byName:    make(map[string][]int),
	}

	for key, value := range attrs {
		id, ok := parseShortNameKey(key)
		if !ok {
			continue
		}
		idx.shortName[id] = value
		idx.byName[value] = append(idx.byName[value], id)
	}
	if len(idx.shortName) == 0 {
		return nil, fmt.Errorf("%w: no %s* entries found", schema.ErrMissingAttribute, schema.DatasetShortNamePrefix)
	}

	idx.ids = slices.Sorted(maps.Keys(idx.shortName))
	for _, ids := range idx.byName {
		slices.Sort(ids)
	}

	refKey, ok := attrs[schema.RefDatasetAttr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", schema.ErrMissingAttribute, schema.RefDatasetAttr)
	}
	refID, ok := parseShortNameKey(refKey)
	if !ok {
		return nil, fmt.Errorf("%s value %q is not a dataset attribute key", schema.RefDatasetAttr, refKey)
	}
	if _, ok := idx.shortName[refID]; !ok {
		return nil, fmt.Errorf("%w: %s points to %q which is not present", schema.ErrMissingAttribute, schema.RefDatasetAttr, refKey)
	}
	idx.refID = refID
	if refID != 0 {
		idx.offset = -1
	}

	return idx, nil
}

// parseShortNameKey returns n for keys of the form "val_dc_dataset{n}".
func parseShortNameKey(key string) (int, bool) {
	suffix, ok := strings.CutPrefix(key, schema.DatasetShortNamePrefix)
	if !ok || suffix == "" {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Offset returns the difference between attribute ids and name ids.
func (idx *AttributeIndex) Offset() int { return idx.offset }

// RefAttrID returns the attribute id of the reference dataset.
func (idx *AttributeIndex) RefAttrID() int { return idx.refID }

// RefNameID returns the id the reference dataset carries in variable names.
func (idx *AttributeIndex) RefNameID() int { return idx.NameIDFor(idx.refID) }

// AttrIDs returns all attribute ids in ascending order.
func (idx *AttributeIndex) AttrIDs() []int { return slices.Clone(idx.ids) }

// OtherAttrIDs returns the non-reference attribute ids in ascending order.
func (idx *AttributeIndex) OtherAttrIDs() []int {
	out := make([]int, 0, len(idx.ids))
	for _, id := range idx.ids {
		if id != idx.refID {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of datasets in the file.
func (idx *AttributeIndex) Len() int { return len(idx.ids) }

// AttrIDFor converts a name-embedded id to an attribute id.
func (idx *AttributeIndex) AttrIDFor(nameID int) int { return nameID + idx.offset }

// NameIDFor converts an attribute id to the id used in variable names.
func (idx *AttributeIndex) NameIDFor(attrID int) int { return attrID - idx.offset }

// ShortName returns the short name stored for attrID.
func (idx *AttributeIndex) ShortName(attrID int) (string, bool) {
	name, ok := idx.shortName[attrID]
	return name, ok
}

// AttrIDsFor returns every attribute id carrying shortName. The same dataset
// can appear more than once, e.g. at two versions.
func (idx *AttributeIndex) AttrIDsFor(shortName string) []int {
	return slices.Clone(idx.byName[shortName])
}

// Get returns a raw attribute value.
func (idx *AttributeIndex) Get(key string) (string, bool) {
	v, ok := idx.attrs[key]
	return v, ok
}

// Lookup formats one of the per-dataset key templates for attrID and returns its value.
func (idx *AttributeIndex) Lookup(template string, attrID int) (string, bool) {
	return idx.Get(fmt.Sprintf(template, attrID))
}

// Check maps a name-embedded dataset ref to its attribute id and verifies the
// short name in the name agrees with the attributes.
func (idx *AttributeIndex) Check(ref schema.DatasetRef) (int, error) {
	attrID := idx.AttrIDFor(ref.NameID)
	name, ok := idx.shortName[attrID]
	if !ok {
		return 0, fmt.Errorf("%w: dataset %s maps to attribute id %d (offset %d) which is not present",
			schema.ErrMissingAttribute, ref, attrID, idx.offset)
	}
	if name != ref.ShortName {
		return 0, &schema.InconsistentAttributeError{
			Key:     ref.String(),
			Field:   schema.FieldShortName,
			AttrIDs: []int{attrID},
			Values:  []string{ref.ShortName, name},
		}
	}
	return attrID, nil
}

// Attributes returns a copy of the raw attributes.
func (idx *AttributeIndex) Attributes() map[string]string { return maps.Clone(idx.attrs) }
