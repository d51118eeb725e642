package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/sheet"
)

// Column binds a demographic label to the sheet column holding its counts.
type Column struct {
	// Label is the canonical demographic label (e.g. "Male", "18-24").
	Label string `json:"label"`
	// CountField is the semantic name of the count value.
	CountField string `json:"count_field"`
	// PercentField is the semantic name of the percent value.
	PercentField string `json:"percent_field"`
	// Source is the sheet column name.
	Source string `json:"source"`
}

// ColumnMapping is an ordered list of demographic columns.
type ColumnMapping []Column

// Sources returns the mapped sheet columns, the numeric probe set.
func (m ColumnMapping) Sources() []string {
	out := make([]string, 0, len(m))
	for _, c := range m {
		if c.Source != "" {
			out = append(out, c.Source)
		}
	}
	return out
}

// knownDemographic describes one recognised demographic header label.
type knownDemographic struct {
	label string
	field string
	code  string
}

// knownDemographics lists the recognised labels in the historical column order.
var knownDemographics = []knownDemographic{
	{"Total", "total", ""},
	{"Male", "male", "QD2"},
	{"Female", "female", "QD2"},
	{"18-24", "age_18_24", "QD1"},
	{"25-34", "age_25_34", "QD1"},
	{"35-44", "age_35_44", "QD1"},
	{"45-54", "age_45_54", "QD1"},
	{"55-64", "age_55_64", "QD1"},
	{"65+", "age_65_plus", "QD1"},
	{"Scotland", "region_scotland", "QD3"},
	{"North East", "region_north_east", "QD3"},
	{"North West", "region_north_west", "QD3"},
	{"Yorkshire & Humberside", "region_yorkshire_humberside", "QD3"},
	{"West Midlands", "region_west_midlands", "QD3"},
	{"East Midlands", "region_east_midlands", "QD3"},
	{"Wales", "region_wales", "QD3"},
	{"Eastern", "region_eastern", "QD3"},
	{"London", "region_london", "QD3"},
	{"South East", "region_south_east", "QD3"},
	{"South West", "region_south_west", "QD3"},
	{"Northern Ireland", "region_northern_ireland", "QD3"},
	{"AB", "seg_ab", "QD4"},
	{"C1", "seg_c1", "QD4"},
	{"C2", "seg_c2", "QD4"},
	{"DE", "seg_de", "QD4"},
}

// labelAliases maps header spellings onto canonical labels.
var labelAliases = map[string]string{
	"men":   "male",
	"women": "female",
}

var knownByLower = func() map[string]knownDemographic {
	m := make(map[string]knownDemographic, len(knownDemographics))
	for _, k := range knownDemographics {
		m[strings.ToLower(k.label)] = k
	}
	return m
}()

func lookupDemographic(header string) (knownDemographic, bool) {
	key := strings.ToLower(strings.TrimSpace(header))
	if alias, ok := labelAliases[key]; ok {
		key = alias
	}
	k, ok := knownByLower[key]
	return k, ok
}

func newColumn(k knownDemographic, source string) Column {
	return Column{
		Label:        k.label,
		CountField:   k.field + "_count",
		PercentField: k.field + "_percent",
		Source:       source,
	}
}

// DetectColumnMapping finds the demographic header row within the first
// maxScanRows rows (the first row containing a "total" cell) and maps each
// recognised header label to its column. ok is false when no header row is
// found or it names no known demographic.
func DetectColumnMapping(s *sheet.Sheet, maxScanRows int) (ColumnMapping, bool) {
	headerRow := -1
	for i := 0; i < maxScanRows && i < s.Len(); i++ {
		for _, v := range s.Values(i) {
			if strings.ToLower(strings.TrimSpace(v)) == "total" {
				headerRow = i
				break
			}
		}
		if headerRow >= 0 {
			break
		}
	}
	if headerRow < 0 {
		return nil, false
	}

	var mapping ColumnMapping
	seen := make(map[string]bool)
	for _, col := range s.Columns() {
		v, ok := s.Text(headerRow, col)
		if !ok {
			continue
		}
		k, ok := lookupDemographic(v)
		if !ok || seen[k.label] {
			continue
		}
		seen[k.label] = true
		mapping = append(mapping, newColumn(k, col))
	}
	return mapping, len(mapping) > 0
}

// DefaultColumnMapping returns the static layout used when no header row is
// detected: Total in "Unnamed: 2" followed by the remaining labels in order.
func DefaultColumnMapping() ColumnMapping {
	mapping := make(ColumnMapping, 0, len(knownDemographics))
	for i, k := range knownDemographics {
		mapping = append(mapping, newColumn(k, fmt.Sprintf("Unnamed: %d", i+2)))
	}
	return mapping
}

// DemographicCode returns the demographic category code for a column label,
// or "" for labels with no category (e.g. Total or unrecognised headers).
func DemographicCode(label string) string {
	k, ok := lookupDemographic(label)
	if !ok {
		return ""
	}
	return k.code
}
