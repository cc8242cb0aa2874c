package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionList identifies one of the reference sheets feeding a suggestion input
type OptionList string

const (
	OptionProjects   OptionList = "projects"
	OptionCategories OptionList = "categories"
	OptionVendors    OptionList = "vendors"
	OptionLocations  OptionList = "locations"
	OptionWorkItems  OptionList = "workItems"
)

// OptionLists is every option list in form order
var OptionLists = []OptionList{
	OptionProjects,
	OptionCategories,
	OptionVendors,
	OptionLocations,
	OptionWorkItems,
}

type optionSource struct {
	sheet string
	keys  []string
}

// Reference sheets are keyed by "Name" in current spreadsheets; older sheets
// used the column header of the list instead.
var optionSources = map[OptionList]optionSource{
	OptionProjects:   {sheet: "Project Lists", keys: []string{"Name", "Project"}},
	OptionCategories: {sheet: "Categories", keys: []string{"Name", "Category"}},
	OptionVendors:    {sheet: "Vendors", keys: []string{"Name", "Vendor", "Vendor/Supplier"}},
	OptionLocations:  {sheet: "Locations", keys: []string{"Name", "Location"}},
	OptionWorkItems:  {sheet: "Work Items", keys: []string{"Name", "Work Item"}},
}

// ParseOptionList resolves a list identifier
func ParseOptionList(s string) (OptionList, error) {
	l := OptionList(s)
	if _, ok := optionSources[l]; !ok {
		return "", fmt.Errorf("unknown option list %q", s)
	}
	return l, nil
}

// Sheet returns the name of the reference sheet backing the list
func (l OptionList) Sheet() string {
	return optionSources[l].sheet
}

// Keys returns the row keys consulted for a display value, in precedence order
func (l OptionList) Keys() []string {
	return append([]string(nil), optionSources[l].keys...)
}

// Value extracts the display string for this list from a reference row.
// The first key holding a non-blank value wins.
func (l OptionList) Value(row Row) (string, bool) {
	for _, key := range optionSources[l].keys {
		raw, ok := row[key]
		if !ok || raw == nil {
			continue
		}

		var value string
		switch v := raw.(type) {
		case string:
			value = v
		case float64:
			value = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			value = strconv.FormatBool(v)
		default:
			value = fmt.Sprint(v)
		}

		value = strings.TrimSpace(value)
		if value != "" {
			return value, true
		}
	}
	return "", false
}

// Values maps reference rows to display strings, preserving order and
// skipping rows without a usable value
func (l OptionList) Values(rows []Row) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if v, ok := l.Value(row); ok {
			values = append(values, v)
		}
	}
	return values
}
