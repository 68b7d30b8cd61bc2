package custom

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	lua "github.com/yuin/gopher-lua"
)

// Item is one search result of a scripted catalog.
type Item struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	ID      string   `json:"id"`
	Summary string   `json:"summary,omitempty"`
	Cover   string   `json:"cover,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	switch val.Type() {
	case lua.LTString, lua.LTNumber:
		return val.String()
	default:
		return ""
	}
}

// getStringList accepts either a comma separated string or an array of strings.
func getStringList(table *lua.LTable, key string) []string {
	val := table.RawGetString(key)
	switch val.Type() {
	case lua.LTString:
		parts := lo.Map(strings.Split(val.String(), ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		})
		return lo.Compact(parts)
	case lua.LTTable:
		var list []string
		val.(*lua.LTable).ForEach(func(_, v lua.LValue) {
			if v.Type() == lua.LTString {
				list = append(list, v.String())
			}
		})
		return list
	default:
		return nil
	}
}

func itemFromTable(table *lua.LTable) (Item, error) {
	item := Item{
		Title:   getString(table, "title"),
		URL:     getString(table, "url"),
		ID:      getString(table, "id"),
		Summary: getString(table, "summary"),
		Cover:   getString(table, "cover"),
		Tags:    getStringList(table, "tags"),
	}

	if item.Title == "" || item.URL == "" {
		return Item{}, fmt.Errorf("item must have title and url")
	}
	if item.ID == "" {
		item.ID = item.URL
	}
	return item, nil
}

// itemsFromTable reads the array part of table in order. Bad entries are
// skipped; their errors only matter when nothing valid is left.
func itemsFromTable(table *lua.LTable) ([]Item, error) {
	var (
		items []Item
		errs  []error
	)

	for i := 1; i <= table.Len(); i++ {
		entry, ok := table.RawGetInt(i).(*lua.LTable)
		if !ok {
			errs = append(errs, fmt.Errorf("entry %d is not a table", i))
			continue
		}

		item, err := itemFromTable(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}
	return items, nil
}
