package entity

// MenuTable maps restaurant names to menu items, remembering first-seen order.
type MenuTable struct {
	order []string
	items map[string][]string
}

// NewMenuTable returns an empty table.
func NewMenuTable() *MenuTable {
	return &MenuTable{items: make(map[string][]string)}
}

// Set stores items for name. A repeated name replaces its items but keeps its position.
func (t *MenuTable) Set(name string, items []string) {
	if t.items == nil {
		t.items = make(map[string][]string)
	}
	if _, exists := t.items[name]; !exists {
		t.order = append(t.order, name)
	}
	if len(items) > MaxMenuItems {
		items = items[:MaxMenuItems]
	}
	t.items[name] = items
}

// Items returns the menu stored for name.
func (t *MenuTable) Items(name string) Opt[[]string] {
	if t == nil {
		return None[[]string]()
	}
	items, ok := t.items[name]
	if !ok {
		return None[[]string]()
	}
	return Some(items)
}

// Names returns restaurant names in insertion order.
func (t *MenuTable) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Len is the number of restaurants in the table.
func (t *MenuTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// HasAny reports whether at least one restaurant has menu items.
func (t *MenuTable) HasAny() bool {
	if t == nil {
		return false
	}
	for _, items := range t.items {
		if len(items) > 0 {
			return true
		}
	}
	return false
}
