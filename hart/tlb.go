package hart

// TLBEntry is one address-translation cache entry. Page is the cached
// translation's page number in whatever numbering the owning cache uses,
// ID is the ASID or VMID the entry belongs to, and Global marks entries
// present in every address space.
type TLBEntry struct {
	Page   uint64 `json:"page"`
	ID     uint64 `json:"id"`
	Global bool   `json:"global,omitempty"`
}

// TLB models one translation cache. The same model serves the supervisor
// cache, the VS-stage cache and the G-stage cache; only the key numbering
// differs. Entries are inserted by the surrounding test or tool; the fence
// and invalidation instructions remove them.
type TLB struct {
	Entries []TLBEntry `json:"entries"`
}

func (t *TLB) Insert(e TLBEntry) {
	t.Entries = append(t.Entries, e)
}

func (t *TLB) Len() int {
	return len(t.Entries)
}

// Contains reports whether any entry matches the page and identifier.
func (t *TLB) Contains(page, id uint64) bool {
	for _, e := range t.Entries {
		if e.Page == page && e.ID == id {
			return true
		}
	}
	return false
}

// invalidate removes the entries a fence or invalidation instruction with
// the given scope selects. The four scopes are nested: each wider scope
// removes a superset of a narrower one.
//
//   - page and id:  entries for that page in that address space, except
//     global mappings
//   - page only:    entries for that page in every address space,
//     including global mappings
//   - id only:      entries in that address space, except global mappings
//   - neither:      every entry
func (t *TLB) invalidate(page uint64, hasPage bool, id uint64, hasID bool) {
	kept := t.Entries[:0]
	for _, e := range t.Entries {
		if t.selected(e, page, hasPage, id, hasID) {
			continue
		}
		kept = append(kept, e)
	}
	// clear the tail so dropped entries don't linger in the backing array
	for i := len(kept); i < len(t.Entries); i++ {
		t.Entries[i] = TLBEntry{}
	}
	t.Entries = kept
}

func (t *TLB) selected(e TLBEntry, page uint64, hasPage bool, id uint64, hasID bool) bool {
	switch {
	case hasPage && hasID:
		return e.Page == page && e.ID == id && !e.Global
	case hasPage:
		return e.Page == page
	case hasID:
		return e.ID == id && !e.Global
	default:
		return true
	}
}
