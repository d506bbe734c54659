package hart

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

const (
	PageAddrSize = 12
	PageKeySize  = 64 - PageAddrSize
	PageSize     = 1 << PageAddrSize
	PageAddrMask = PageSize - 1
)

// Page permission bits, in the leaf-PTE bit positions.
const (
	PermR = 1 << 1
	PermW = 1 << 2
	PermX = 1 << 3
)

type Page struct {
	Data [PageSize]byte
	Perm uint8
}

// Memory is the paged guest address space the hypervisor load/store
// instructions dereference. Pages carry permission bits; an access to an
// unmapped page or without the required permission is a guest-page fault,
// not a zero read.
type Memory struct {
	pages map[uint64]*Page

	// Note: pages are never de-allocated, so no ref-counting.

	// two-entry lookup cache: guest code tends to touch one page for
	// data and another for the structure around it
	lastPageKeys [2]uint64
	lastPage     [2]*Page
}

func NewMemory() *Memory {
	return &Memory{
		pages:        make(map[uint64]*Page),
		lastPageKeys: [2]uint64{^uint64(0), ^uint64(0)}, // invalid keys, to not match any page
	}
}

func (m *Memory) PageCount() int {
	return len(m.pages)
}

func (m *Memory) AllocPage(pageIndex uint64, perm uint8) *Page {
	p := &Page{Perm: perm}
	m.pages[pageIndex] = p
	return p
}

func (m *Memory) pageLookup(pageIndex uint64) (*Page, bool) {
	// hit caches
	if pageIndex == m.lastPageKeys[0] {
		return m.lastPage[0], true
	}
	if pageIndex == m.lastPageKeys[1] {
		return m.lastPage[1], true
	}
	p, ok := m.pages[pageIndex]

	// only cache existing pages
	if ok {
		m.lastPageKeys[1] = m.lastPageKeys[0]
		m.lastPage[1] = m.lastPage[0]
		m.lastPageKeys[0] = pageIndex
		m.lastPage[0] = p
	}

	return p, ok
}

// SetPerm replaces the permission bits of the page containing addr.
// The page is allocated if it does not exist yet.
func (m *Memory) SetPerm(addr uint64, perm uint8) {
	pageIndex := addr >> PageAddrSize
	p, ok := m.pageLookup(pageIndex)
	if !ok {
		m.AllocPage(pageIndex, perm)
		return
	}
	p.Perm = perm
}

// Perm returns the permission bits that hold over the full range
// [addr, addr+size), and false if any page in the range is unmapped.
func (m *Memory) Perm(addr uint64, size uint64) (uint8, bool) {
	perm := uint8(PermR | PermW | PermX)
	for page := addr >> PageAddrSize; page <= (addr+size-1)>>PageAddrSize; page++ {
		p, ok := m.pageLookup(page)
		if !ok {
			return 0, false
		}
		perm &= p.Perm
	}
	return perm, true
}

// SetUnaligned writes host-supplied bytes into guest memory, allocating
// full-permission pages on demand. This is the setup path: it performs no
// permission checks of its own.
func (m *Memory) SetUnaligned(addr uint64, dat []byte) {
	if len(dat) > 32 {
		panic("cannot set more than 32 bytes")
	}
	pageIndex := addr >> PageAddrSize
	pageAddr := addr & PageAddrMask
	p, ok := m.pageLookup(pageIndex)
	if !ok {
		p = m.AllocPage(pageIndex, PermR|PermW|PermX)
	}

	d := copy(p.Data[pageAddr:], dat)
	if d == len(dat) {
		return // if all the data fitted in the page, we're done
	}

	// continue to remaining part
	addr += uint64(d)
	pageIndex = addr >> PageAddrSize
	p, ok = m.pageLookup(pageIndex)
	if !ok {
		p = m.AllocPage(pageIndex, PermR|PermW|PermX)
	}
	copy(p.Data[:], dat[d:])
}

// GetUnaligned reads guest memory into dest, zero-filling unmapped ranges.
// Like SetUnaligned this is the host setup/inspection path.
func (m *Memory) GetUnaligned(addr uint64, dest []byte) {
	if len(dest) > 32 {
		panic("cannot get more than 32 bytes")
	}
	pageIndex := addr >> PageAddrSize
	pageAddr := addr & PageAddrMask
	p, ok := m.pageLookup(pageIndex)
	var d int
	if !ok {
		l := uint64(PageSize) - pageAddr
		if l > 32 {
			l = 32
		}
		var zeroes [32]byte
		d = copy(dest, zeroes[:l])
	} else {
		d = copy(dest, p.Data[pageAddr:])
	}

	if d == len(dest) {
		return // if all the data fitted in the page, we're done
	}

	// continue to remaining part
	addr += uint64(d)
	pageIndex = addr >> PageAddrSize
	p, ok = m.pageLookup(pageIndex)
	if !ok {
		var zeroes [32]byte
		copy(dest[d:], zeroes[:])
	} else {
		copy(dest[d:], p.Data[:])
	}
}

type pageEntry struct {
	Index uint64 `json:"index"`
	Perm  uint8  `json:"perm"`
	Data  []byte `json:"data"`
}

func (m *Memory) MarshalJSON() ([]byte, error) {
	pages := make([]pageEntry, 0, len(m.pages))
	for k, p := range m.pages {
		pages = append(pages, pageEntry{
			Index: k,
			Perm:  p.Perm,
			Data:  p.Data[:],
		})
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Index < pages[j].Index
	})
	return json.Marshal(pages)
}

func (m *Memory) UnmarshalJSON(data []byte) error {
	var pages []pageEntry
	if err := json.Unmarshal(data, &pages); err != nil {
		return err
	}
	m.pages = make(map[uint64]*Page)
	m.lastPageKeys = [2]uint64{^uint64(0), ^uint64(0)}
	m.lastPage = [2]*Page{nil, nil}
	for i, p := range pages {
		if _, ok := m.pages[p.Index]; ok {
			return fmt.Errorf("cannot load duplicate page, entry %d, page index %d", i, p.Index)
		}
		if len(p.Data) != PageSize {
			return fmt.Errorf("page %d has invalid size %d", p.Index, len(p.Data))
		}
		copy(m.AllocPage(p.Index, p.Perm).Data[:], p.Data)
	}
	return nil
}

// Serialize writes the memory in a simple binary format which can be read
// again using Deserialize. The format is a simple concatenation of fields,
// with a prefixed page count and big endian encoding for numbers.
//
// page count            uint64
// For each page (order is arbitrary):
//
//	page index          uint64
//	page perm           byte
//	page data           [PageSize]byte
func (m *Memory) Serialize(out io.Writer) error {
	if err := binary.Write(out, binary.BigEndian, uint64(m.PageCount())); err != nil {
		return err
	}
	for pageIndex, page := range m.pages {
		if err := binary.Write(out, binary.BigEndian, pageIndex); err != nil {
			return err
		}
		if _, err := out.Write([]byte{page.Perm}); err != nil {
			return err
		}
		if _, err := out.Write(page.Data[:]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) Deserialize(in io.Reader) error {
	var pageCount uint64
	if err := binary.Read(in, binary.BigEndian, &pageCount); err != nil {
		return err
	}
	for i := uint64(0); i < pageCount; i++ {
		var pageIndex uint64
		if err := binary.Read(in, binary.BigEndian, &pageIndex); err != nil {
			return err
		}
		var perm [1]byte
		if _, err := io.ReadFull(in, perm[:]); err != nil {
			return err
		}
		page := m.AllocPage(pageIndex, perm[0])
		if _, err := io.ReadFull(in, page.Data[:]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) Usage() string {
	total := uint64(len(m.pages)) * PageSize
	const unit = 1024
	if total < unit {
		return fmt.Sprintf("%d B", total)
	}
	div, exp := uint64(unit), 0
	for n := total / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	// KiB, MiB, GiB, TiB, ...
	return fmt.Sprintf("%.1f %ciB", float64(total)/float64(div), "KMGTPE"[exp])
}
