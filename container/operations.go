package container

import (
	"sync"

	"github.com/sagahold/essedit/changeform"
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/filelocation"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/globaldata"
	"github.com/sagahold/essedit/refid"
)

// Stats is a read-only rollup of a container's contents, cheap enough to
// compute on every Open for display in tooling built on top of this
// package.
type Stats struct {
	Broken             bool
	ChangeFormsByType  map[format.ChangeFormType]int
	GlobalDataByGroup  map[globaldata.Group]int
	PluginCount        int
	LitePluginCount    int
	FormIDArrayLen     int
	VisitedWorldspaces int
}

// Stats computes a Stats snapshot of c. It never mutates the container and
// never fails: a broken container simply reports Broken=true alongside
// whatever it did manage to parse.
func (c *Container) Stats() Stats {
	s := Stats{
		Broken:             c.Broken,
		ChangeFormsByType:  make(map[format.ChangeFormType]int),
		GlobalDataByGroup:  make(map[globaldata.Group]int),
		PluginCount:        len(c.Plugins.Full),
		LitePluginCount:    len(c.Plugins.Lite),
		FormIDArrayLen:     len(c.FormIDArray),
		VisitedWorldspaces: len(c.VisitedWorldspaces),
	}

	for _, cf := range c.ChangeForms {
		s.ChangeFormsByType[cf.Type]++
	}
	for _, b := range c.Table1 {
		s.GlobalDataByGroup[globaldata.GroupOf(b.Type)]++
	}
	for _, b := range c.Table2 {
		s.GlobalDataByGroup[globaldata.GroupOf(b.Type)]++
	}
	for _, b := range c.Table3 {
		s.GlobalDataByGroup[globaldata.GroupOf(b.Type)]++
	}

	return s
}

// CalculateSize reports the byte length of the header plus the body
// before compression, i.e. the prelude, the file-location table, every
// section it tracks and the trailing bytes; for an uncompressed save this
// is the length a Write call would currently produce. Per the
// one concurrency exception this package permits, the per-section lengths
// are computed in parallel: each section is independent of the others, so
// a plain sync.WaitGroup fan-out (no error-group machinery needed, since
// none of these encoders can fail on already-valid in-memory data) is
// sufficient.
func (c *Container) CalculateSize() int {
	var (
		wg                                            sync.WaitGroup
		table1, table2, changeForms, table3           int
		formIDArray, visitedWorldspaces, preludeBytes int
	)

	wg.Add(6)
	go func() { defer wg.Done(); table1 = globalDataBytes(c.Table1) }()
	go func() { defer wg.Done(); table2 = globalDataBytes(c.Table2) }()
	go func() { defer wg.Done(); changeForms = changeFormBytes(c.ChangeForms) }()
	go func() { defer wg.Done(); table3 = globalDataBytes(c.Table3) }()
	go func() { defer wg.Done(); formIDArray = 4 + 4*len(c.FormIDArray) }()
	go func() { defer wg.Done(); visitedWorldspaces = 4 + 4*len(c.VisitedWorldspaces) }()
	wg.Wait()

	preludeBytes = preludeLen(c)

	hw := cursor.NewWriter()
	_ = c.Header.Write(hw, c.Game)

	return len(hw.Written()) + preludeBytes + filelocation.Size +
		table1 + table2 + changeForms + table3 +
		formIDArray + visitedWorldspaces + len(c.Trailing)
}

// preludeLen is the byte length of the form-version/version-string/
// plugin-table prelude, computed without actually encoding it.
func preludeLen(c *Container) int {
	n := 1 // FormVersion
	if c.Game == format.GameFallout4 || c.Game == format.GameFallout4VR {
		n += 2 + len(c.VersionString)
	}

	n += 4 + 1 // declared size + full count
	for _, p := range c.Plugins.Full {
		n += 2 + len(p.RawName)
	}
	if c.Game.SupportsLite(c.FormVersion) {
		n += 2
		for _, p := range c.Plugins.Lite {
			n += 2 + len(p.RawName)
		}
	}

	return n
}

func globalDataBytes(blocks []*globaldata.Block) int {
	total := 0
	for _, b := range blocks {
		w := cursor.NewWriter()
		b.Data.Write(w)
		total += 8 + len(w.Written()) // type + size + body
	}

	return total
}

func changeFormBytes(forms []*changeform.ChangeForm) int {
	total := 0
	for _, cf := range forms {
		lengthWidth := 2
		switch cf.LengthClass {
		case changeform.LengthClassU8:
			lengthWidth = 1
		case changeform.LengthClassU32:
			lengthWidth = 4
		}
		total += 3 + 4 + 1 + 1 + 2*lengthWidth + len(cf.Raw)
	}

	return total
}

// ResetHavok overwrites the stored Havok byte array of every REFR/ACHR
// change-form that carries one with zeros of the same length (the
// change-flag stays set) and re-encodes it, returning how many were reset
// and how many could not be parsed, still carry unparsed trailing bytes,
// or could not be re-encoded. analysis is accepted but unused
// in the core: it matches the documented signature shape for a future
// analysis-aware caller and costs nothing when nil.
func (c *Container) ResetHavok(analysis Analysis) (successes, failures int) {
	opts := changeform.Options{Registry: c.Registry, Game: c.Game, Tolerant: c.bestEffort}

	for _, cf := range c.ChangeForms {
		if cf.Type != format.CFReference && cf.Type != format.CFActorReference {
			continue
		}

		body, err := cf.Parse(opts)
		if err != nil {
			failures++
			continue
		}

		placed, ok := body.(*changeform.PlacedData)
		if !ok || !placed.HasHavok {
			continue
		}

		if len(placed.Unparsed) > 0 {
			failures++
			continue
		}

		placed.Havok = make([]byte, len(placed.Havok))
		if !cf.UpdateRaw(placed, nil) {
			failures++
			continue
		}

		successes++
	}

	return successes, failures
}

// CleanseFormLists removes null RefID entries from every FLST change-form,
// per spec.md §8 scenario 2/§4.12. analysis is accepted but unused in the
// core, matching ResetHavok's signature shape.
func (c *Container) CleanseFormLists(analysis Analysis) (entriesRemoved, formsTouched int) {
	opts := changeform.Options{Registry: c.Registry, Game: c.Game, Tolerant: c.bestEffort}

	for _, cf := range c.ChangeForms {
		if cf.Type != format.CFFormList {
			continue
		}

		body, err := cf.Parse(opts)
		if err != nil {
			continue
		}

		list, ok := body.(*changeform.FormListData)
		if !ok || !list.ContainsNullRefs() {
			continue
		}

		removed := list.Cleanse()
		if removed == 0 {
			continue
		}

		if cf.UpdateRaw(list, nil) {
			entriesRemoved += removed
			formsTouched++
		}
	}

	return entriesRemoved, formsTouched
}

// RemoveElements removes entries matching refs from the entry list of every
// FLST, LVLN and LVLI change-form and returns how many entries were
// removed. Matching is by RefID identity: refs must come from this
// container's Registry. It does not remove change-forms themselves from
// the container, and it does not touch scripting-VM elements.
func (c *Container) RemoveElements(refs []*refid.RefID) int {
	toRemove := make(map[*refid.RefID]bool, len(refs))
	for _, r := range refs {
		toRemove[r] = true
	}

	opts := changeform.Options{Registry: c.Registry, Game: c.Game, Tolerant: c.bestEffort}
	removed := 0

	for _, cf := range c.ChangeForms {
		switch cf.Type {
		case format.CFFormList:
			body, err := cf.Parse(opts)
			if err != nil {
				continue
			}
			list, ok := body.(*changeform.FormListData)
			if !ok {
				continue
			}
			n := removeMatching(&list.Entries, toRemove)
			if n > 0 && cf.UpdateRaw(list, nil) {
				removed += n
			}
		case format.CFLeveledNPC, format.CFLeveledItem:
			body, err := cf.Parse(opts)
			if err != nil {
				continue
			}
			list, ok := body.(*changeform.LeveledListData)
			if !ok {
				continue
			}
			n := 0
			kept := list.Entries[:0]
			for _, e := range list.Entries {
				if toRemove[e.Ref] {
					n++
					continue
				}
				kept = append(kept, e)
			}
			list.Entries = kept
			if n > 0 && cf.UpdateRaw(list, nil) {
				removed += n
			}
		}
	}

	return removed
}

func removeMatching(entries *[]*refid.RefID, toRemove map[*refid.RefID]bool) int {
	n := 0
	kept := (*entries)[:0]
	for _, e := range *entries {
		if toRemove[e] {
			n++
			continue
		}
		kept = append(kept, e)
	}
	*entries = kept

	return n
}
