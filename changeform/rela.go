package changeform

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/flags"
	"github.com/sagahold/essedit/refid"
)

// Bit positions of the RELA change-flags word, per spec.md §4.9 (flag 0
// for the header, flag 1 for the rank field — these two are the ones the
// spec numbers explicitly).
const (
	relaBitHeader flags.Bit = 0
	relaBitRank   flags.Bit = 1
)

// RelationshipData is a RELA change-form body.
type RelationshipData struct {
	HasHeader bool
	Header    ChangeFormFlags

	// IsCreated reports whether the owning RefID originates as CREATED;
	// when true, the three association RefIDs below are present.
	IsCreated   bool
	Person1     *refid.RefID
	Person2     *refid.RefID
	Association *refid.RefID

	HasRank bool
	Rank    uint32
}

func (d *RelationshipData) changeFormData() {}

func (d *RelationshipData) Write(c *cursor.Cursor) {
	if d.HasHeader {
		d.Header.write(c)
	}
	if d.IsCreated {
		c.WriteRefIDRaw(d.Person1.Raw())
		c.WriteRefIDRaw(d.Person2.Raw())
		c.WriteRefIDRaw(d.Association.Raw())
	}
	if d.HasRank {
		c.WriteU32(d.Rank)
	}
}

func decodeRelationship(sub *cursor.Cursor, cf *ChangeForm, opts Options) (*RelationshipData, error) {
	d := &RelationshipData{}

	if relaBitHeader.Has(cf.ChangeFlags) {
		hdr, err := readChangeFormFlags(sub)
		if err != nil {
			return d, err
		}
		d.HasHeader, d.Header = true, hdr
	}

	if cf.Ref.Tag() == refid.TagCreated {
		p1, err := sub.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		p2, err := sub.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		assoc, err := sub.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		d.IsCreated = true
		d.Person1 = opts.Registry.Intern(p1)
		d.Person2 = opts.Registry.Intern(p2)
		d.Association = opts.Registry.Intern(assoc)
	}

	if relaBitRank.Has(cf.ChangeFlags) {
		rank, err := sub.ReadU32()
		if err != nil {
			return d, err
		}
		d.HasRank, d.Rank = true, rank
	}

	return d, nil
}
