// Package refid implements the 24-bit packed record identifier and the
// plugin table it resolves against.
package refid

import (
	"fmt"

	"github.com/sagahold/essedit/errs"
)

// Tag is the 2-bit discriminant packed into the high bits of a RefID.
type Tag uint8

const (
	TagFormIndex Tag = 0
	TagDefault   Tag = 1
	TagCreated   Tag = 2
	TagInvalid   Tag = 3
)

func (t Tag) String() string {
	switch t {
	case TagFormIndex:
		return "FORMIDX"
	case TagDefault:
		return "DEFAULT"
	case TagCreated:
		return "CREATED"
	default:
		return "INVALID"
	}
}

// RefID is a 24-bit packed identifier: bits 22-23 hold the Tag, bits 0-21
// hold a tag-dependent payload. Values are canonicalised by a Registry so
// that two RefIDs with the same 24-bit value are the same pointer within a
// container: one instance per 24-bit value per container, so identity
// equality (==) is safe to use directly.
type RefID struct {
	value uint32
}

// New packs raw into a RefID, masking to 24 bits. Most callers should
// obtain RefIDs through a Registry instead, to get canonicalisation.
func New(raw uint32) *RefID {
	return &RefID{value: raw & 0xFFFFFF}
}

// Raw returns the packed 24-bit value.
func (r *RefID) Raw() uint32 { return r.value }

// Tag returns the 2-bit discriminant.
func (r *RefID) Tag() Tag { return Tag(r.value >> 22) }

// Index returns the 22-bit payload (the tag-dependent value/local-id field).
func (r *RefID) Index() uint32 { return r.value & 0x3FFFFF }

// IsZero reports whether the packed value is exactly zero, the sentinel
// used by FLST cleansing to mean "null ref".
func (r *RefID) IsZero() bool { return r.value == 0 }

func (r *RefID) String() string {
	return fmt.Sprintf("%s:%06X", r.Tag(), r.Index())
}

// Resolved is the (plugin, form id) pair a RefID resolves to.
type Resolved struct {
	Plugin *Plugin
	FormID uint32
}

// Resolve maps a RefID to its (plugin, form id) pair against a plugin
// table and the container's form-ID array:
//
//	DEFAULT  -> (plugins.Full[0], index)
//	CREATED  -> (Created, 0xFF000000 | index)
//	FORMIDX  -> formIDArray[index-1], then resolved against the plugin table
//	INVALID  -> unresolved, errs.ErrPluginNotFound
func (r *RefID) Resolve(plugins *PluginInfo, formIDArray []uint32) (Resolved, error) {
	switch r.Tag() {
	case TagDefault:
		if len(plugins.Full) == 0 {
			return Resolved{}, errs.ErrPluginNotFound
		}

		return Resolved{Plugin: plugins.Full[0], FormID: r.Index()}, nil

	case TagCreated:
		return Resolved{Plugin: Created, FormID: 0xFF000000 | r.Index()}, nil

	case TagFormIndex:
		i := r.Index()
		if i == 0 || int(i-1) >= len(formIDArray) {
			return Resolved{}, errs.ErrPluginNotFound
		}
		formID := formIDArray[i-1]
		plugin, _, err := plugins.ResolveFormID(formID)
		if err != nil {
			return Resolved{}, err
		}

		return Resolved{Plugin: plugin, FormID: formID}, nil

	default: // TagInvalid
		return Resolved{}, errs.ErrPluginNotFound
	}
}

// Registry canonicalises RefID values: every raw 24-bit value maps to
// exactly one *RefID for the lifetime of the container that owns the
// registry. The map is exclusively owned by the container, append-only,
// with no internal synchronisation since the container is single-threaded.
type Registry struct {
	byValue map[uint32]*RefID
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byValue: make(map[uint32]*RefID)}
}

// Intern returns the canonical *RefID for raw, creating it on first use.
func (reg *Registry) Intern(raw uint32) *RefID {
	v := raw & 0xFFFFFF
	if r, ok := reg.byValue[v]; ok {
		return r
	}
	r := &RefID{value: v}
	reg.byValue[v] = r

	return r
}

// Len returns the number of distinct RefID values interned so far.
func (reg *Registry) Len() int { return len(reg.byValue) }
