package model

import "time"

// RelationType tags what a diary relation points at.
type RelationType string

const (
	RelationEvent RelationType = "EVENT"
	RelationTodo  RelationType = "TODO"
)

// RelationRef identifies the single entity a diary links to. The fields are
// unexported so a ref can only be built through EventRef or TodoRef, which
// keeps the tag and the target in agreement. The zero value is invalid.
type RelationRef struct {
	kind RelationType
	id   int64
}

// EventRef builds a reference to a calendar event.
func EventRef(id int64) RelationRef { return RelationRef{kind: RelationEvent, id: id} }

// TodoRef builds a reference to a todo item.
func TodoRef(id int64) RelationRef { return RelationRef{kind: RelationTodo, id: id} }

func (r RelationRef) Kind() RelationType { return r.kind }
func (r RelationRef) TargetID() int64    { return r.id }
func (r RelationRef) IsZero() bool       { return r.kind == "" }

// DiaryRelation is a stored link between a diary and exactly one calendar
// event or todo item. Its lifetime is owned by the referencing diary.
type DiaryRelation struct {
	ID           int64
	DiaryID      int64
	Ref          RelationRef
	CreationTime time.Time
}

// MergeRefs builds the combined reference list for a diary from raw id
// lists, dropping duplicates while preserving order. Events come first.
func MergeRefs(eventIDs, todoIDs []int64) []RelationRef {
	refs := make([]RelationRef, 0, len(eventIDs)+len(todoIDs))
	seen := make(map[RelationRef]struct{}, len(eventIDs)+len(todoIDs))
	for _, id := range eventIDs {
		r := EventRef(id)
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		refs = append(refs, r)
	}
	for _, id := range todoIDs {
		r := TodoRef(id)
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		refs = append(refs, r)
	}
	return refs
}
