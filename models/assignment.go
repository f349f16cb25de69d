package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// AssignmentKind tags which legacy representation a task's assignment came from.
type AssignmentKind int

const (
	AssignmentNone AssignmentKind = iota
	AssignmentEmbedded
	AssignmentByIDList
	AssignmentSingleEmbedded
	AssignmentSingleID
)

func (k AssignmentKind) String() string {
	switch k {
	case AssignmentEmbedded:
		return "embedded"
	case AssignmentByIDList:
		return "by-id-list"
	case AssignmentSingleEmbedded:
		return "single-embedded"
	case AssignmentSingleID:
		return "single-id"
	default:
		return "none"
	}
}

// AssignmentSource is the normalized form of "who is this task assigned to".
// Employees is set for the embedded kinds, IDs for the id kinds.
type AssignmentSource struct {
	Kind      AssignmentKind
	Employees []Employee
	IDs       []int64
}

// AssignmentShape holds every representation a record may carry.
type AssignmentShape struct {
	AssignedEmployees []Employee
	AssignedToIDs     []int64
	AssignedTo        []Employee
	AssignedToID      *int64
}

// ClassifyAssignment picks the first non-empty representation in precedence order.
func ClassifyAssignment(shape AssignmentShape) AssignmentSource {
	switch {
	case len(shape.AssignedEmployees) > 0:
		return AssignmentSource{Kind: AssignmentEmbedded, Employees: shape.AssignedEmployees}
	case len(shape.AssignedToIDs) > 0:
		return AssignmentSource{Kind: AssignmentByIDList, IDs: shape.AssignedToIDs}
	case len(shape.AssignedTo) > 0:
		return AssignmentSource{Kind: AssignmentSingleEmbedded, Employees: shape.AssignedTo}
	case shape.AssignedToID != nil:
		return AssignmentSource{Kind: AssignmentSingleID, IDs: []int64{*shape.AssignedToID}}
	default:
		return AssignmentSource{Kind: AssignmentNone}
	}
}

// idList decodes an id array whose entries may be numbers or numeric strings.
// Entries that are neither are dropped.
type idList []int64

func (l *idList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Anything but an array is treated as absent.
		*l = nil
		return nil
	}
	ids := make([]int64, 0, len(raw))
	for _, entry := range raw {
		if id, ok := parseID(entry); ok {
			ids = append(ids, id)
		}
	}
	*l = ids
	return nil
}

// flexibleID decodes a single id that may be a number or numeric string.
type flexibleID struct {
	value int64
	set   bool
}

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	f.value, f.set = parseID(data)
	return nil
}

func parseID(data json.RawMessage) (int64, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err == nil {
		if id, err := number.Int64(); err == nil {
			return id, true
		}
		return 0, false
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeEmbedded accepts a single employee object or an array of them.
func decodeEmbedded(data json.RawMessage) []Employee {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		var list []Employee
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil
		}
		return list
	}
	var single Employee
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil
	}
	return []Employee{single}
}
