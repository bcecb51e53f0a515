package audit

import "fmt"

// GroupEvent records a group hierarchy mutation
type GroupEvent struct {
	OrgID     string
	GroupID   string
	GroupName string
	Operation string // "create", "move", "remove"
}

func (e GroupEvent) MessageID() string {
	return "group"
}

func (e GroupEvent) Message() string {
	switch e.Operation {
	case "move":
		return fmt.Sprintf("group %s was re-parented", e.GroupName)
	case "remove":
		return fmt.Sprintf("group %s and its subtree were removed", e.GroupName)
	default:
		return fmt.Sprintf("group %s was created", e.GroupName)
	}
}

func (e GroupEvent) Severity() Severity {
	return SeverityInfo
}

func (e GroupEvent) Facility() int {
	return FacilityAuthPriv
}

func (e GroupEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"group": e.GroupID,
			"name":  e.GroupName,
		},
		SDIDOrg: {
			"id": e.OrgID,
		},
		SDIDAction: {
			"operation": e.Operation,
		},
	}
}
