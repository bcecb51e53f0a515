package audit

import "fmt"

// RoleGrantEvent records granting or revoking a role. SubjectKind is
// "user" or "group".
type RoleGrantEvent struct {
	OrgID       string
	RoleID      string
	RoleName    string
	SubjectKind string
	SubjectID   string
	Revoked     bool
}

func (e RoleGrantEvent) MessageID() string {
	return "role-grant"
}

func (e RoleGrantEvent) Message() string {
	if e.Revoked {
		return fmt.Sprintf("role %s was revoked from %s %s", e.RoleName, e.SubjectKind, e.SubjectID)
	}
	return fmt.Sprintf("role %s was granted to %s %s", e.RoleName, e.SubjectKind, e.SubjectID)
}

func (e RoleGrantEvent) Severity() Severity {
	return SeverityInfo
}

func (e RoleGrantEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RoleGrantEvent) StructuredData() map[string]map[string]string {
	operation := "grant"
	if e.Revoked {
		operation = "revoke"
	}
	return map[string]map[string]string{
		SDIDSubject: {
			"role":         e.RoleID,
			"name":         e.RoleName,
			"subject-kind": e.SubjectKind,
			"subject":      e.SubjectID,
		},
		SDIDOrg: {
			"id": e.OrgID,
		},
		SDIDAction: {
			"operation": operation,
		},
	}
}
