package audit

import "fmt"

// MembershipEvent records granting or revoking organization membership
type MembershipEvent struct {
	OrgID   string
	OrgName string
	UserID  string
	Revoked bool
}

func (e MembershipEvent) MessageID() string {
	return "membership"
}

func (e MembershipEvent) Message() string {
	if e.Revoked {
		return fmt.Sprintf("%s was removed from organization %s", e.UserID, e.OrgName)
	}
	return fmt.Sprintf("%s became a member of organization %s", e.UserID, e.OrgName)
}

func (e MembershipEvent) Severity() Severity {
	return SeverityInfo
}

func (e MembershipEvent) Facility() int {
	return FacilityAuthPriv
}

func (e MembershipEvent) StructuredData() map[string]map[string]string {
	operation := "grant"
	if e.Revoked {
		operation = "revoke"
	}
	return map[string]map[string]string{
		SDIDSubject: {
			"user": e.UserID,
		},
		SDIDOrg: {
			"id":   e.OrgID,
			"name": e.OrgName,
		},
		SDIDAction: {
			"operation": operation,
		},
	}
}
