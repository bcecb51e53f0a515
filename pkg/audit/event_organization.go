package audit

import "fmt"

// OrganizationEvent records creation or removal of an organization
type OrganizationEvent struct {
	OrgID        string
	OrgName      string
	RealmID      string
	ActorID      string
	Removed      bool
	Success      bool
	ErrorMessage string
}

func (e OrganizationEvent) MessageID() string {
	return "organization"
}

func (e OrganizationEvent) Message() string {
	verb, failVerb := "created", "create"
	if e.Removed {
		verb, failVerb = "removed", "remove"
	}
	if e.Success {
		return fmt.Sprintf("%s %s organization %s", e.ActorID, verb, e.OrgName)
	}
	msg := fmt.Sprintf("%s failed to %s organization %s", e.ActorID, failVerb, e.OrgName)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e OrganizationEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e OrganizationEvent) Facility() int {
	return FacilityAuthPriv
}

func (e OrganizationEvent) StructuredData() map[string]map[string]string {
	operation := "create"
	if e.Removed {
		operation = "remove"
	}
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.ActorID,
		},
		SDIDOrg: {
			"id":    e.OrgID,
			"name":  e.OrgName,
			"realm": e.RealmID,
		},
		SDIDAction: {
			"operation": operation,
			"result":    result,
		},
	}
}
