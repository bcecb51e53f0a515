package audit

import "fmt"

// InvitationEvent records the lifecycle of an invitation. Operation is
// "create", "revoke" or "convert"; Convert carries the user id the
// invitation resolved to.
type InvitationEvent struct {
	OrgID        string
	InvitationID string
	Email        string
	Operation    string
	UserID       string
	Success      bool
	ErrorMessage string
}

func (e InvitationEvent) MessageID() string {
	return "invitation"
}

func (e InvitationEvent) Message() string {
	switch e.Operation {
	case "revoke":
		return fmt.Sprintf("invitation for %s was revoked", e.Email)
	case "convert":
		if e.Success {
			return fmt.Sprintf("invitation for %s was converted into membership for %s", e.Email, e.UserID)
		}
		msg := fmt.Sprintf("invitation for %s could not be converted", e.Email)
		if e.ErrorMessage != "" {
			msg += ": " + e.ErrorMessage
		}
		return msg
	default:
		return fmt.Sprintf("invitation for %s was created", e.Email)
	}
}

func (e InvitationEvent) Severity() Severity {
	if e.Operation == "convert" && !e.Success {
		return SeverityWarning
	}
	return SeverityInfo
}

func (e InvitationEvent) Facility() int {
	return FacilityAuthPriv
}

func (e InvitationEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSubject: {
			"invitation": e.InvitationID,
			"email":      e.Email,
		},
		SDIDOrg: {
			"id": e.OrgID,
		},
		SDIDAction: {
			"operation": e.Operation,
		},
	}
	if e.UserID != "" {
		sd[SDIDSubject]["user"] = e.UserID
	}
	if e.Operation == "convert" {
		if e.Success {
			sd[SDIDAction]["result"] = "success"
		} else {
			sd[SDIDAction]["result"] = "failure"
		}
	}
	return sd
}
