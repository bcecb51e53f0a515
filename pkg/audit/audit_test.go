package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := MembershipEvent{
		OrgID:   "org-1",
		OrgName: "acme",
		UserID:  "alice",
	}

	logger.Log(event)

	output := buf.String()

	if !strings.Contains(output, "orgs") {
		t.Error("Expected app name 'orgs' in output")
	}
	if !strings.Contains(output, "membership") {
		t.Error("Expected message ID 'membership' in output")
	}
	if !strings.Contains(output, "alice") {
		t.Error("Expected user id in output")
	}
	if !strings.Contains(output, "became a member of organization acme") {
		t.Error("Expected grant message in output")
	}
	if !strings.HasPrefix(output, "<") {
		t.Error("Expected RFC5424 PRI prefix in output")
	}
}

func TestOrganizationEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     OrganizationEvent
		wantMsg   string
		wantSev   Severity
		wantFac   int
		wantMsgID string
	}{
		{
			name: "organization created",
			event: OrganizationEvent{
				OrgID:   "org-1",
				OrgName: "acme",
				RealmID: "realm",
				ActorID: "admin",
				Success: true,
			},
			wantMsg:   "created organization acme",
			wantSev:   SeverityInfo,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "organization",
		},
		{
			name: "organization removal failed",
			event: OrganizationEvent{
				OrgID:        "org-1",
				OrgName:      "acme",
				ActorID:      "admin",
				Removed:      true,
				Success:      false,
				ErrorMessage: "still has members",
			},
			wantMsg:   "failed to remove organization acme: still has members",
			wantSev:   SeverityWarning,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "organization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != tt.wantFac {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), tt.wantFac)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestInvitationEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   InvitationEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name: "created",
			event: InvitationEvent{
				InvitationID: "inv-1",
				Email:        "alice@example.com",
				Operation:    "create",
				Success:      true,
			},
			wantMsg: "invitation for alice@example.com was created",
			wantSev: SeverityInfo,
		},
		{
			name: "converted",
			event: InvitationEvent{
				InvitationID: "inv-1",
				Email:        "alice@example.com",
				Operation:    "convert",
				UserID:       "alice",
				Success:      true,
			},
			wantMsg: "converted into membership for alice",
			wantSev: SeverityInfo,
		},
		{
			name: "conversion failed",
			event: InvitationEvent{
				InvitationID: "inv-1",
				Email:        "alice@example.com",
				Operation:    "convert",
				Success:      false,
				ErrorMessage: "store unavailable",
			},
			wantMsg: "could not be converted: store unavailable",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
		})
	}
}

func TestRoleGrantEventStructuredData(t *testing.T) {
	event := RoleGrantEvent{
		OrgID:       "org-1",
		RoleID:      "role-1",
		RoleName:    "eat-apples",
		SubjectKind: "group",
		SubjectID:   "group-1",
	}

	sd := event.StructuredData()
	if sd[SDIDSubject]["role"] != "role-1" {
		t.Errorf("expected role id in structured data, got %v", sd[SDIDSubject])
	}
	if sd[SDIDAction]["operation"] != "grant" {
		t.Errorf("expected grant operation, got %v", sd[SDIDAction])
	}

	event.Revoked = true
	if event.StructuredData()[SDIDAction]["operation"] != "revoke" {
		t.Error("expected revoke operation after Revoked is set")
	}
}

func TestEscapeSDValue(t *testing.T) {
	got := escapeSDValue(`va"l]ue\`)
	want := `"va\"l\]ue\\"`
	if got != want {
		t.Errorf("escapeSDValue() = %s, want %s", got, want)
	}
}
