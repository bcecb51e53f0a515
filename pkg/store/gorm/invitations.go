package gorm

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/model"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

// Ensure InvitationsStore implements store.InvitationsStore
var _ store.InvitationsStore = (*InvitationsStore)(nil)

// InvitationsStore implements store.InvitationsStore using GORM
type InvitationsStore struct {
	db *gorm.DB
}

// NewInvitationsStore creates a new InvitationsStore
func NewInvitationsStore(db *gorm.DB) *InvitationsStore {
	return &InvitationsStore{db: db}
}

// AddInvitation records a pending invitation
func (s *InvitationsStore) AddInvitation(orgID, email, inviterID string, roles []string) (*store.Invitation, error) {
	inv := model.Invitation{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Email:     email,
		InviterID: inviterID,
		Roles:     pq.StringArray(roles),
	}
	if err := s.db.Create(&inv).Error; err != nil {
		return nil, err
	}
	return s.InvitationByID(inv.ID)
}

// InvitationByID retrieves an invitation
func (s *InvitationsStore) InvitationByID(id string) (*store.Invitation, error) {
	var inv model.Invitation
	err := s.db.Where("id = ?", id).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &store.NotFoundError{Kind: "invitation", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return toInvitation(inv), nil
}

// InvitationsByOrganization lists pending invitations of an organization
func (s *InvitationsStore) InvitationsByOrganization(orgID string) ([]store.Invitation, error) {
	var invs []model.Invitation
	err := s.db.Where("organization_id = ?", orgID).Order("created_at").Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return toInvitations(invs), nil
}

// InvitationsByEmail lists pending invitations of an organization for one
// email address
func (s *InvitationsStore) InvitationsByEmail(orgID, email string) ([]store.Invitation, error) {
	var invs []model.Invitation
	err := s.db.Where("organization_id = ? AND email = ?", orgID, email).Order("created_at").Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return toInvitations(invs), nil
}

// PendingForEmail lists pending invitations for an email address across
// every organization of a realm
func (s *InvitationsStore) PendingForEmail(realmID, email string) ([]store.Invitation, error) {
	var invs []model.Invitation
	err := s.db.Raw(`
		SELECT i.* FROM invitations i
		JOIN organizations o ON o.id = i.organization_id
		WHERE o.realm_id = ? AND i.email = ?
		ORDER BY i.created_at
	`, realmID, email).Scan(&invs).Error
	if err != nil {
		return nil, err
	}
	return toInvitations(invs), nil
}

// RevokeInvitation deletes one invitation
func (s *InvitationsStore) RevokeInvitation(id string) error {
	return s.db.Exec(`DELETE FROM invitations WHERE id = ?`, id).Error
}

// RevokeInvitations deletes all invitations of an organization for an email
// address
func (s *InvitationsStore) RevokeInvitations(orgID, email string) error {
	return s.db.Exec(`DELETE FROM invitations WHERE organization_id = ? AND email = ?`, orgID, email).Error
}

func toInvitation(inv model.Invitation) *store.Invitation {
	return &store.Invitation{
		ID:        inv.ID,
		OrgID:     inv.OrgID,
		Email:     inv.Email,
		InviterID: inv.InviterID,
		Roles:     []string(inv.Roles),
		CreatedAt: inv.CreatedAt,
	}
}

func toInvitations(invs []model.Invitation) []store.Invitation {
	result := make([]store.Invitation, 0, len(invs))
	for _, inv := range invs {
		result = append(result, *toInvitation(inv))
	}
	return result
}
