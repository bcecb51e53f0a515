package gorm

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/model"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

// Ensure OrganizationsStore implements store.OrganizationsStore
var _ store.OrganizationsStore = (*OrganizationsStore)(nil)

// OrganizationsStore implements store.OrganizationsStore using GORM
type OrganizationsStore struct {
	db *gorm.DB
}

// NewOrganizationsStore creates a new OrganizationsStore
func NewOrganizationsStore(db *gorm.DB) *OrganizationsStore {
	return &OrganizationsStore{db: db}
}

// CreateOrganization creates an organization in a realm
func (s *OrganizationsStore) CreateOrganization(realmID, name, createdBy string) (*store.Organization, error) {
	var exists bool
	err := s.db.Raw(`SELECT EXISTS(SELECT 1 FROM organizations WHERE realm_id = ? AND name = ?)`,
		realmID, name).Scan(&exists).Error
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &store.DuplicateNameError{Kind: "organization", Name: name}
	}

	org := model.Organization{
		ID:        uuid.NewString(),
		RealmID:   realmID,
		Name:      name,
		CreatedBy: createdBy,
	}
	if err := s.db.Create(&org).Error; err != nil {
		return nil, err
	}
	return s.OrganizationByID(org.ID)
}

// OrganizationByID retrieves an organization
func (s *OrganizationsStore) OrganizationByID(id string) (*store.Organization, error) {
	var org model.Organization
	err := s.db.Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &store.NotFoundError{Kind: "organization", ID: id}
	}
	if err != nil {
		return nil, err
	}

	domains, err := s.domains(id)
	if err != nil {
		return nil, err
	}
	return toOrganization(org, domains), nil
}

// OrganizationsByRealm lists all organizations in a realm
func (s *OrganizationsStore) OrganizationsByRealm(realmID string) ([]store.Organization, error) {
	var orgs []model.Organization
	err := s.db.Where("realm_id = ?", realmID).Order("name").Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return s.withDomains(orgs)
}

// SearchOrganizations lists organizations whose name matches search
func (s *OrganizationsStore) SearchOrganizations(realmID, search string, limit, offset int) ([]store.Organization, error) {
	query := s.db.Where("realm_id = ?", realmID)
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var orgs []model.Organization
	if err := query.Order("name").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return s.withDomains(orgs)
}

// OrganizationsForDomain lists organizations claiming a domain
func (s *OrganizationsStore) OrganizationsForDomain(realmID, domain string) ([]store.Organization, error) {
	var orgs []model.Organization
	err := s.db.Raw(`
		SELECT o.* FROM organizations o
		JOIN organization_domains d ON d.organization_id = o.id
		WHERE o.realm_id = ? AND d.domain = ?
		ORDER BY o.name
	`, realmID, domain).Scan(&orgs).Error
	if err != nil {
		return nil, err
	}
	return s.withDomains(orgs)
}

// OrganizationsForUser lists organizations the user is a member of
func (s *OrganizationsStore) OrganizationsForUser(realmID, userID string) ([]store.Organization, error) {
	var orgs []model.Organization
	err := s.db.Raw(`
		SELECT o.* FROM organizations o
		JOIN organization_members m ON m.organization_id = o.id
		WHERE o.realm_id = ? AND m.user_id = ?
		ORDER BY o.name
	`, realmID, userID).Scan(&orgs).Error
	if err != nil {
		return nil, err
	}
	return s.withDomains(orgs)
}

// UpdateOrganization replaces display name, URL and the domain set
func (s *OrganizationsStore) UpdateOrganization(org *store.Organization) error {
	if _, err := s.OrganizationByID(org.ID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`UPDATE organizations SET display_name = ?, url = ? WHERE id = ?`,
			org.DisplayName, org.URL, org.ID).Error
		if err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM organization_domains WHERE organization_id = ?`, org.ID).Error; err != nil {
			return err
		}
		for _, domain := range org.Domains {
			d := model.OrganizationDomain{OrgID: org.ID, Domain: domain}
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteOrganization removes the organization and everything it owns
func (s *OrganizationsStore) DeleteOrganization(id string) error {
	if _, err := s.OrganizationByID(id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		statements := []string{
			`DELETE FROM organization_group_members WHERE organization_id = ?`,
			`DELETE FROM organization_group_attributes WHERE group_id IN
				(SELECT id FROM organization_groups WHERE organization_id = ?)`,
			`DELETE FROM group_role_mappings WHERE role_id IN
				(SELECT id FROM organization_roles WHERE organization_id = ?)`,
			`DELETE FROM user_role_mappings WHERE role_id IN
				(SELECT id FROM organization_roles WHERE organization_id = ?)`,
			`DELETE FROM organization_groups WHERE organization_id = ?`,
			`DELETE FROM organization_roles WHERE organization_id = ?`,
			`DELETE FROM organization_members WHERE organization_id = ?`,
			`DELETE FROM invitations WHERE organization_id = ?`,
			`DELETE FROM organization_domains WHERE organization_id = ?`,
			`DELETE FROM organizations WHERE id = ?`,
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GrantMembership makes the user an organization member
func (s *OrganizationsStore) GrantMembership(orgID, userID string) error {
	if _, err := s.OrganizationByID(orgID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`DELETE FROM organization_members WHERE organization_id = ? AND user_id = ?`,
			orgID, userID).Error
		if err != nil {
			return err
		}
		m := model.OrganizationMember{ID: uuid.NewString(), OrgID: orgID, UserID: userID}
		return tx.Create(&m).Error
	})
}

// RevokeMembership removes organization membership
func (s *OrganizationsStore) RevokeMembership(orgID, userID string) error {
	return s.db.Exec(`DELETE FROM organization_members WHERE organization_id = ? AND user_id = ?`,
		orgID, userID).Error
}

// HasMembership reports whether the user is an organization member
func (s *OrganizationsStore) HasMembership(orgID, userID string) (bool, error) {
	var exists bool
	err := s.db.Raw(`SELECT EXISTS(SELECT 1 FROM organization_members WHERE organization_id = ? AND user_id = ?)`,
		orgID, userID).Scan(&exists).Error
	return exists, err
}

// Members lists the user ids of all organization members
func (s *OrganizationsStore) Members(orgID string) ([]string, error) {
	var userIDs []string
	err := s.db.Raw(`SELECT user_id FROM organization_members WHERE organization_id = ? ORDER BY user_id`,
		orgID).Scan(&userIDs).Error
	return userIDs, err
}

func (s *OrganizationsStore) domains(orgID string) ([]string, error) {
	var domains []string
	err := s.db.Raw(`SELECT domain FROM organization_domains WHERE organization_id = ? ORDER BY domain`,
		orgID).Scan(&domains).Error
	return domains, err
}

func (s *OrganizationsStore) withDomains(orgs []model.Organization) ([]store.Organization, error) {
	result := make([]store.Organization, 0, len(orgs))
	for _, org := range orgs {
		domains, err := s.domains(org.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, *toOrganization(org, domains))
	}
	return result, nil
}

func toOrganization(org model.Organization, domains []string) *store.Organization {
	return &store.Organization{
		ID:          org.ID,
		RealmID:     org.RealmID,
		Name:        org.Name,
		DisplayName: org.DisplayName,
		URL:         org.URL,
		Domains:     domains,
		CreatedBy:   org.CreatedBy,
		CreatedAt:   org.CreatedAt,
	}
}
