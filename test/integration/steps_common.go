package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/resolver"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
	gormstore "github.com/doodlesbykumbi/orgs-in-go/pkg/store/gorm"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc *TestContext

	orgs        store.OrganizationsStore
	groups      store.GroupsStore
	roles       store.RolesStore
	invitations store.InvitationsStore
	resolver    *resolver.Resolver

	realm    string
	orgIDs   map[string]string
	groupIDs map[string]string
	roleIDs  map[string]string
	userIDs  map[string]string

	joinErr  error
	response *http.Response
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	groups := gormstore.NewGroupsStore(tc.DB)
	roles := gormstore.NewRolesStore(tc.DB)

	return &StepsContext{
		tc:          tc,
		orgs:        gormstore.NewOrganizationsStore(tc.DB),
		groups:      groups,
		roles:       roles,
		invitations: gormstore.NewInvitationsStore(tc.DB),
		resolver:    resolver.New(groups, roles),
		orgIDs:      make(map[string]string),
		groupIDs:    make(map[string]string),
		roleIDs:     make(map[string]string),
		userIDs:     make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Setup steps
	sc.Step(`^an organization "([^"]*)" exists in realm "([^"]*)"$`, s.anOrganizationExists)
	sc.Step(`^a role "([^"]*)" exists in "([^"]*)"$`, s.aRoleExists)
	sc.Step(`^a group "([^"]*)" exists in "([^"]*)"$`, s.aRootGroupExists)
	sc.Step(`^a group "([^"]*)" exists under "([^"]*)" in "([^"]*)"$`, s.aNestedGroupExists)
	sc.Step(`^the role "([^"]*)" is granted to group "([^"]*)"$`, s.roleGrantedToGroup)
	sc.Step(`^a platform user "([^"]*)" with email "([^"]*)"$`, s.aPlatformUserExists)
	sc.Step(`^an invitation for "([^"]*)" to "([^"]*)" with roles "([^"]*)"$`, s.anInvitationExists)

	// Membership steps
	sc.Step(`^user "([^"]*)" is a member of "([^"]*)"$`, s.userIsMemberOf)
	sc.Step(`^user "([^"]*)" joins group "([^"]*)"$`, s.userJoinsGroup)
	sc.Step(`^user "([^"]*)" tries to join group "([^"]*)"$`, s.userTriesToJoinGroup)
	sc.Step(`^the join should fail because the user is not an organization member$`, s.joinShouldFailPrecondition)

	// Mutation steps
	sc.Step(`^the role "([^"]*)" is removed from "([^"]*)"$`, s.roleIsRemoved)
	sc.Step(`^group "([^"]*)" is deleted$`, s.groupIsDeleted)

	// Event webhook steps
	sc.Step(`^a login event for "([^"]*)" is posted$`, s.aLoginEventIsPosted)
	sc.Step(`^a login event for "([^"]*)" is posted without a token$`, s.aLoginEventIsPostedWithoutToken)
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)

	// Assertion steps
	sc.Step(`^the effective roles of "([^"]*)" in "([^"]*)" should be "([^"]*)"$`, s.effectiveRolesShouldBe)
	sc.Step(`^user "([^"]*)" should have no effective roles in "([^"]*)"$`, s.effectiveRolesShouldBeEmpty)
	sc.Step(`^user "([^"]*)" should be a member of "([^"]*)"$`, s.userShouldBeMemberOf)
	sc.Step(`^no invitations should remain for "([^"]*)" in "([^"]*)"$`, s.noInvitationsShouldRemain)
}

// userID lazily assigns a stable id to a named test user
func (s *StepsContext) userID(username string) string {
	if id, ok := s.userIDs[username]; ok {
		return id
	}
	id := uuid.NewString()
	s.userIDs[username] = id
	return id
}

// Setup steps

func (s *StepsContext) anOrganizationExists(name, realm string) error {
	s.realm = realm
	org, err := s.orgs.CreateOrganization(realm, name, s.userID("admin"))
	if err != nil {
		return err
	}
	s.orgIDs[name] = org.ID
	return nil
}

func (s *StepsContext) aRoleExists(roleName, orgName string) error {
	role, err := s.roles.AddRole(s.orgIDs[orgName], roleName)
	if err != nil {
		return err
	}
	s.roleIDs[roleName] = role.ID
	return nil
}

func (s *StepsContext) aRootGroupExists(groupName, orgName string) error {
	group, err := s.groups.CreateGroup(s.orgIDs[orgName], groupName, "")
	if err != nil {
		return err
	}
	s.groupIDs[groupName] = group.ID
	return nil
}

func (s *StepsContext) aNestedGroupExists(groupName, parentName, orgName string) error {
	group, err := s.groups.CreateGroup(s.orgIDs[orgName], groupName, s.groupIDs[parentName])
	if err != nil {
		return err
	}
	s.groupIDs[groupName] = group.ID
	return nil
}

func (s *StepsContext) roleGrantedToGroup(roleName, groupName string) error {
	return s.roles.GrantToGroup(s.roleIDs[roleName], s.groupIDs[groupName])
}

func (s *StepsContext) aPlatformUserExists(username, email string) error {
	return s.tc.DB.Exec(`
		INSERT INTO platform_users (id, realm_id, username, email) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, s.userID(username), s.realm, username, email).Error
}

func (s *StepsContext) anInvitationExists(email, orgName, roleList string) error {
	_, err := s.invitations.AddInvitation(
		s.orgIDs[orgName], email, s.userID("admin"), strings.Split(roleList, ","))
	return err
}

// Membership steps

func (s *StepsContext) userIsMemberOf(username, orgName string) error {
	return s.orgs.GrantMembership(s.orgIDs[orgName], s.userID(username))
}

func (s *StepsContext) userJoinsGroup(username, groupName string) error {
	return s.groups.JoinGroup(s.groupIDs[groupName], s.userID(username))
}

func (s *StepsContext) userTriesToJoinGroup(username, groupName string) error {
	s.joinErr = s.groups.JoinGroup(s.groupIDs[groupName], s.userID(username))
	return nil
}

func (s *StepsContext) joinShouldFailPrecondition() error {
	var precondition *store.PreconditionError
	if !errors.As(s.joinErr, &precondition) {
		return fmt.Errorf("expected a precondition error, got %v", s.joinErr)
	}
	return nil
}

// Mutation steps

func (s *StepsContext) roleIsRemoved(roleName, orgName string) error {
	return s.roles.RemoveRole(s.orgIDs[orgName], roleName)
}

func (s *StepsContext) groupIsDeleted(groupName string) error {
	return s.groups.DeleteGroup(s.groupIDs[groupName])
}

// Event webhook steps

func (s *StepsContext) aLoginEventIsPosted(username string) error {
	token, err := s.signEventToken()
	if err != nil {
		return err
	}
	return s.postLoginEvent(username, token)
}

func (s *StepsContext) aLoginEventIsPostedWithoutToken(username string) error {
	return s.postLoginEvent(username, "")
}

func (s *StepsContext) postLoginEvent(username, token string) error {
	payload, err := json.Marshal(map[string]string{
		"type":     "LOGIN",
		"realm_id": s.realm,
		"user_id":  s.userID(username),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.tc.ServerURL+"/events/login", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	return s.response.Body.Close()
}

func (s *StepsContext) signEventToken() (string, error) {
	claims := jwt.MapClaims{
		"iss": "integration-test",
		"exp": time.Now().Add(time.Minute).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(eventTokenSecret))
}

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d", expectedStatus, s.response.StatusCode)
	}
	return nil
}

// Assertion steps

func (s *StepsContext) effectiveRolesShouldBe(username, orgName, roleList string) error {
	roles, err := s.resolver.EffectiveRoles(s.orgIDs[orgName], s.userID(username))
	if err != nil {
		return err
	}

	var names []string
	for _, role := range roles {
		names = append(names, role.Name)
	}
	actual := strings.Join(names, ",")
	if actual != roleList {
		return fmt.Errorf("expected effective roles %q, got %q", roleList, actual)
	}
	return nil
}

func (s *StepsContext) effectiveRolesShouldBeEmpty(username, orgName string) error {
	roles, err := s.resolver.EffectiveRoles(s.orgIDs[orgName], s.userID(username))
	if err != nil {
		return err
	}
	if len(roles) != 0 {
		return fmt.Errorf("expected no effective roles, got %d", len(roles))
	}
	return nil
}

func (s *StepsContext) userShouldBeMemberOf(username, orgName string) error {
	member, err := s.orgs.HasMembership(s.orgIDs[orgName], s.userID(username))
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("user %s is not a member of %s", username, orgName)
	}
	return nil
}

func (s *StepsContext) noInvitationsShouldRemain(email, orgName string) error {
	pending, err := s.invitations.InvitationsByEmail(s.orgIDs[orgName], email)
	if err != nil {
		return err
	}
	if len(pending) != 0 {
		return fmt.Errorf("expected no pending invitations for %s, found %d", email, len(pending))
	}
	return nil
}
