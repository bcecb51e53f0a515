package gorm

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

type OrganizationsSuite struct {
	suite.Suite
	DB    *gorm.DB
	mock  sqlmock.Sqlmock
	store *OrganizationsStore
}

func (s *OrganizationsSuite) SetupTest() {
	var (
		db  *sql.DB
		err error
	)

	db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	s.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(s.T(), err)

	s.store = NewOrganizationsStore(s.DB)
}

func (s *OrganizationsSuite) TearDownTest() {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestOrganizationsStore(t *testing.T) {
	suite.Run(t, new(OrganizationsSuite))
}

func (s *OrganizationsSuite) TestCreateOrganizationRejectsDuplicateName() {
	s.mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM organizations WHERE realm_id = \$1 AND name = \$2\)`).
		WithArgs("production", "acme").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := s.store.CreateOrganization("production", "acme", "admin")

	var dup *store.DuplicateNameError
	require.ErrorAs(s.T(), err, &dup)
	assert.Equal(s.T(), "organization", dup.Kind)
	assert.Equal(s.T(), "acme", dup.Name)
}

func (s *OrganizationsSuite) TestOrganizationByIDNotFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.store.OrganizationByID("missing")

	var notFound *store.NotFoundError
	require.ErrorAs(s.T(), err, &notFound)
	assert.Equal(s.T(), "organization", notFound.Kind)
	assert.Equal(s.T(), "missing", notFound.ID)
}

func (s *OrganizationsSuite) TestGrantMembershipReplacesExistingRow() {
	s.mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE id = \$1`).
		WithArgs("org1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "realm_id", "name"}).
			AddRow("org1", "production", "acme"))
	s.mock.ExpectQuery(`SELECT domain FROM organization_domains WHERE organization_id = \$1`).
		WithArgs("org1").
		WillReturnRows(sqlmock.NewRows([]string{"domain"}))

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM organization_members WHERE organization_id = \$1 AND user_id = \$2`).
		WithArgs("org1", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`INSERT INTO "organization_members"`).
		WithArgs(sqlmock.AnyArg(), "org1", "alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	require.NoError(s.T(), s.store.GrantMembership("org1", "alice"))
}

func (s *OrganizationsSuite) TestRevokeMembershipIsANoOpForNonMembers() {
	s.mock.ExpectExec(`DELETE FROM organization_members WHERE organization_id = \$1 AND user_id = \$2`).
		WithArgs("org1", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(s.T(), s.store.RevokeMembership("org1", "ghost"))
}
