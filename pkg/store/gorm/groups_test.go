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

type GroupsSuite struct {
	suite.Suite
	DB    *gorm.DB
	mock  sqlmock.Sqlmock
	store *GroupsStore
}

func (s *GroupsSuite) SetupTest() {
	var (
		db  *sql.DB
		err error
	)

	db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	s.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(s.T(), err)

	s.store = NewGroupsStore(s.DB)
}

func (s *GroupsSuite) TearDownTest() {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestGroupsStore(t *testing.T) {
	suite.Run(t, new(GroupsSuite))
}

func (s *GroupsSuite) expectGroupRow(id, orgID, name string, parentID interface{}) {
	s.mock.ExpectQuery(`SELECT \* FROM "organization_groups" WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "parent_id"}).
			AddRow(id, orgID, name, parentID))
}

func (s *GroupsSuite) TestJoinGroupRequiresOrganizationMembership() {
	s.expectGroupRow("g1", "org1", "orchard", nil)
	s.mock.ExpectQuery(`SELECT name FROM organizations WHERE id = \$1`).
		WithArgs("org1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("acme"))
	s.mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM organization_members`).
		WithArgs("org1", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := s.store.JoinGroup("g1", "alice")

	var precondition *store.PreconditionError
	require.ErrorAs(s.T(), err, &precondition)
	assert.Contains(s.T(), precondition.Message, "acme")
	assert.Contains(s.T(), precondition.Message, "alice")
}

func (s *GroupsSuite) TestJoinGroupReplacesExistingRow() {
	s.expectGroupRow("g1", "org1", "orchard", nil)
	s.mock.ExpectQuery(`SELECT name FROM organizations WHERE id = \$1`).
		WithArgs("org1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("acme"))
	s.mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM organization_members`).
		WithArgs("org1", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM organization_group_members WHERE group_id = \$1 AND user_id = \$2`).
		WithArgs("g1", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`INSERT INTO "organization_group_members"`).
		WithArgs(sqlmock.AnyArg(), "g1", "org1", "alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	require.NoError(s.T(), s.store.JoinGroup("g1", "alice"))
}

func (s *GroupsSuite) TestMoveGroupRejectsMoveUnderOwnSubtree() {
	s.expectGroupRow("g1", "org1", "orchard", nil)
	s.expectGroupRow("g2", "org1", "apples", "g1")
	s.mock.ExpectQuery(`SELECT parent_id FROM organization_groups WHERE id = \$1`).
		WithArgs("g2").
		WillReturnRows(sqlmock.NewRows([]string{"parent_id"}).AddRow("g1"))

	err := s.store.MoveGroup("g1", "g2")

	var precondition *store.PreconditionError
	require.ErrorAs(s.T(), err, &precondition)
}

func (s *GroupsSuite) TestLeaveGroupIgnoresNonMembers() {
	s.mock.ExpectExec(`DELETE FROM organization_group_members WHERE group_id = \$1 AND user_id = \$2`).
		WithArgs("g1", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(s.T(), s.store.LeaveGroup("g1", "ghost"))
}
