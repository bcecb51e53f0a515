package gorm

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

type RolesSuite struct {
	suite.Suite
	DB    *gorm.DB
	mock  sqlmock.Sqlmock
	store *RolesStore
}

func (s *RolesSuite) SetupTest() {
	var (
		db  *sql.DB
		err error
	)

	db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	s.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(s.T(), err)

	s.store = NewRolesStore(s.DB)
}

func (s *RolesSuite) TearDownTest() {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestRolesStore(t *testing.T) {
	suite.Run(t, new(RolesSuite))
}

func (s *RolesSuite) TestGrantToUserReplacesExistingRow() {
	s.mock.ExpectQuery(`SELECT \* FROM "organization_roles" WHERE id = \$1`).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name"}).
			AddRow("r1", "org1", "eat-apples"))

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM user_role_mappings WHERE role_id = \$1 AND user_id = \$2`).
		WithArgs("r1", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`INSERT INTO "user_role_mappings"`).
		WithArgs(sqlmock.AnyArg(), "r1", "alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	require.NoError(s.T(), s.store.GrantToUser("r1", "alice"))
}

func (s *RolesSuite) TestGrantToUnknownRoleFails() {
	s.mock.ExpectQuery(`SELECT \* FROM "organization_roles" WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := s.store.GrantToUser("missing", "alice")

	var notFound *store.NotFoundError
	require.ErrorAs(s.T(), err, &notFound)
}

func (s *RolesSuite) TestRemoveRoleDeletesGrantRowsOnBothSides() {
	s.mock.ExpectQuery(`SELECT \* FROM "organization_roles" WHERE organization_id = \$1 AND name = \$2`).
		WithArgs("org1", "eat-apples").
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name"}).
			AddRow("r1", "org1", "eat-apples"))

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM user_role_mappings WHERE role_id = \$1`).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectExec(`DELETE FROM group_role_mappings WHERE role_id = \$1`).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`DELETE FROM organization_roles WHERE id = \$1`).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	require.NoError(s.T(), s.store.RemoveRole("org1", "eat-apples"))
}
