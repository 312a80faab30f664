package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"sally/internal/common"
	"sally/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var userWithTenantColumnNames = []string{"id", "user_id", "tenant_id", "email", "firebase_uid", "first_name",
	"last_name", "role", "driver_id", "is_active", "last_login_at", "created_at", "updated_at",
	"tenant_id", "company_name", "subdomain", "status", "is_active"}

type UserRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    UserRepository
	context context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewUserRepo(mock)
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func (suite *UserRepoTestSuite) TestCreate_LowercasesEmail() {
	user := &models.User{
		UserID:    "user-1",
		TenantID:  7,
		Email:     "Owner@Acme.Test",
		FirstName: "Ada",
		LastName:  "Owner",
		Role:      models.RoleOwner,
	}
	now := time.Now()

	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("user-1", int64(7), "owner@acme.test", user.FirebaseUID, "Ada", "Owner", models.RoleOwner,
			user.DriverID, false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	err := suite.repo.Create(suite.context, user)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), user.ID)
}

func (suite *UserRepoTestSuite) TestGetByUserID_JoinsTenant() {
	now := time.Now()
	uid := "fb-uid"
	suite.mock.ExpectQuery(regexp.QuoteMeta("WHERE u.user_id = $1")).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(userWithTenantColumnNames).AddRow(
			int64(3), "user-1", int64(7), "owner@acme.test", &uid, "Ada", "Owner", models.RoleOwner, nil,
			true, nil, now, now, "tenant-ext-7", "Acme Freight", "acme-co", models.TenantStatusActive, true))

	u, err := suite.repo.GetByUserID(suite.context, "user-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "tenant-ext-7", u.TenantExternalID)
	assert.True(suite.T(), u.TenantIsActive)
	assert.Equal(suite.T(), models.RoleOwner, u.Role)
}

func (suite *UserRepoTestSuite) TestGetByFirebaseUID_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("WHERE u.firebase_uid = $1")).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByFirebaseUID(suite.context, "nobody")
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *UserRepoTestSuite) TestExistsByEmail() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("taken@acme.test").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := suite.repo.ExistsByEmail(suite.context, "TAKEN@acme.test")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), exists)
}

func (suite *UserRepoTestSuite) TestActivateTenantAdmins() {
	suite.mock.ExpectExec(regexp.QuoteMeta("WHERE tenant_id = $1 AND role IN ($2, $3)")).
		WithArgs(int64(7), models.RoleOwner, models.RoleAdmin).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	n, err := suite.repo.ActivateTenantAdmins(suite.context, 7)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), n)
}

func (suite *UserRepoTestSuite) TestLinkFirebaseUID_AlreadyLinked() {
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET firebase_uid = $1")).
		WithArgs("fb-uid", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.LinkFirebaseUID(suite.context, 3, "fb-uid")
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
}

func (suite *UserRepoTestSuite) TestDeactivate_NotFound() {
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_active = false")).
		WithArgs(int64(7), "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Deactivate(suite.context, 7, "ghost")
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}
