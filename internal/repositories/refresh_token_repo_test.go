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

type RefreshTokenRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    RefreshTokenRepository
	context context.Context
}

func (suite *RefreshTokenRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewRefreshTokenRepo(mock)
	suite.context = context.Background()
}

func (suite *RefreshTokenRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestRefreshTokenRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RefreshTokenRepoTestSuite))
}

func (suite *RefreshTokenRepoTestSuite) TestCreate_StoresHash() {
	expires := time.Now().Add(7 * 24 * time.Hour)
	token := &models.RefreshToken{TokenID: "tok-1", UserID: "user-1", TokenHash: "abc123", ExpiresAt: expires}

	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WithArgs("tok-1", "user-1", "abc123", expires, token.UserAgent, token.IPAddress).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	assert.NoError(suite.T(), suite.repo.Create(suite.context, token))
}

func (suite *RefreshTokenRepoTestSuite) TestGetByTokenID_Success() {
	now := time.Now()
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens")).
		WithArgs("tok-1").
		WillReturnRows(pgxmock.NewRows([]string{"token_id", "user_id", "token_hash", "expires_at", "is_revoked",
			"revoked_at", "user_agent", "ip_address", "created_at"}).
			AddRow("tok-1", "user-1", "abc123", now.Add(time.Hour), false, nil, nil, nil, now))

	token, err := suite.repo.GetByTokenID(suite.context, "tok-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "abc123", token.TokenHash)
	assert.False(suite.T(), token.IsRevoked)
}

func (suite *RefreshTokenRepoTestSuite) TestGetByTokenID_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByTokenID(suite.context, "missing")
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *RefreshTokenRepoTestSuite) TestRevoke() {
	suite.mock.ExpectExec(regexp.QuoteMeta("SET is_revoked = true, revoked_at = NOW() WHERE token_id = $1")).
		WithArgs("tok-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	revoked, err := suite.repo.Revoke(suite.context, "tok-1")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), revoked)
}

func (suite *RefreshTokenRepoTestSuite) TestRevoke_AlreadyRevoked() {
	suite.mock.ExpectExec(regexp.QuoteMeta("WHERE token_id = $1 AND is_revoked = false")).
		WithArgs("tok-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	revoked, err := suite.repo.Revoke(suite.context, "tok-1")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), revoked)
}

func (suite *RefreshTokenRepoTestSuite) TestRevokeAllForUser() {
	suite.mock.ExpectExec(regexp.QuoteMeta("WHERE user_id = $1 AND is_revoked = false")).
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := suite.repo.RevokeAllForUser(suite.context, "user-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), n)
}

func (suite *RefreshTokenRepoTestSuite) TestDeleteExpired() {
	cutoff := time.Now().Add(-30 * 24 * time.Hour)
	suite.mock.ExpectExec(regexp.QuoteMeta("expires_at < NOW() OR (is_revoked = true AND revoked_at < $1)")).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 12))

	n, err := suite.repo.DeleteExpired(suite.context, cutoff)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(12), n)
}
