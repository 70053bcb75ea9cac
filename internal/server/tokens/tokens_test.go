package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensillabs/teamspace/internal/common"
)

func newTestIssuer() *Issuer {
	return NewIssuer([]byte("test-secret"), time.Hour, 2*time.Hour)
}

func TestIssueAccess_ParseAccess(t *testing.T) {
	i := newTestIssuer()

	token, err := i.IssueAccess("user-1")
	require.NoError(t, err)

	userID, err := i.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestIssueRefresh_ParseRefresh(t *testing.T) {
	i := newTestIssuer()

	token, err := i.IssueRefresh("user-1")
	require.NoError(t, err)

	userID, err := i.ParseRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestParseRefresh_RejectsAccessToken(t *testing.T) {
	i := newTestIssuer()

	token, err := i.IssueAccess("user-1")
	require.NoError(t, err)

	_, err = i.ParseRefresh(token)
	assert.ErrorIs(t, err, common.ErrInvalidTokenKind)
}

func TestParseAccess_RejectsRefreshToken(t *testing.T) {
	i := newTestIssuer()

	token, err := i.IssueRefresh("user-1")
	require.NoError(t, err)

	_, err = i.ParseAccess(token)
	assert.ErrorIs(t, err, common.ErrInvalidTokenKind)
}

func TestParse_GarbledToken(t *testing.T) {
	i := newTestIssuer()

	_, err := i.ParseAccess("definitely.not.a.jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_WrongSecret(t *testing.T) {
	i := newTestIssuer()
	other := NewIssuer([]byte("other-secret"), time.Hour, 2*time.Hour)

	token, err := i.IssueAccess("user-1")
	require.NoError(t, err)

	_, err = other.ParseAccess(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseRefresh_Expired(t *testing.T) {
	i := NewIssuer([]byte("test-secret"), time.Hour, -time.Minute)

	token, err := i.IssueRefresh("user-1")
	require.NoError(t, err)

	_, err = i.ParseRefresh(token)
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestParseAccess_Expired(t *testing.T) {
	i := NewIssuer([]byte("test-secret"), -time.Minute, time.Hour)

	token, err := i.IssueAccess("user-1")
	require.NoError(t, err)

	_, err = i.ParseAccess(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
