package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	ok, err := CheckPassword(hash, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "secret1")
	assert.Error(t, err)
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	tok, claims, err := issuer.Issue(42, RoleTeacher, false)
	require.NoError(t, err)
	require.NotEmpty(t, claims.Id)

	parsed, err := issuer.Parse(tok)
	require.NoError(t, err)

	id, err := parsed.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, RoleTeacher, parsed.Role)
	assert.Equal(t, claims.Id, parsed.Id)
	assert.False(t, parsed.IsAdmin())
	assert.InDelta(t, time.Hour.Seconds(), parsed.ExpiresIn(time.Now()).Seconds(), 5)
}

func TestParseRejects(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	other := NewIssuer("other-secret", time.Hour)
	tok, _, err := other.Issue(1, RoleStudent, false)
	require.NoError(t, err)

	_, err = issuer.Parse(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	expired := NewIssuer("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err = expired.Issue(1, RoleStudent, false)
	require.NoError(t, err)

	_, err = issuer.Parse(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(unsigned)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = issuer.Parse("garbage")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestClaimsIsAdmin(t *testing.T) {
	assert.True(t, (&Claims{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&Claims{Role: RoleStudent, IsStaff: true}).IsAdmin())
	assert.False(t, (&Claims{Role: RoleStudent}).IsAdmin())
}
