package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestIssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager("super-secret", 7*24*time.Hour, WithClock(clock.Now))
	id := uuid.New()

	raw, expiresAt, err := m.Issue(id, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(7*24*time.Hour), expiresAt)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, id, claims.AccountID())
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestVerify_ExpiredAfterSevenDays(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager("super-secret", 7*24*time.Hour, WithClock(clock.Now))

	raw, _, err := m.Issue(uuid.New(), "USER")
	require.NoError(t, err)

	clock.Advance(7*24*time.Hour - time.Minute)
	_, err = m.Verify(raw)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	raw, _, err := NewManager("right-secret", time.Hour).Issue(uuid.New(), "USER")
	require.NoError(t, err)

	_, err = NewManager("wrong-secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_TamperedPayload(t *testing.T) {
	m := NewManager("secret", time.Hour)
	userRaw, _, err := m.Issue(uuid.New(), "USER")
	require.NoError(t, err)
	adminRaw, _, err := m.Issue(uuid.New(), "ADMIN")
	require.NoError(t, err)

	// splice the admin payload onto the user signature
	u := strings.Split(userRaw, ".")
	a := strings.Split(adminRaw, ".")
	forged := strings.Join([]string{u[0], a[1], u[2]}, ".")

	_, err = m.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "ADMIN",
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	_, err := NewManager("secret", time.Hour).Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMissingSecret(t *testing.T) {
	m := NewManager("", time.Hour)
	assert.False(t, m.Configured())

	_, _, err := m.Issue(uuid.New(), "USER")
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = m.Verify("whatever")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
