package clientstate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNewManagerRejectsShortSecret(t *testing.T) {
	_, err := NewManager([]byte("too short"))
	require.Error(t, err)
}

func TestPendingRoundTrip(t *testing.T) {
	m, err := NewManager(testSecret)
	require.NoError(t, err)

	token, err := m.IssuePending("alice@example.com", time.Minute)
	require.NoError(t, err)

	state, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, KindPending, state.Kind)
	assert.Equal(t, "alice@example.com", state.PendingIdentity)
	assert.Empty(t, state.SessionID)
}

func TestSessionRoundTrip(t *testing.T) {
	m, err := NewManager(testSecret)
	require.NoError(t, err)

	token, err := m.IssueSession("alice@example.com", "sid-1", time.Hour)
	require.NoError(t, err)

	state, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, KindSession, state.Kind)
	assert.Equal(t, "alice@example.com", state.Identity)
	assert.Equal(t, "sid-1", state.SessionID)
}

func TestParseRejectsTampering(t *testing.T) {
	m, err := NewManager(testSecret)
	require.NoError(t, err)

	token, err := m.IssueSession("alice@example.com", "sid-1", time.Hour)
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)

	_, err = m.Parse(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsForeignKey(t *testing.T) {
	m1, err := NewManager(testSecret)
	require.NoError(t, err)
	m2, err := NewManager([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	token, err := m1.IssuePending("alice@example.com", time.Minute)
	require.NoError(t, err)

	_, err = m2.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsExpired(t *testing.T) {
	m, err := NewManager(testSecret)
	require.NoError(t, err)

	token, err := m.IssuePending("alice@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsEmptyAndGarbage(t *testing.T) {
	m, err := NewManager(testSecret)
	require.NoError(t, err)

	for _, in := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Parse(in)
		assert.ErrorIs(t, err, ErrTokenInvalid, "input %q", in)
	}
}

func TestParseRejectsWrongShape(t *testing.T) {
	m, err := NewManager(testSecret)
	require.NoError(t, err)

	// A pending token missing its identity is malformed even when signed.
	token, err := m.issue(stateClaims{Kind: string(KindPending)}, time.Minute)
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// Unknown kind.
	token, err = m.issue(stateClaims{Kind: "other", Identity: "alice@example.com"}, time.Minute)
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
