package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_RemainingBlockSeconds(t *testing.T) {
	now := time.Now()
	future := now.Add(60 * time.Second)
	past := now.Add(-time.Second)

	tests := []struct {
		name         string
		blockedUntil *time.Time
		expectNil    bool
		expectSecs   int64
	}{
		{name: "indefinite block", blockedUntil: nil, expectNil: true},
		{name: "deadline in the future", blockedUntil: &future, expectSecs: 60},
		{name: "deadline already elapsed", blockedUntil: &past, expectNil: true},
		{name: "deadline exactly now", blockedUntil: &now, expectNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Status: StatusBlocked, BlockedUntil: tt.blockedUntil}
			secs := u.RemainingBlockSeconds(now)
			if tt.expectNil {
				assert.Nil(t, secs)
			} else {
				assert.NotNil(t, secs)
				assert.Equal(t, tt.expectSecs, *secs)
				assert.GreaterOrEqual(t, *secs, int64(0))
			}
		})
	}
}

func TestRoleAndStatusValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleUser, RoleModerator} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())

	for _, s := range []Status{StatusActive, StatusInactive, StatusPending, StatusBlocked} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("suspended").Valid())
	assert.False(t, Status("").Valid())
}
