package guard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"group_chat_server/internal/dao/mysql/dbtest"
	"group_chat_server/internal/model"
	"group_chat_server/pkg/errorx"
)

func TestBusy(t *testing.T) {
	assert.NoError(t, Busy(nil))
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(Busy(errorx.Conflict("x"))))
	assert.ErrorIs(t, Busy(errors.New("disk")), errorx.ErrServerBusy)
	assert.ErrorIs(t, Busy(errorx.Wrap(errors.New("io"), errorx.CodeDBError, "db")), errorx.ErrServerBusy)
}

func TestLoaders(t *testing.T) {
	repos := dbtest.New(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)

	t.Run("group", func(t *testing.T) {
		got, err := Group(repos, g.ID)
		require.NoError(t, err)
		assert.Equal(t, "g", got.Name)

		_, err = Group(repos, 999)
		assert.Equal(t, "群不存在", err.Error())
		assert.True(t, errorx.IsNotFound(err))
	})

	t.Run("usable group", func(t *testing.T) {
		pending := &model.Group{Name: "p", CreatedByUserID: owner.ID, AuditState: model.AuditPending, Pin: model.Unpinned}
		require.NoError(t, repos.Group.Create(pending))

		_, err := UsableGroup(repos, pending.ID)
		assert.True(t, errorx.IsCode(err, errorx.CodeConflict))
		_, err = UsableGroup(repos, g.ID)
		assert.NoError(t, err)
	})

	t.Run("membership", func(t *testing.T) {
		m, err := Membership(repos, g.ID, owner.ID)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.True(t, m.IsGroupAdmin)

		m, err = Membership(repos, g.ID, 999)
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("user", func(t *testing.T) {
		_, err := User(repos, 999)
		assert.Equal(t, "用户不存在", err.Error())
	})
}
