package repository_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"group_chat_server/internal/dao/mysql/dbtest"
	"group_chat_server/internal/dao/mysql/repository"
	"group_chat_server/internal/model"
	"group_chat_server/pkg/errorx"
)

func TestUserRepository(t *testing.T) {
	repos := dbtest.New(t)
	alice := dbtest.SeedUser(t, repos, "alice")

	t.Run("find by any identifier", func(t *testing.T) {
		for _, id := range []string{"alice", "alice@test.local", "p-alice"} {
			u, err := repos.User.FindByIdentifier(id)
			require.NoError(t, err)
			assert.Equal(t, alice.ID, u.ID)
		}
	})

	t.Run("password is hashed on create", func(t *testing.T) {
		u, err := repos.User.FindByID(alice.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "secret", u.Password)
		assert.True(t, u.CheckPassword("secret"))
	})

	t.Run("exists by field honours exclusion", func(t *testing.T) {
		taken, err := repos.User.ExistsByField("username", "alice", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repos.User.ExistsByField("username", "alice", alice.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		_, err = repos.User.ExistsByField("password", "x", 0)
		assert.Error(t, err)
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		err := repos.User.Create(&model.User{Username: "alice", Phone: "other", Email: "other@x", RawPassword: "x"})
		assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := repos.User.FindByID(9999)
		assert.True(t, errorx.IsNotFound(err))
	})
}

func TestGroupMemberUniqueness(t *testing.T) {
	repos := dbtest.New(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)

	err := repos.GroupMember.Create(&model.GroupMember{GroupID: g.ID, UserID: owner.ID, Pin: model.Unpinned})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	count, err := repos.GroupMember.Count(g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemberListAndSearch(t *testing.T) {
	repos := dbtest.New(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	bob := dbtest.SeedUser(t, repos, "bob")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
	require.NoError(t, repos.GroupMember.Create(&model.GroupMember{GroupID: g.ID, UserID: bob.ID, Nickname: "bobby", Pin: model.Unpinned}))

	members, err := repos.GroupMember.List(g.ID, repository.Page{})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "owner", members[0].Username)
	assert.Equal(t, "bob", members[1].Username)
	assert.Equal(t, "bobby", members[1].Nickname)

	found, err := repos.GroupMember.Search(g.ID, "bobb")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, bob.ID, found[0].UserID)

	found, err = repos.GroupMember.Search(g.ID, "own")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, owner.ID, found[0].UserID)
}

func TestListMyGroupsOrdering(t *testing.T) {
	repos := dbtest.New(t)
	u := dbtest.SeedUser(t, repos, "u")
	g1 := dbtest.SeedGroup(t, repos, u.ID, "first", 10)
	g2 := dbtest.SeedGroup(t, repos, u.ID, "second", 10)
	g3 := dbtest.SeedGroup(t, repos, u.ID, "third", 10)

	pending := &model.Group{Name: "pending", CreatedByUserID: u.ID, AuditState: model.AuditPending, Pin: model.Unpinned}
	require.NoError(t, repos.Group.Create(pending))
	dbtest.AddMember(t, repos, pending.ID, u.ID)

	require.NoError(t, repos.GroupMember.SetPin(g1.ID, u.ID, model.Pinned))

	rows, err := repos.GroupMember.ListMyGroups(u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, g1.ID, rows[0].ID)
	assert.Equal(t, model.Pinned, rows[0].MemberPin)
	assert.True(t, rows[0].IsGroupAdmin)
	assert.Equal(t, g3.ID, rows[1].ID)
	assert.Equal(t, g2.ID, rows[2].ID)
}

func TestTransactionRollsBack(t *testing.T) {
	repos := dbtest.New(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)

	boom := errors.New("boom")
	err := repos.Transaction(func(tx *repository.Repositories) error {
		require.NoError(t, tx.GroupMember.DeleteByGroup(g.ID))
		require.NoError(t, tx.Group.Delete(g.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.Group.FindByID(g.ID)
	assert.NoError(t, err)
	count, err := repos.GroupMember.Count(g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestChatMessageSequence(t *testing.T) {
	repos := dbtest.New(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)

	for i := uint(1); i <= 3; i++ {
		no, err := repos.Group.NextChatNo(g.ID)
		require.NoError(t, err)
		assert.Equal(t, i, no)
		require.NoError(t, repos.ChatMessage.Create(&model.ChatMessage{
			GroupID: g.ID, UserID: owner.ID, ChatNo: no, Content: "hello", SentAt: time.Now(),
		}))
	}

	t.Run("counter survives deleting the newest message", func(t *testing.T) {
		msgs, err := repos.ChatMessage.List(repository.ChatFilter{GroupID: g.ID, MinChatNo: 3}, repository.Page{})
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.NoError(t, repos.ChatMessage.Delete(msgs[0].ID))

		no, err := repos.Group.NextChatNo(g.ID)
		require.NoError(t, err)
		assert.Equal(t, uint(4), no)
		require.NoError(t, repos.ChatMessage.Create(&model.ChatMessage{
			GroupID: g.ID, UserID: owner.ID, ChatNo: no, Content: "again", SentAt: time.Now(),
		}))
	})

	t.Run("saving a stale group keeps the counter", func(t *testing.T) {
		stale, err := repos.Group.FindByID(g.ID)
		require.NoError(t, err)
		_, err = repos.Group.NextChatNo(g.ID)
		require.NoError(t, err)
		stale.Note = "edited"
		require.NoError(t, repos.Group.Save(stale))

		fresh, err := repos.Group.FindByID(g.ID)
		require.NoError(t, err)
		assert.Equal(t, uint(5), fresh.LastChatNo)
		assert.Equal(t, "edited", fresh.Note)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := repos.Group.NextChatNo(9999)
		assert.True(t, errorx.IsNotFound(err))
	})

	err := repos.ChatMessage.Create(&model.ChatMessage{GroupID: g.ID, UserID: owner.ID, ChatNo: 2, Content: "dup", SentAt: time.Now()})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	msgs, err := repos.ChatMessage.List(repository.ChatFilter{GroupID: g.ID, MinChatNo: 2}, repository.Page{})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, uint(2), msgs[0].ChatNo)
}

func TestReportCountsAndCascade(t *testing.T) {
	repos := dbtest.New(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	bob := dbtest.SeedUser(t, repos, "bob")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)

	msg := &model.ChatMessage{GroupID: g.ID, UserID: bob.ID, ChatNo: 1, Content: "spam", SentAt: time.Now()}
	require.NoError(t, repos.ChatMessage.Create(msg))

	reports := []*model.Report{
		{UserID: owner.ID, ReportContent: "a", ReportedUserID: &bob.ID, AuditState: model.AuditApproved},
		{UserID: owner.ID, ReportContent: "b", ReportedUserID: &bob.ID, AuditState: model.AuditPending},
		{UserID: bob.ID, ReportContent: "c", GroupID: &g.ID, AuditState: model.AuditApproved},
		{UserID: owner.ID, ReportContent: "d", ChatMessageID: &msg.ID, AuditState: model.AuditPending},
	}
	for _, r := range reports {
		require.NoError(t, repos.Report.Create(r))
	}

	counts, err := repos.Report.CountApprovedByUsers([]uint{bob.ID, owner.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[bob.ID])
	assert.Zero(t, counts[owner.ID])

	groupCount, err := repos.Report.CountApprovedByGroup(g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), groupCount)

	require.NoError(t, repos.Report.DeleteByGroup(g.ID))
	left, err := repos.Report.List(repository.ReportFilter{}, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, left, 2)

	require.NoError(t, repos.Report.DeleteByUser(bob.ID))
	left, err = repos.Report.List(repository.ReportFilter{}, repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestUpdateRequestPatchColumns(t *testing.T) {
	repos := dbtest.New(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)

	name := "X"
	req := &model.GroupUpdateRequest{
		GroupID:           g.ID,
		RequestedByUserID: owner.ID,
		GroupPatch:        model.GroupPatch{Name: &name},
		AuditState:        model.AuditPending,
	}
	require.NoError(t, repos.UpdateRequest.Create(req))

	got, err := repos.UpdateRequest.FindPendingByGroup(g.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GroupPatch.Name)
	assert.Equal(t, "X", *got.GroupPatch.Name)
	assert.Nil(t, got.GroupPatch.Note)

	_, err = repos.UpdateRequest.FindPendingByGroup(g.ID + 1)
	assert.True(t, errorx.IsNotFound(err))
}

func TestPageBounds(t *testing.T) {
	repos := dbtest.New(t)
	for _, name := range []string{"a", "b", "c"} {
		dbtest.SeedUser(t, repos, name)
	}
	users, err := repos.User.List("", repository.Page{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "b", users[0].Username)

	users, err = repos.User.List("", repository.Page{Skip: -5, Limit: 0})
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestJoinRequestLockingRead(t *testing.T) {
	t.Run("mysql renders FOR UPDATE", func(t *testing.T) {
		db, err := gorm.Open(gormmysql.New(gormmysql.Config{
			DSN:                       "chat:chat@tcp(127.0.0.1:3306)/chat?parseTime=true",
			SkipInitializeWithVersion: true,
		}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
		require.NoError(t, err)

		var stmts []string
		require.NoError(t, db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
			stmts = append(stmts, tx.Statement.SQL.String())
		}))
		_, _ = repository.NewRepositories(db).JoinRequest.FindByIDForUpdate(7)

		require.Len(t, stmts, 1)
		assert.Contains(t, stmts[0], "group_join_request")
		assert.True(t, strings.HasSuffix(stmts[0], "FOR UPDATE"), stmts[0])
	})

	t.Run("sqlite reads the row inside a transaction", func(t *testing.T) {
		repos := dbtest.New(t)
		owner := dbtest.SeedUser(t, repos, "owner")
		g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
		req := &model.GroupJoinRequest{GroupID: g.ID, UserID: 42, AuditState: model.AuditPending}
		require.NoError(t, repos.JoinRequest.Create(req))

		err := repos.Transaction(func(txRepos *repository.Repositories) error {
			got, err := txRepos.JoinRequest.FindByIDForUpdate(req.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, uint(42), got.UserID)
			return nil
		})
		require.NoError(t, err)

		_, err = repos.JoinRequest.FindByIDForUpdate(999)
		assert.True(t, errorx.IsNotFound(err))
	})
}
