package member

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"group_chat_server/internal/dao/mysql/dbtest"
	"group_chat_server/internal/dao/mysql/repository"
	myredis "group_chat_server/internal/dao/redis"
	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/infrastructure/worker"
	"group_chat_server/internal/model"
	"group_chat_server/internal/service/audit"
	"group_chat_server/internal/service/authz"
	"group_chat_server/pkg/errorx"
)

func setup(t *testing.T) (*repository.Repositories, *memberService) {
	t.Helper()
	repos := dbtest.New(t)
	return repos, NewMemberService(repos, myredis.NewNoopCache(worker.SyncSubmitter{}), audit.Policy{})
}

func actorOf(u *model.User) authz.Actor {
	return authz.Actor{UserID: u.ID, Role: u.Role}
}

func approve() request.AuditRequest { return request.AuditRequest{Action: "approve"} }

func boolPtr(b bool) *bool { return &b }
func uintPtr(u uint) *uint { return &u }

func TestSubmitJoinRequest(t *testing.T) {
	repos, svc := setup(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	bob := dbtest.SeedUser(t, repos, "bob")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)

	t.Run("unapproved group rejects join requests", func(t *testing.T) {
		pending := &model.Group{Name: "p", CreatedByUserID: owner.ID, AuditState: model.AuditPending, Pin: model.Unpinned}
		require.NoError(t, repos.Group.Create(pending))

		_, err := svc.SubmitJoinRequest(actorOf(bob), pending.ID, request.JoinGroupRequest{})
		assert.True(t, errorx.IsCode(err, errorx.CodeConflict))
	})

	t.Run("member cannot apply again", func(t *testing.T) {
		_, err := svc.SubmitJoinRequest(actorOf(owner), g.ID, request.JoinGroupRequest{})
		assert.True(t, errorx.IsCode(err, errorx.CodeConflict))
	})

	t.Run("second pending request is a conflict", func(t *testing.T) {
		rsp, err := svc.SubmitJoinRequest(actorOf(bob), g.ID, request.JoinGroupRequest{Reason: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "pending", rsp.AuditState)

		_, err = svc.SubmitJoinRequest(actorOf(bob), g.ID, request.JoinGroupRequest{})
		assert.True(t, errorx.IsCode(err, errorx.CodeConflict))

		list, err := repos.JoinRequest.List(g.ID, model.AuditPending, repository.Page{})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := svc.SubmitJoinRequest(actorOf(bob), 404, request.JoinGroupRequest{})
		assert.True(t, errorx.IsNotFound(err))
	})
}

func TestAuditJoinRequest(t *testing.T) {
	t.Run("capacity is enforced at approval time", func(t *testing.T) {
		repos, svc := setup(t)
		a := dbtest.SeedUser(t, repos, "a")
		b := dbtest.SeedUser(t, repos, "b")
		g := dbtest.SeedGroup(t, repos, a.ID, "solo", 1)

		req, err := svc.SubmitJoinRequest(actorOf(b), g.ID, request.JoinGroupRequest{})
		require.NoError(t, err)

		_, err = svc.AuditJoinRequest(actorOf(a), req.ID, approve())
		assert.True(t, errorx.IsCode(err, errorx.CodeCapacity))

		count, err := repos.GroupMember.Count(g.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		stored, err := repos.JoinRequest.FindByID(req.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AuditPending, stored.AuditState)
	})

	t.Run("approval creates member with username as default nickname", func(t *testing.T) {
		repos, svc := setup(t)
		owner := dbtest.SeedUser(t, repos, "owner")
		bob := dbtest.SeedUser(t, repos, "bob")
		g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
		req, err := svc.SubmitJoinRequest(actorOf(bob), g.ID, request.JoinGroupRequest{})
		require.NoError(t, err)

		rsp, err := svc.AuditJoinRequest(actorOf(owner), req.ID, approve())
		require.NoError(t, err)
		require.NotNil(t, rsp.Member)
		assert.Equal(t, "bob", rsp.Member.Nickname)

		m, err := repos.GroupMember.Find(g.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", m.Nickname)
		assert.False(t, m.IsGroupAdmin)

		_, err = svc.AuditJoinRequest(actorOf(owner), req.ID, approve())
		assert.ErrorIs(t, err, errorx.ErrAlreadyDecided)
	})

	t.Run("only moderators may audit", func(t *testing.T) {
		repos, svc := setup(t)
		owner := dbtest.SeedUser(t, repos, "owner")
		helper := dbtest.SeedUser(t, repos, "helper")
		plain := dbtest.SeedUser(t, repos, "plain")
		bob := dbtest.SeedUser(t, repos, "bob")
		g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
		dbtest.AddMember(t, repos, g.ID, plain.ID)
		dbtest.AddMember(t, repos, g.ID, helper.ID)
		require.NoError(t, repos.GroupMember.SetAdmin(g.ID, helper.ID, true))
		req, err := svc.SubmitJoinRequest(actorOf(bob), g.ID, request.JoinGroupRequest{})
		require.NoError(t, err)

		_, err = svc.AuditJoinRequest(actorOf(plain), req.ID, approve())
		assert.True(t, errorx.IsCode(err, errorx.CodeForbidden))

		_, err = svc.AuditJoinRequest(actorOf(helper), req.ID, approve())
		assert.NoError(t, err)
	})

	t.Run("membership gained elsewhere is a conflict", func(t *testing.T) {
		repos, svc := setup(t)
		owner := dbtest.SeedUser(t, repos, "owner")
		bob := dbtest.SeedUser(t, repos, "bob")
		g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
		req, err := svc.SubmitJoinRequest(actorOf(bob), g.ID, request.JoinGroupRequest{})
		require.NoError(t, err)
		dbtest.AddMember(t, repos, g.ID, bob.ID)

		_, err = svc.AuditJoinRequest(actorOf(owner), req.ID, approve())
		assert.True(t, errorx.IsCode(err, errorx.CodeConflict))
	})

	t.Run("rejection deletes the request", func(t *testing.T) {
		repos, svc := setup(t)
		owner := dbtest.SeedUser(t, repos, "owner")
		bob := dbtest.SeedUser(t, repos, "bob")
		g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
		req, err := svc.SubmitJoinRequest(actorOf(bob), g.ID, request.JoinGroupRequest{})
		require.NoError(t, err)

		rsp, err := svc.AuditJoinRequest(actorOf(owner), req.ID, request.AuditRequest{Action: "rejected"})
		require.NoError(t, err)
		assert.True(t, rsp.Deleted)
		_, err = repos.JoinRequest.FindByID(req.ID)
		assert.True(t, errorx.IsNotFound(err))

		_, err = svc.SubmitJoinRequest(actorOf(bob), g.ID, request.JoinGroupRequest{})
		assert.NoError(t, err, "a fresh request is allowed after rejection")
	})

	t.Run("group lock precedes every plain read", func(t *testing.T) {
		db := dbtest.Open(t)
		repos := repository.NewRepositories(db)
		svc := NewMemberService(repos, myredis.NewNoopCache(worker.SyncSubmitter{}), audit.Policy{})
		owner := dbtest.SeedUser(t, repos, "owner")
		bob := dbtest.SeedUser(t, repos, "bob")
		g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
		req, err := svc.SubmitJoinRequest(actorOf(bob), g.ID, request.JoinGroupRequest{})
		require.NoError(t, err)

		var stmts []string
		record := func(tx *gorm.DB) { stmts = append(stmts, tx.Statement.SQL.String()) }
		require.NoError(t, db.Callback().Query().After("gorm:query").Register("order:query", record))
		require.NoError(t, db.Callback().Update().After("gorm:update").Register("order:update", record))

		_, err = svc.AuditJoinRequest(actorOf(owner), req.ID, approve())
		require.NoError(t, err)

		require.GreaterOrEqual(t, len(stmts), 3)
		assert.Contains(t, stmts[0], "group_join_request")
		assert.True(t, strings.HasPrefix(stmts[1], "UPDATE"), stmts[1])
		assert.Contains(t, stmts[1], "group_info")
	})

	t.Run("concurrent approvals never exceed the limit", func(t *testing.T) {
		repos, svc := setup(t)
		owner := dbtest.SeedUser(t, repos, "owner")
		g := dbtest.SeedGroup(t, repos, owner.ID, "g", 3)

		var ids []uint
		for _, name := range []string{"u1", "u2", "u3", "u4", "u5"} {
			u := dbtest.SeedUser(t, repos, name)
			req, err := svc.SubmitJoinRequest(actorOf(u), g.ID, request.JoinGroupRequest{})
			require.NoError(t, err)
			ids = append(ids, req.ID)
		}

		var wg sync.WaitGroup
		errs := make([]error, len(ids))
		for i, id := range ids {
			wg.Add(1)
			go func(i int, id uint) {
				defer wg.Done()
				_, errs[i] = svc.AuditJoinRequest(actorOf(owner), id, approve())
			}(i, id)
		}
		wg.Wait()

		var ok, full int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errorx.IsCode(err, errorx.CodeCapacity):
				full++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 2, ok)
		assert.Equal(t, 3, full)
		count, err := repos.GroupMember.Count(g.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestListAndSearchMembers(t *testing.T) {
	repos, svc := setup(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	bob := dbtest.SeedUser(t, repos, "bob")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
	require.NoError(t, repos.GroupMember.Create(&model.GroupMember{GroupID: g.ID, UserID: bob.ID, Nickname: "bobby", Pin: model.Unpinned}))
	require.NoError(t, repos.Report.Create(&model.Report{UserID: owner.ID, ReportContent: "x", ReportedUserID: &bob.ID, AuditState: model.AuditApproved}))

	list, err := svc.ListMembers(g.ID, request.PageQuery{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "owner", list[0].Nickname, "empty nickname falls back to username")
	assert.True(t, list[0].IsOwner)
	assert.Equal(t, "bobby", list[1].Nickname)
	assert.Equal(t, int64(1), list[1].ApprovedReportCount)

	found, err := svc.SearchMembers(g.ID, request.SearchMembersQuery{Q: "bobb"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, bob.ID, found[0].UserID)

	_, err = svc.ListMembers(404, request.PageQuery{})
	assert.True(t, errorx.IsNotFound(err))
}

func TestSetMemberAdmin(t *testing.T) {
	repos, svc := setup(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	bob := dbtest.SeedUser(t, repos, "bob")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
	dbtest.AddMember(t, repos, g.ID, bob.ID)

	require.NoError(t, svc.SetMemberAdmin(actorOf(owner), g.ID, bob.ID, request.SetMemberAdminRequest{IsGroupAdmin: boolPtr(true)}))
	m, err := repos.GroupMember.Find(g.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, m.IsGroupAdmin)

	err = svc.SetMemberAdmin(actorOf(bob), g.ID, bob.ID, request.SetMemberAdminRequest{IsGroupAdmin: boolPtr(false)})
	assert.True(t, errorx.IsCode(err, errorx.CodeForbidden), "group admins cannot manage admin flags")

	err = svc.SetMemberAdmin(actorOf(owner), g.ID, owner.ID, request.SetMemberAdminRequest{IsGroupAdmin: boolPtr(false)})
	assert.True(t, errorx.IsCode(err, errorx.CodeConflict))

	err = svc.SetMemberAdmin(actorOf(owner), g.ID, 404, request.SetMemberAdminRequest{IsGroupAdmin: boolPtr(true)})
	assert.True(t, errorx.IsNotFound(err))
}

func TestRemoveMember(t *testing.T) {
	repos, svc := setup(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	bob := dbtest.SeedUser(t, repos, "bob")
	carol := dbtest.SeedUser(t, repos, "carol")
	admin := dbtest.SeedAdmin(t, repos, "root")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
	dbtest.AddMember(t, repos, g.ID, bob.ID)
	dbtest.AddMember(t, repos, g.ID, carol.ID)

	t.Run("owner cannot be removed", func(t *testing.T) {
		err := svc.RemoveMember(actorOf(admin), g.ID, owner.ID)
		assert.True(t, errorx.IsCode(err, errorx.CodeConflict))
	})

	t.Run("other members cannot remove each other", func(t *testing.T) {
		err := svc.RemoveMember(actorOf(bob), g.ID, carol.ID)
		assert.True(t, errorx.IsCode(err, errorx.CodeForbidden))
	})

	t.Run("self removal", func(t *testing.T) {
		require.NoError(t, svc.RemoveMember(actorOf(bob), g.ID, bob.ID))
		_, err := repos.GroupMember.Find(g.ID, bob.ID)
		assert.True(t, errorx.IsNotFound(err))
	})

	t.Run("owner removes a member", func(t *testing.T) {
		require.NoError(t, svc.RemoveMember(actorOf(owner), g.ID, carol.ID))
		err := svc.RemoveMember(actorOf(owner), g.ID, carol.ID)
		assert.True(t, errorx.IsNotFound(err))
	})
}

func TestTransferOwnership(t *testing.T) {
	repos, svc := setup(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	bob := dbtest.SeedUser(t, repos, "bob")
	stranger := dbtest.SeedUser(t, repos, "stranger")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
	dbtest.AddMember(t, repos, g.ID, bob.ID)

	err := svc.TransferOwnership(actorOf(bob), g.ID, request.TransferOwnershipRequest{NewOwnerUserID: bob.ID})
	assert.True(t, errorx.IsCode(err, errorx.CodeForbidden))

	err = svc.TransferOwnership(actorOf(owner), g.ID, request.TransferOwnershipRequest{NewOwnerUserID: stranger.ID})
	assert.True(t, errorx.IsNotFound(err))

	require.NoError(t, svc.TransferOwnership(actorOf(owner), g.ID, request.TransferOwnershipRequest{NewOwnerUserID: bob.ID}))

	stored, err := repos.Group.FindByID(g.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, stored.CreatedByUserID)
	newOwner, err := repos.GroupMember.Find(g.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, newOwner.IsGroupAdmin)
	former, err := repos.GroupMember.Find(g.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, former.IsGroupAdmin)
}

func TestQuitGroup(t *testing.T) {
	t.Run("owner must name a new owner", func(t *testing.T) {
		repos, svc := setup(t)
		owner := dbtest.SeedUser(t, repos, "owner")
		bob := dbtest.SeedUser(t, repos, "bob")
		g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
		dbtest.AddMember(t, repos, g.ID, bob.ID)

		err := svc.QuitGroup(actorOf(owner), g.ID, request.QuitGroupRequest{})
		assert.True(t, errorx.IsCode(err, errorx.CodeValidation))

		err = svc.QuitGroup(actorOf(owner), g.ID, request.QuitGroupRequest{NewOwnerUserID: uintPtr(404)})
		assert.True(t, errorx.IsCode(err, errorx.CodeValidation))

		stored, err := repos.Group.FindByID(g.ID)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, stored.CreatedByUserID)
		count, err := repos.GroupMember.Count(g.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("owner quits after handing over", func(t *testing.T) {
		repos, svc := setup(t)
		owner := dbtest.SeedUser(t, repos, "owner")
		bob := dbtest.SeedUser(t, repos, "bob")
		g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
		dbtest.AddMember(t, repos, g.ID, bob.ID)

		require.NoError(t, svc.QuitGroup(actorOf(owner), g.ID, request.QuitGroupRequest{NewOwnerUserID: &bob.ID}))

		stored, err := repos.Group.FindByID(g.ID)
		require.NoError(t, err)
		assert.Equal(t, bob.ID, stored.CreatedByUserID)
		_, err = repos.GroupMember.Find(g.ID, owner.ID)
		assert.True(t, errorx.IsNotFound(err))
	})

	t.Run("non member", func(t *testing.T) {
		repos, svc := setup(t)
		owner := dbtest.SeedUser(t, repos, "owner")
		bob := dbtest.SeedUser(t, repos, "bob")
		g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)

		err := svc.QuitGroup(actorOf(bob), g.ID, request.QuitGroupRequest{})
		assert.True(t, errorx.IsNotFound(err))
	})
}

func TestListJoinRequests(t *testing.T) {
	repos, svc := setup(t)
	owner := dbtest.SeedUser(t, repos, "owner")
	bob := dbtest.SeedUser(t, repos, "bob")
	g := dbtest.SeedGroup(t, repos, owner.ID, "g", 10)
	_, err := svc.SubmitJoinRequest(actorOf(bob), g.ID, request.JoinGroupRequest{})
	require.NoError(t, err)

	list, err := svc.ListJoinRequests(actorOf(owner), g.ID, request.ListJoinRequestsQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bob.ID, list[0].UserID)

	_, err = svc.ListJoinRequests(actorOf(bob), g.ID, request.ListJoinRequestsQuery{})
	assert.True(t, errorx.IsCode(err, errorx.CodeForbidden))
}
