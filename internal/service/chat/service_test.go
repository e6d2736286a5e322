package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"group_chat_server/internal/dao/mysql/dbtest"
	"group_chat_server/internal/dao/mysql/repository"
	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/dto/respond"
	"group_chat_server/internal/model"
	"group_chat_server/internal/service/authz"
	"group_chat_server/internal/service/notify"
	"group_chat_server/pkg/errorx"
)

type fixture struct {
	repos    *repository.Repositories
	svc      *chatService
	notifier *notify.Recorder
	owner    *model.User
	bob      *model.User
	group    *model.Group
}

func setup(t *testing.T) *fixture {
	t.Helper()
	repos := dbtest.New(t)
	rec := &notify.Recorder{}
	f := &fixture{
		repos:    repos,
		svc:      NewChatService(repos, rec, 2*time.Minute),
		notifier: rec,
		owner:    dbtest.SeedUser(t, repos, "owner"),
		bob:      dbtest.SeedUser(t, repos, "bob"),
	}
	f.group = dbtest.SeedGroup(t, repos, f.owner.ID, "g", 10)
	dbtest.AddMember(t, repos, f.group.ID, f.bob.ID)
	return f
}

func actorOf(u *model.User) authz.Actor {
	return authz.Actor{UserID: u.ID, Role: u.Role}
}

func TestSendMessage(t *testing.T) {
	t.Run("assigns consecutive chat numbers and notifies", func(t *testing.T) {
		f := setup(t)
		clientNo := uint(99)

		first, err := f.svc.SendMessage(actorOf(f.bob), f.group.ID, request.SendChatRequest{Content: "one", ChatNo: &clientNo})
		require.NoError(t, err)
		second, err := f.svc.SendMessage(actorOf(f.owner), f.group.ID, request.SendChatRequest{Content: "two", SenderName: "boss"})
		require.NoError(t, err)

		assert.Equal(t, uint(1), first.ChatNo, "client chat_no is ignored")
		assert.Equal(t, uint(2), second.ChatNo)
		assert.Equal(t, "bob", first.SenderName)
		assert.Equal(t, "boss", second.SenderName)

		events := f.notifier.Events()
		require.Len(t, events, 2)
		assert.Equal(t, notify.KindMessage, events[0].Kind)
		assert.Equal(t, f.group.ID, events[0].GroupID)
		assert.Equal(t, "one", events[0].Data.(respond.ChatMessageRespond).Content)
	})

	t.Run("sender name prefers member nickname", func(t *testing.T) {
		f := setup(t)
		carol := dbtest.SeedUser(t, f.repos, "carol")
		require.NoError(t, f.repos.GroupMember.Create(&model.GroupMember{GroupID: f.group.ID, UserID: carol.ID, Nickname: "cc", Pin: model.Unpinned}))

		msg, err := f.svc.SendMessage(actorOf(carol), f.group.ID, request.SendChatRequest{Content: "x"})
		require.NoError(t, err)
		assert.Equal(t, "cc", msg.SenderName)
	})

	t.Run("non members and unapproved groups are rejected", func(t *testing.T) {
		f := setup(t)
		stranger := dbtest.SeedUser(t, f.repos, "stranger")
		_, err := f.svc.SendMessage(actorOf(stranger), f.group.ID, request.SendChatRequest{Content: "x"})
		assert.True(t, errorx.IsCode(err, errorx.CodeForbidden))

		pending := &model.Group{Name: "p", CreatedByUserID: f.owner.ID, AuditState: model.AuditPending, Pin: model.Unpinned}
		require.NoError(t, f.repos.Group.Create(pending))
		_, err = f.svc.SendMessage(actorOf(f.owner), pending.ID, request.SendChatRequest{Content: "x"})
		assert.True(t, errorx.IsCode(err, errorx.CodeConflict))

		assert.Empty(t, f.notifier.Events())
	})

	t.Run("concurrent senders get unique numbers", func(t *testing.T) {
		f := setup(t)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.svc.SendMessage(actorOf(f.bob), f.group.ID, request.SendChatRequest{Content: "c"})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		list, err := f.svc.ListMessages(actorOf(f.bob), f.group.ID, request.ListChatsQuery{})
		require.NoError(t, err)
		require.Len(t, list, 8)
		for i, m := range list {
			assert.Equal(t, uint(i+1), m.ChatNo)
		}
	})
}

func TestListMessages(t *testing.T) {
	f := setup(t)
	for _, c := range []string{"hello", "world", "hello again"} {
		_, err := f.svc.SendMessage(actorOf(f.bob), f.group.ID, request.SendChatRequest{Content: c})
		require.NoError(t, err)
	}

	list, err := f.svc.ListMessages(actorOf(f.owner), f.group.ID, request.ListChatsQuery{MinChatNo: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "world", list[0].Content)

	list, err = f.svc.ListMessages(actorOf(f.owner), f.group.ID, request.ListChatsQuery{Q: "hello"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	stranger := dbtest.SeedUser(t, f.repos, "stranger")
	_, err = f.svc.ListMessages(actorOf(stranger), f.group.ID, request.ListChatsQuery{})
	assert.True(t, errorx.IsCode(err, errorx.CodeForbidden))

	admin := dbtest.SeedAdmin(t, f.repos, "root")
	_, err = f.svc.ListMessages(actorOf(admin), f.group.ID, request.ListChatsQuery{})
	assert.NoError(t, err)
}

func TestRetractMessage(t *testing.T) {
	seedOld := func(t *testing.T, f *fixture, age time.Duration) *model.ChatMessage {
		msg := &model.ChatMessage{GroupID: f.group.ID, UserID: f.bob.ID, ChatNo: 1, Content: "old", SentAt: time.Now().Add(-age)}
		require.NoError(t, f.repos.ChatMessage.Create(msg))
		return msg
	}

	t.Run("sender is blocked after the window but the owner is not", func(t *testing.T) {
		f := setup(t)
		msg := seedOld(t, f, 3*time.Minute)

		_, err := f.svc.RetractMessage(actorOf(f.bob), f.group.ID, msg.ID)
		assert.True(t, errorx.IsCode(err, errorx.CodeForbidden))

		rsp, err := f.svc.RetractMessage(actorOf(f.owner), f.group.ID, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, msg.ID, rsp.MessageID)

		_, err = f.repos.ChatMessage.FindByID(msg.ID)
		assert.True(t, errorx.IsNotFound(err))

		events := f.notifier.Events()
		require.Len(t, events, 1)
		assert.Equal(t, notify.KindRetracted, events[0].Kind)
	})

	t.Run("sender retracts within the window", func(t *testing.T) {
		f := setup(t)
		msg := seedOld(t, f, 30*time.Second)
		_, err := f.svc.RetractMessage(actorOf(f.bob), f.group.ID, msg.ID)
		assert.NoError(t, err)
	})

	t.Run("other members cannot retract", func(t *testing.T) {
		f := setup(t)
		carol := dbtest.SeedUser(t, f.repos, "carol")
		dbtest.AddMember(t, f.repos, f.group.ID, carol.ID)
		msg := seedOld(t, f, time.Second)

		_, err := f.svc.RetractMessage(actorOf(carol), f.group.ID, msg.ID)
		assert.True(t, errorx.IsCode(err, errorx.CodeForbidden))
	})

	t.Run("retracting the newest message does not free its number", func(t *testing.T) {
		f := setup(t)
		var last *respond.ChatMessageRespond
		for _, c := range []string{"a", "b", "c"} {
			msg, err := f.svc.SendMessage(actorOf(f.bob), f.group.ID, request.SendChatRequest{Content: c})
			require.NoError(t, err)
			last = msg
		}
		require.Equal(t, uint(3), last.ChatNo)
		_, err := f.svc.RetractMessage(actorOf(f.bob), f.group.ID, last.ID)
		require.NoError(t, err)

		next, err := f.svc.SendMessage(actorOf(f.bob), f.group.ID, request.SendChatRequest{Content: "d"})
		require.NoError(t, err)
		assert.Equal(t, uint(4), next.ChatNo)

		list, err := f.svc.ListMessages(actorOf(f.bob), f.group.ID, request.ListChatsQuery{MinChatNo: 3})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "d", list[0].Content)
	})

	t.Run("message from another group is not found", func(t *testing.T) {
		f := setup(t)
		msg := seedOld(t, f, time.Second)
		other := dbtest.SeedGroup(t, f.repos, f.owner.ID, "other", 10)

		_, err := f.svc.RetractMessage(actorOf(f.owner), other.ID, msg.ID)
		assert.True(t, errorx.IsNotFound(err))
	})
}
