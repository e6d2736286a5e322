package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestGroupPatchMerge(t *testing.T) {
	t.Run("newer fields override older ones", func(t *testing.T) {
		older := GroupPatch{Name: strPtr("A"), Note: strPtr("n1")}
		newer := GroupPatch{Note: strPtr("n2"), MemberLimit: intPtr(50)}

		merged := older.Merge(newer)
		require.NotNil(t, merged.Name)
		assert.Equal(t, "A", *merged.Name)
		assert.Equal(t, "n2", *merged.Note)
		assert.Equal(t, 50, *merged.MemberLimit)
		assert.Nil(t, merged.Announce)
	})

	t.Run("merge does not alias the input", func(t *testing.T) {
		newer := GroupPatch{Name: strPtr("B")}
		merged := GroupPatch{}.Merge(newer)
		*newer.Name = "C"
		assert.Equal(t, "B", *merged.Name)
	})
}

func TestGroupPatchApplyTo(t *testing.T) {
	g := &Group{Name: "old", Note: "keep", MemberLimit: 200}
	GroupPatch{Name: strPtr("new"), MemberLimit: intPtr(10)}.ApplyTo(g)

	assert.Equal(t, "new", g.Name)
	assert.Equal(t, "keep", g.Note)
	assert.Equal(t, 10, g.MemberLimit)
}

func TestGroupPatchIsEmpty(t *testing.T) {
	assert.True(t, GroupPatch{}.IsEmpty())
	assert.False(t, GroupPatch{Announce: strPtr("")}.IsEmpty())
}

func patchGen() *rapid.Generator[GroupPatch] {
	optStr := func(label string) *rapid.Generator[*string] {
		return rapid.Custom(func(t *rapid.T) *string {
			if rapid.Bool().Draw(t, label+"_set") {
				s := rapid.StringN(0, 8, -1).Draw(t, label)
				return &s
			}
			return nil
		})
	}
	optInt := func(label string) *rapid.Generator[*int] {
		return rapid.Custom(func(t *rapid.T) *int {
			if rapid.Bool().Draw(t, label+"_set") {
				i := rapid.IntRange(0, 500).Draw(t, label)
				return &i
			}
			return nil
		})
	}
	return rapid.Custom(func(t *rapid.T) GroupPatch {
		return GroupPatch{
			Name:          optStr("name").Draw(t, "name"),
			Note:          optStr("note").Draw(t, "note"),
			Announce:      optStr("announce").Draw(t, "announce"),
			MemberLimit:   optInt("member_limit").Draw(t, "member_limit"),
			AnnounceLimit: optInt("announce_limit").Draw(t, "announce_limit"),
		}
	})
}

func applied(p GroupPatch) Group {
	g := Group{Name: "base", Note: "base", Announce: "base", MemberLimit: 200}
	p.ApplyTo(&g)
	return g
}

// 顺序应用两个补丁等价于应用合并后的补丁
func TestGroupPatchFields(t *testing.T) {
	p := GroupPatch{Note: strPtr(""), MemberLimit: intPtr(10)}
	assert.Equal(t, []string{"note", "member_limit"}, p.Fields())
	assert.Empty(t, GroupPatch{}.Fields())
}

func TestGroupPatchMergeMatchesSequentialApply(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := patchGen().Draw(t, "a")
		b := patchGen().Draw(t, "b")

		g := Group{Name: "base", Note: "base", Announce: "base", MemberLimit: 200}
		a.ApplyTo(&g)
		b.ApplyTo(&g)

		if got := applied(a.Merge(b)); got != g {
			t.Fatalf("merge mismatch: got %+v want %+v", got, g)
		}
	})
}

func TestGroupPatchMergeAssociative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := patchGen().Draw(t, "a")
		b := patchGen().Draw(t, "b")
		c := patchGen().Draw(t, "c")

		left := applied(a.Merge(b).Merge(c))
		right := applied(a.Merge(b.Merge(c)))
		if left != right {
			t.Fatalf("not associative: %+v vs %+v", left, right)
		}
	})
}

func TestAuditState(t *testing.T) {
	assert.True(t, AuditPending.Valid())
	assert.False(t, AuditState("unknown").Valid())
	assert.False(t, AuditPending.IsTerminal())
	assert.True(t, AuditApproved.IsTerminal())
	assert.True(t, AuditRejected.IsTerminal())
}

func TestUserPassword(t *testing.T) {
	u := &User{RawPassword: "secret123"}
	require.NoError(t, u.BeforeSave(nil))

	assert.Empty(t, u.RawPassword)
	assert.NotEqual(t, "secret123", u.Password)
	assert.Equal(t, RoleUser, u.Role)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCreateRequestToGroup(t *testing.T) {
	req := &GroupCreateRequest{Name: "g", CreatedByUserID: 7}
	g := req.ToGroup()
	assert.Equal(t, DefaultMemberLimit, g.MemberLimit)
	assert.Equal(t, AuditApproved, g.AuditState)
	assert.Equal(t, uint(7), g.CreatedByUserID)
	assert.True(t, g.Usable())
}

func TestMemberDisplayName(t *testing.T) {
	m := &GroupMember{}
	assert.Equal(t, "alice", m.DisplayName("alice"))
	m.Nickname = "Al"
	assert.Equal(t, "Al", m.DisplayName("alice"))
}
