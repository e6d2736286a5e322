package audit

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"group_chat_server/internal/model"
	"group_chat_server/pkg/errorx"
)

var states = []model.AuditState{model.AuditPending, model.AuditApproved, model.AuditRejected}
var actions = []Action{Approve, Reject}

func TestTransitionTable(t *testing.T) {
	strict := Policy{}

	next, err := strict.Transition(model.AuditPending, Approve)
	require.NoError(t, err)
	assert.Equal(t, model.AuditApproved, next)

	next, err = strict.Transition(model.AuditPending, Reject)
	require.NoError(t, err)
	assert.Equal(t, model.AuditRejected, next)

	_, err = strict.Transition(model.AuditApproved, Reject)
	assert.ErrorIs(t, err, errorx.ErrAlreadyDecided)

	_, err = strict.Transition(model.AuditPending, Action("maybe"))
	assert.Equal(t, errorx.CodeValidation, errorx.GetCode(err))
}

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Action{"approve": Approve, "Approved": Approve, " reject ": Reject, "rejected": Reject} {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseAction("delete")
	assert.Equal(t, errorx.CodeValidation, errorx.GetCode(err))
}

func TestParseState(t *testing.T) {
	s, err := ParseState("")
	require.NoError(t, err)
	assert.Empty(t, s)

	s, err = ParseState("Pending")
	require.NoError(t, err)
	assert.Equal(t, model.AuditPending, s)

	_, err = ParseState("done")
	assert.Error(t, err)
}

// 状态机性质：结果一定是动作的目标态，或者是拒绝重审
func TestTransitionProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("pending always moves to the action target", prop.ForAll(
		func(ai int, allow bool) bool {
			a := actions[ai]
			next, err := Policy{AllowReaudit: allow}.Transition(model.AuditPending, a)
			return err == nil && next == a.Target() && next.IsTerminal()
		},
		gen.IntRange(0, len(actions)-1),
		gen.Bool(),
	))

	properties.Property("terminal states are sticky unless re-audit is allowed", prop.ForAll(
		func(si, ai int, allow bool) bool {
			cur, a := states[si], actions[ai]
			next, err := Policy{AllowReaudit: allow}.Transition(cur, a)
			if !cur.IsTerminal() || allow {
				return err == nil && next == a.Target()
			}
			return errors.Is(err, errorx.ErrAlreadyDecided) && next == cur
		},
		gen.IntRange(0, len(states)-1),
		gen.IntRange(0, len(actions)-1),
		gen.Bool(),
	))

	properties.Property("result is always a valid state", prop.ForAll(
		func(si, ai int, allow bool) bool {
			next, _ := Policy{AllowReaudit: allow}.Transition(states[si], actions[ai])
			return next.Valid()
		},
		gen.IntRange(0, len(states)-1),
		gen.IntRange(0, len(actions)-1),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
