package console

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexforge/scriptstudio/internal/scripting"
)

func newTestConsole(t *testing.T) *Console {
	t.Helper()
	engine := scripting.NewEngine(context.Background(), io.Discard, scripting.NewLogger(nil, 100))
	return New(engine)
}

func TestWordStart(t *testing.T) {
	cases := []struct {
		text   string
		cursor int
		want   int
	}{
		{"", 0, 0},
		{"foo", 3, 0},
		{"foo.bar", 7, 4},
		{"foo.bar", 4, 4},
		{"x = foo", 7, 4},
		{"a+b", 3, 2},
		{"under_score", 11, 0},
		{"num123", 6, 0},
	}
	for _, tc := range cases {
		if got := WordStart(tc.text, tc.cursor); got != tc.want {
			t.Errorf("WordStart(%q, %d): expected %d, got %d", tc.text, tc.cursor, tc.want, got)
		}
	}
}

func TestPathPrefix(t *testing.T) {
	cases := []struct {
		text   string
		cursor int
		want   string
	}{
		{"", 0, ""},
		{"foo", 3, "foo"},
		{"foo.ba", 6, "foo.ba"},
		{"x = foo.bar.", 12, "foo.bar."},
		{"print(api.me", 12, "api.me"},
		{"1 + 2", 5, "2"},
	}
	for _, tc := range cases {
		if got := PathPrefix(tc.text, tc.cursor); got != tc.want {
			t.Errorf("PathPrefix(%q, %d): expected %q, got %q", tc.text, tc.cursor, tc.want, got)
		}
	}
}

func TestInsertReplacesTrailingIdentifierOnly(t *testing.T) {
	text, cursor := Insert("foo.ba", 6, "bar")
	assert.Equal(t, "foo.bar", text)
	assert.Equal(t, 7, cursor)

	text, cursor = Insert("x = api.me + 1", 12, "member")
	assert.Equal(t, "x = api.member + 1", text)
	assert.Equal(t, 14, cursor)

	// Empty partial after a dot: candidate is appended.
	text, cursor = Insert("foo.", 4, "bar")
	assert.Equal(t, "foo.bar", text)
	assert.Equal(t, 7, cursor)
}

func execBuffer(t *testing.T, c *Console, src string) {
	t.Helper()
	c.SetBuffer(src)
	require.NoError(t, c.Execute())
}

func TestCompleteAgainstEngineGlobals(t *testing.T) {
	c := newTestConsole(t)
	execBuffer(t, c, `var game = {player: {health: 10, heal: 1}, pause: false};`)

	got := c.Complete("game.player.he", 14)
	assert.Equal(t, []string{"heal", "health"}, got)
}

func TestCompleteSingleCandidateQueuesInsert(t *testing.T) {
	c := newTestConsole(t)
	execBuffer(t, c, `var game = {player: 1, pause: false};`)

	got := c.Complete("game.pl", 7)
	require.Equal(t, []string{"player"}, got)

	pending, ok := c.TakePendingInsert()
	require.True(t, ok)
	assert.Equal(t, "player", pending)

	// Taking consumes the queued candidate.
	_, ok = c.TakePendingInsert()
	assert.False(t, ok)
}

func TestCompleteMultipleCandidatesDoNotQueue(t *testing.T) {
	c := newTestConsole(t)
	execBuffer(t, c, `var game = {park: 1, pause: false};`)

	got := c.Complete("game.pa", 7)
	require.Equal(t, []string{"park", "pause"}, got)

	_, ok := c.TakePendingInsert()
	assert.False(t, ok)
}

func TestAcceptCompletionUniqueCandidate(t *testing.T) {
	c := newTestConsole(t)
	execBuffer(t, c, `var game = {player: 1, pause: false};`)

	remainder, ok := c.AcceptCompletion("game.pl", 7)
	require.True(t, ok)
	assert.Equal(t, "ayer", remainder, "only the untyped tail is inserted")
}

func TestAcceptCompletionAfterDot(t *testing.T) {
	c := newTestConsole(t)
	execBuffer(t, c, `var api = {unique: 1};`)

	remainder, ok := c.AcceptCompletion("api.uni", 7)
	require.True(t, ok)
	assert.Equal(t, "que", remainder)
}

func TestAcceptCompletionAmbiguousClearsPending(t *testing.T) {
	c := newTestConsole(t)
	execBuffer(t, c, `var game = {park: 1, pause: false};`)

	// Queue a candidate, then widen to an ambiguous prefix.
	require.Equal(t, []string{"park"}, c.Complete("game.park", 9))

	_, ok := c.AcceptCompletion("game.pa", 7)
	assert.False(t, ok)

	_, ok = c.TakePendingInsert()
	assert.False(t, ok, "stale queued candidate must be dropped")
}

func TestAcceptCompletionNoCandidates(t *testing.T) {
	c := newTestConsole(t)
	_, ok := c.AcceptCompletion("nothing.he", 10)
	assert.False(t, ok)
}

func TestCompleteEmptyPrefix(t *testing.T) {
	c := newTestConsole(t)
	assert.Empty(t, c.Complete("1 + ", 4))
}

func TestEvalLine(t *testing.T) {
	c := newTestConsole(t)

	out, err := c.EvalLine("6 * 7")
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	out, err = c.EvalLine("var x = 1;")
	require.NoError(t, err)
	assert.Equal(t, "", out, "undefined displays as empty")

	_, err = c.EvalLine("nope.nope")
	assert.Error(t, err)
}

func TestExecuteErrorIsLogged(t *testing.T) {
	c := newTestConsole(t)
	c.SetBuffer("throw new Error('kaput')")
	require.Error(t, c.Execute())

	log := c.RecentLog(5)
	assert.Contains(t, log, "kaput")
}
