package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		spec string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
	}{
		{"x", tcell.KeyRune, 'x', 0},
		{"B", tcell.KeyRune, 'b', 0},
		{"Shift+B", tcell.KeyRune, 'b', 0},
		{"Ctrl+R", tcell.KeyRune, 'r', tcell.ModCtrl},
		{"ctrl+shift+r", tcell.KeyRune, 'r', tcell.ModCtrl},
		{"Alt+1", tcell.KeyRune, '1', tcell.ModAlt},
		{"Win+A", tcell.KeyRune, 'a', tcell.ModMeta},
		{"F5", tcell.KeyF5, 0, 0},
		{"Shift+F1", tcell.KeyF1, 0, tcell.ModShift},
		{"F12", tcell.KeyF12, 0, 0},
		{"PgDn", tcell.KeyPgDn, 0, 0},
		{"Space", tcell.KeyRune, ' ', 0},
		{"Ctrl++", tcell.KeyRune, '+', tcell.ModCtrl},
		{"/", tcell.KeyRune, '/', 0},
	}

	for _, tc := range cases {
		key, r, mod, err := Parse(tc.spec)
		require.NoError(t, err, tc.spec)
		assert.Equal(t, tc.key, key, tc.spec)
		assert.Equal(t, tc.r, r, tc.spec)
		assert.Equal(t, tc.mod, mod, tc.spec)
	}
}

func TestParseErrors(t *testing.T) {
	for _, spec := range []string{"", "  ", "Hyper+x", "F13", "Banana"} {
		assert.Error(t, Validate(spec), spec)
	}
}

func TestCanonicalIDCaseInsensitive(t *testing.T) {
	assert.Equal(t, CanonicalID(tcell.KeyRune, 'a', 0), CanonicalID(tcell.KeyRune, 'A', 0))
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved(tcell.KeyEnter, 0, 0))
	assert.True(t, IsReserved(tcell.KeyRune, 'J', 0))
	assert.True(t, IsReserved(tcell.KeyRune, 'c', tcell.ModCtrl))
	assert.False(t, IsReserved(tcell.KeyRune, 'r', tcell.ModCtrl))
	assert.False(t, IsReserved(tcell.KeyRune, 'x', 0))
	assert.False(t, IsReserved(tcell.KeyEnter, 0, tcell.ModAlt))
}

func TestNormalizeEvent(t *testing.T) {
	key, r, mod := NormalizeEvent(tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl))
	assert.Equal(t, tcell.KeyRune, key)
	assert.Equal(t, 'r', r)
	assert.Equal(t, tcell.ModCtrl, mod)

	key, r, mod = NormalizeEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	assert.Equal(t, tcell.KeyTab, key)
	assert.Zero(t, r)
	assert.Zero(t, mod)

	key, r, mod = NormalizeEvent(tcell.NewEventKey(tcell.KeyRune, 'N', tcell.ModShift))
	assert.Equal(t, tcell.KeyRune, key)
	assert.Equal(t, 'n', r)
	assert.Zero(t, mod)
}

func TestBindingMatches(t *testing.T) {
	refresh := MustBinding("Ctrl+R")
	assert.True(t, refresh.Matches(tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl)))
	assert.False(t, refresh.Matches(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)))

	search := MustBinding("/")
	assert.True(t, search.Matches(tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModNone)))
	assert.Equal(t, "/", search.Label())

	f5 := MustBinding("F5")
	assert.True(t, f5.Matches(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)))

	assert.False(t, Binding{}.Matches(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))

	_, err := NewBinding("Nope+x")
	assert.Error(t, err)
	assert.Panics(t, func() { MustBinding("") })
}
