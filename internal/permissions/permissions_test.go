package permissions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	set, err := Parse([]byte(`{"players":["view","edit","fly","view"],"reports":["approve"]}`))
	require.NoError(t, err)

	assert.True(t, set.Can(Players, View))
	assert.True(t, set.Can(Players, Edit))
	assert.False(t, set.Can(Players, Delete))
	assert.True(t, set.Can(Reports, Approve))
	assert.Len(t, set[Players], 2)
	assert.False(t, set.Can(Players, Action("fly")))
}

func TestParseEmpty(t *testing.T) {
	for _, raw := range []string{"", "null"} {
		set, err := Parse([]byte(raw))
		require.NoError(t, err)
		assert.True(t, set.Empty())
	}

	_, err := Parse([]byte(`{"players":`))
	assert.Error(t, err)
}

func TestMarshalIsSorted(t *testing.T) {
	set := Set{}
	set.Grant(Players, View)
	set.Grant(Players, Create)
	set.Grant(Clubs, Delete)

	raw, err := set.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"clubs":["delete"],"players":["create","view"]}`, string(raw))
}

func TestKeys(t *testing.T) {
	set := Set{}
	set.Grant(Reports, Approve)
	set.Grant(Players, Edit)
	set.Grant(Players, View)

	assert.Equal(t, []string{"players:view", "players:edit", "reports:approve"}, set.Keys())
	assert.Empty(t, Set{}.Keys())
}

func TestAll(t *testing.T) {
	all := All()
	for _, r := range Resources {
		for _, a := range Actions {
			assert.True(t, all.Can(r, a), "%s:%s", r, a)
		}
	}
	assert.True(t, all.Has("settings", "edit"))
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{"admin", "scout_manager", "super_admin", "viewer"}, reg.Names())
	assert.True(t, reg.Get(RoleSuperAdmin).All)

	viewer := reg.Defaults("viewer")
	assert.True(t, viewer.Can(Players, View))
	assert.False(t, viewer.Can(Players, Create))

	admin := reg.Defaults("admin")
	assert.True(t, admin.Can(Reports, Approve))
	assert.False(t, admin.Can(Admins, View))
}

func TestEffective(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	stored := Set{Players: {View}}

	t.Run("super admin ignores stored set", func(t *testing.T) {
		eff := reg.Effective(RoleSuperAdmin, stored)
		assert.True(t, eff.Can(Admins, Delete))
	})

	t.Run("stored set wins for regular roles", func(t *testing.T) {
		eff := reg.Effective("admin", stored)
		assert.True(t, eff.Can(Players, View))
		assert.False(t, eff.Can(Players, Create))
	})

	t.Run("empty stored set falls back to preset", func(t *testing.T) {
		eff := reg.Effective("admin", Set{})
		assert.True(t, eff.Can(Players, Create))
	})

	t.Run("unknown role uses stored set", func(t *testing.T) {
		eff := reg.Effective("ghost", stored)
		assert.True(t, eff.Can(Players, View))
		assert.False(t, eff.Can(Clubs, View))
	})
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.toml")
	content := `
[roles.intern]
description = "Reads players"
[roles.intern.permissions]
players = ["view"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"intern"}, reg.Names())
	assert.True(t, reg.Defaults("intern").Can(Players, View))

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Decode([]byte(`title = "no roles"`))
	assert.Error(t, err)
}
