package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/adapters/auth"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate", "token"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	serve, _, _ := root.Find([]string{"serve"})
	assert.NotNil(t, serve.Flags().Lookup("skip-migrations"))
}

func TestTokenCmd_IssuesVerifiableToken(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("JWT_SECRET", "cli-secret")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--user", "user-9", "--email", "grace@example.com", "--name", "Grace"})
	require.NoError(t, root.Execute())

	identity, err := auth.NewJWT("cli-secret").Verify(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "user-9", identity.UserID)
	assert.Equal(t, "grace@example.com", identity.Email)
	assert.Equal(t, "Grace", identity.Name)
}

func TestTokenCmd_RequiresUser(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token"})
	assert.Error(t, root.Execute())
}

func TestMigrateCmd_RejectsUnknownAction(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "sideways"})
	assert.Error(t, root.Execute())
}
