package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginCmdRejectsEmptyAccount(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := LoginCmd()
	cmd.SetIn(strings.NewReader("http://127.0.0.1:1\n\n\n"))
	cmd.SetOut(new(strings.Builder))
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "account id is required")
}

func TestLoginCmdUnreachableServer(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := LoginCmd()
	cmd.SetIn(strings.NewReader("http://127.0.0.1:1\n\nacc-1\n"))
	cmd.SetOut(new(strings.Builder))
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestProductsCmdHelpWorks(t *testing.T) {
	cmd := ProductsCmd()
	cmd.SetOut(new(strings.Builder))
	cmd.SetArgs([]string{"--help"})
	assert.NoError(t, cmd.Execute())
}

func TestCommandsNotLoggedInError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	for _, args := range [][]string{{"products"}, {"submit", "--name", "x", "--product", "p1"}} {
		cmd := ProductsCmd()
		if args[0] == "submit" {
			cmd = SubmitCmd()
		}
		cmd.SetArgs(args[1:])
		err := cmd.Execute()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not logged in")
	}
}
