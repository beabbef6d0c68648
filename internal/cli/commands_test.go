package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/megaplan/internal/megaplantest"
	"github.com/tansive/megaplan/pkg/megaplan"
	"github.com/tidwall/gjson"
)

// resetFlags restores every flag to its default between command runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	configFile, jsonOutput, config = "", false, nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	return out.String(), err
}

// setup starts a fake account and configures the CLI for it.
func setup(t *testing.T) (*megaplantest.Server, string) {
	t.Helper()
	srv := megaplantest.NewServer()
	t.Cleanup(srv.Close)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	_, err := executeCommand(t, "config", "create", "--config", cfgPath,
		"--host", srv.URL, "--login", megaplantest.DefaultLogin, "--password", megaplantest.DefaultPassword)
	require.NoError(t, err)
	return srv, cfgPath
}

func TestConfigCreateAndRead(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			out, err := executeCommand(t, "config", "create", "--config", path,
				"--account", "acme", "--login", "ivanov", "--password", "{{ .ENV.MP_TEST_PASSWORD }}", "--timeout", "5s")
			require.NoError(t, err)
			assert.Contains(t, out, "acme.megaplan.ru")

			t.Setenv("MP_TEST_PASSWORD", "secret")
			cfg, err := ReadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, ConfigFormatVersion, cfg.Version)
			assert.Equal(t, "acme", cfg.Account)
			assert.Equal(t, "ivanov", cfg.Login)
			assert.Equal(t, "secret", cfg.Password)
			assert.Equal(t, "5s", cfg.Timeout)
		})
	}
}

func TestConfigCreateRequiresAccount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, err := executeCommand(t, "config", "create", "--config", path, "--login", "ivanov")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account or host is required")
	assert.NoFileExists(t, path)
}

func TestReadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unsupported version", "version: 2.0.0\naccount: acme\nlogin: ivanov\n", "unsupported config format version"},
		{"missing login", "version: 0.1.0\naccount: acme\n", "login is required"},
		{"bad timeout", "version: 0.1.0\naccount: acme\nlogin: ivanov\ntimeout: soon\n", "invalid timeout"},
		{"missing variable", "version: 0.1.0\naccount: acme\nlogin: ivanov\npassword: {{ .ENV.MP_SURELY_MISSING }}\n", "missing environment variable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))
			_, err := ReadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigVersionCompatibility(t *testing.T) {
	assert.True(t, IsConfigVersionCompatible("0.1.0"))
	assert.True(t, IsConfigVersionCompatible("0.1.3"))
	assert.False(t, IsConfigVersionCompatible("0.2.0"))
	assert.False(t, IsConfigVersionCompatible("1.0.0"))
	assert.False(t, IsConfigVersionCompatible("latest"))
}

func TestMissingConfig(t *testing.T) {
	_, err := executeCommand(t, "tasks", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config create")
}

func TestTasksStoresSession(t *testing.T) {
	srv, cfgPath := setup(t)
	srv.ReplyData("/BumsTaskApiV01/Task/list.api",
		`{"tasks":[{"Id":1000042,"Name":"Annual report","Status":"assigned","Responsible":{"Id":1000005,"Name":"Ivanov"}}]}`)

	out, err := executeCommand(t, "tasks", "--config", cfgPath, "--status", "overdue", "-j")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.Get(out, "result").Int())
	assert.Equal(t, "Annual report", gjson.Get(out, "value.0.Name").String())

	req, ok := srv.LastRequest()
	require.True(t, ok)
	assert.Contains(t, req.RawQuery, "Status=overdue")

	s, err := ReadSession(sessionPath(cfgPath))
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, megaplan.Access{AccessID: megaplantest.DefaultAccessID, SecretKey: megaplantest.DefaultSecretKey}, s.Access)
	assert.Equal(t, megaplantest.DefaultLogin, s.Login)

	out, err = executeCommand(t, "tasks", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks:")
	assert.Contains(t, out, "Annual report (assigned, Ivanov)")
	assert.Equal(t, 1, srv.Authorizations())
}

func TestStaleSessionIsDropped(t *testing.T) {
	srv, cfgPath := setup(t)
	srv.ReplyData("/BumsTaskApiV01/Severity/list.api", `{"severities":[{"Id":1,"Name":"Normal"}]}`)

	host := srv.Listener.Addr().String()
	require.NoError(t, WriteSession(sessionPath(cfgPath), &Session{
		Host:   host,
		Login:  megaplantest.DefaultLogin,
		Access: megaplan.Access{AccessID: "old", SecretKey: "old"},
	}))

	_, err := executeCommand(t, "severities", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stored session was rejected")
	assert.NoFileExists(t, sessionPath(cfgPath))
	assert.Equal(t, 0, srv.Authorizations())

	out, err := executeCommand(t, "severities", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Normal")
	assert.Equal(t, 1, srv.Authorizations())
}

func TestLoginAndLogout(t *testing.T) {
	srv, cfgPath := setup(t)

	out, err := executeCommand(t, "login", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful")
	assert.FileExists(t, sessionPath(cfgPath))

	_, err = executeCommand(t, "login", "--config", cfgPath, "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
	assert.Equal(t, 2, srv.Authorizations())

	_, err = executeCommand(t, "logout", "--config", cfgPath)
	require.NoError(t, err)
	assert.NoFileExists(t, sessionPath(cfgPath))
}

func TestTaskCreateFromFile(t *testing.T) {
	srv, cfgPath := setup(t)
	srv.ReplyData("/BumsTaskApiV01/Task/create.api", `{"task":{"Id":1000100,"Name":"created"}}`)

	file := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`name: First
responsible: 1000005
---
name: Second
executors: [1000006, 1000007]
`), 0600))

	out, err := executeCommand(t, "task", "create", "--config", cfgPath, "-f", file, "-j")
	require.NoError(t, err)
	assert.Equal(t, int64(1000100), gjson.Get(out, "value.1.Id").Int())

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "First", reqs[0].Form.Get("Model[Name]"))
	assert.Equal(t, "1000005", reqs[0].Form.Get("Model[Responsible]"))
	assert.Equal(t, "Second", reqs[1].Form.Get("Model[Name]"))
}

func TestTaskActionAndCard(t *testing.T) {
	srv, cfgPath := setup(t)
	srv.ReplyData("/BumsTaskApiV01/Task/action.api", `{}`)
	srv.ReplyData("/BumsTaskApiV01/Task/card.api", `{"task":{"Id":1000042,"Name":"Annual report","Statement":"Collect totals"}}`)

	out, err := executeCommand(t, "task", "action", "--config", cfgPath, "1000042", "act_done")
	require.NoError(t, err)
	assert.Contains(t, out, "Task 1000042: act_done")
	req, _ := srv.LastRequest()
	assert.Equal(t, "act_done", req.Form.Get("Action"))

	_, err = executeCommand(t, "task", "action", "--config", cfgPath, "1000042", "act_finish")
	require.ErrorIs(t, err, megaplan.ErrParameter)

	out, err = executeCommand(t, "task", "--config", cfgPath, "1000042")
	require.NoError(t, err)
	assert.Contains(t, out, "Statement: Collect totals")

	_, err = executeCommand(t, "task", "--config", cfgPath, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")
}

func TestCommentWithAttachment(t *testing.T) {
	srv, cfgPath := setup(t)
	srv.ReplyData("/BumsCommonApiV01/Comment/create.api", `{"comment":{"Id":77,"Text":"see file"}}`)

	// PNG signature without an extension in the name
	file := filepath.Join(t.TempDir(), "pixel")
	require.NoError(t, os.WriteFile(file, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"), 0600))

	out, err := executeCommand(t, "comment", "add", "--config", cfgPath, "task", "1000042", "--text", "see file", "--attach", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Comment 77 added")

	req, _ := srv.LastRequest()
	assert.Equal(t, "task", req.Form.Get("SubjectType"))
	assert.Equal(t, "1000042", req.Form.Get("SubjectId"))
	assert.Equal(t, "see file", req.Form.Get("Model[Text]"))
	assert.Equal(t, "pixel.png", req.Form.Get("Model[Attaches][0][Name]"))

	_, err = executeCommand(t, "comment", "add", "--config", cfgPath, "employee", "1000042", "--text", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected task or project")
}

func TestSearchServiceError(t *testing.T) {
	srv, cfgPath := setup(t)
	srv.ReplyError("/BumsCommonApiV01/Search/quick.api", "No results")

	_, err := executeCommand(t, "search", "--config", cfgPath, "nothing", "here")
	var serr *megaplan.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "No results", serr.Message)

	req, _ := srv.LastRequest()
	assert.Equal(t, "nothing here", req.Form.Get("qs"))
}

func TestFavoritesAndNotifications(t *testing.T) {
	srv, cfgPath := setup(t)
	srv.ReplyData("/BumsCommonApiV01/Favorite/list.api", `{"Tasks":[{"Id":1,"Name":"T"}],"Projects":[{"Id":2,"Name":"P"}]}`)
	srv.ReplyData("/BumsCommonApiV01/Favorite/add.api", `{}`)
	srv.ReplyData("/BumsCommonApiV01/Informer/notifications.api",
		`{"notifications":[{"Id":5,"Subject":{"Id":1,"Name":"T","Type":"comment"},"Content":{"Text":"new comment"}}]}`)

	out, err := executeCommand(t, "favorites", "--config", cfgPath, "-j")
	require.NoError(t, err)
	assert.Equal(t, "T", gjson.Get(out, "value.Tasks.0.Name").String())
	assert.Equal(t, "P", gjson.Get(out, "value.Projects.0.Name").String())

	_, err = executeCommand(t, "favorites", "add", "--config", cfgPath, "project", "2")
	require.NoError(t, err)
	req, _ := srv.LastRequest()
	assert.Equal(t, "project", req.Form.Get("SubjectType"))

	out, err = executeCommand(t, "notifications", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "new comment (comment 1 T)")
}
