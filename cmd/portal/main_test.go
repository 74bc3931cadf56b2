package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdaf-zdaf/group-platform/config"
	"github.com/zdaf-zdaf/group-platform/internal/bootstrap"
	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	"github.com/zdaf-zdaf/group-platform/internal/testutil/backend"
)

type cli struct {
	backend *backend.Backend
	ctx     *commandContext
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	b := backend.New(t)
	cfg := config.AppConfig{
		API: config.APIConfig{BaseURL: b.URL()},
		Session: config.SessionConfig{
			Backend:   config.SessionBackendFile,
			Ephemeral: config.EphemeralMemory,
			Dir:       t.TempDir(),
		},
	}
	cfg.Sanitize()

	c := &cli{backend: b, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	portal, err := bootstrap.NewPortal(context.Background(), bootstrap.PortalDeps{
		Config:     &cfg,
		Redirector: cliRedirector{w: c.errOut},
		Notifier:   cliNotifier{w: c.errOut},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = portal.Close() })

	c.ctx = &commandContext{
		Ctx:    context.Background(),
		Logger: bootstrap.InitLogger(config.LogConfig{Level: "error", Format: "text"}, &bytes.Buffer{}),
		Config: cfg,
		Portal: portal,
		In:     strings.NewReader(""),
		Out:    c.out,
		Err:    c.errOut,
	}
	return c
}

// run executes one command and returns its stdout.
func (c *cli) run(t *testing.T, name string, args ...string) (string, error) {
	t.Helper()
	c.out.Reset()
	cmd, ok := commands()[name]
	require.True(t, ok, "unknown command %s", name)
	err := runCommand(context.Background(), cmd, c.ctx, args)
	return c.out.String(), err
}

func (c *cli) login(t *testing.T, username string) {
	t.Helper()
	_, err := c.run(t, "login", "-username", username, "-password", "password")
	require.NoError(t, err)
}

func TestPrintUsageListsCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))
	for name := range commands() {
		assert.Contains(t, buf.String(), name)
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "whoami")
	require.Error(t, err)

	out, err := c.run(t, "login", "-username", "student1", "-query", "role", "-password", "password")
	require.NoError(t, err)
	assert.Equal(t, "student\n", out)

	out, err = c.run(t, "whoami", "-query", "scope")
	require.NoError(t, err)
	assert.Equal(t, "ephemeral\n", out)

	out, err = c.run(t, "whoami", "-remote", "-query", "username")
	require.NoError(t, err)
	assert.Equal(t, "student1\n", out)

	out, err = c.run(t, "logout")
	require.NoError(t, err)
	assert.Equal(t, "signed out\n", out)
	assert.False(t, c.ctx.Portal.Sessions.IsAuthenticated())
}

func TestLoginReadsPasswordFromInput(t *testing.T) {
	c := newCLI(t)
	c.ctx.In = strings.NewReader("password\n")

	_, err := c.run(t, "login", "-username", "teacher1", "-remember")
	require.NoError(t, err)
	assert.True(t, c.ctx.Portal.Sessions.IsTeacher())
	assert.FileExists(t, filepath.Join(c.ctx.Config.Session.Dir, "session.json"))
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "login", "-username", "student1", "-password", "nope")
	require.Error(t, err)
	assert.Equal(t, "用户名或密码错误", err.Error())
}

func TestProfileUpdate(t *testing.T) {
	c := newCLI(t)
	c.login(t, "student1")

	_, err := c.run(t, "profile")
	require.Error(t, err)

	out, err := c.run(t, "profile", "-student-id", "123", "-query", "student_id")
	require.NoError(t, err)
	assert.Equal(t, "123\n", out)
	assert.Contains(t, c.errOut.String(), "个人信息更新成功")
}

func TestNoticesFlow(t *testing.T) {
	c := newCLI(t)
	c.login(t, "teacher1")

	out, err := c.run(t, "notices", "create", "-title", "期中考试", "-content", "周五上午", "-query", "id")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	_, err = c.run(t, "notices", "create", "-title", "上机安排", "-content", "B301")
	require.NoError(t, err)

	out, err = c.run(t, "notices", "list", "-search", "期中", "-query", "[].title")
	require.NoError(t, err)
	var titles []string
	require.NoError(t, json.Unmarshal([]byte(out), &titles))
	assert.Equal(t, []string{"期中考试"}, titles)

	c.login(t, "student1")
	out, err = c.run(t, "notices", "unread", "-query", "count")
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))

	out, err = c.run(t, "notices", "read", id)
	require.NoError(t, err)
	assert.Equal(t, "marked 1 notice(s) as read\n", out)

	out, err = c.run(t, "notices", "read-all")
	require.NoError(t, err)
	assert.Equal(t, "marked 1 notice(s) as read\n", out)
	assert.Zero(t, c.ctx.Portal.Tracker.Count())

	_, err = c.run(t, "notices", "delete", id)
	require.Error(t, err, "students cannot delete notices")
	assert.Contains(t, c.errOut.String(), "权限不足")
}

func TestNoticesUnknownSubcommand(t *testing.T) {
	c := newCLI(t)
	c.login(t, "student1")

	_, err := c.run(t, "notices", "archive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-all")

	_, err = c.run(t, "notices", "get")
	require.ErrorIs(t, err, errMissingID)
}

func TestExpiredSessionRedirects(t *testing.T) {
	c := newCLI(t)
	c.login(t, "student1")
	c.backend.RevokeTokens()

	_, err := c.run(t, "notices", "list")
	require.Error(t, err)
	assert.Contains(t, c.errOut.String(), "登录已过期，请重新登录")
	assert.Contains(t, c.errOut.String(), "portal login")
	assert.False(t, c.ctx.Portal.Sessions.IsAuthenticated())
}

func TestMaterialsUploadAndDownload(t *testing.T) {
	c := newCLI(t)
	c.login(t, "teacher1")

	dir := t.TempDir()
	src := filepath.Join(dir, "lecture1.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.7 lecture"), 0o600))

	out, err := c.run(t, "materials", "upload", "-title", "第一讲", "-type", "pdf", "-file", src, "-query", "id")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	dest := t.TempDir()
	out, err = c.run(t, "materials", "download", "-dir", dest, id)
	require.NoError(t, err)
	assert.Contains(t, out, "lecture1.pdf")

	data, err := os.ReadFile(filepath.Join(dest, "lecture1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 lecture", string(data))

	_, err = c.run(t, "materials", "delete", id)
	require.NoError(t, err)
	_, err = c.run(t, "materials", "download", "-dir", dest, id)
	require.Error(t, err)
}

func TestSetsAndSubmissions(t *testing.T) {
	c := newCLI(t)
	c.login(t, "teacher1")

	doc := filepath.Join(t.TempDir(), "set.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{
		"title": "实验一",
		"deadline": "2026-11-01T23:59:00Z",
		"students": [],
		"questions": [{"type": "choice", "prompt": "1+1=?", "correct_answer": "2", "score": 5, "order": 1}]
	}`), 0o600))

	out, err := c.run(t, "sets", "create", "-file", doc, "-query", "id")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	out, err = c.run(t, "sets", "get", "-query", "questions[0].prompt", id)
	require.NoError(t, err)
	assert.Equal(t, "1+1=?\n", out)

	_, err = c.run(t, "sets", "create")
	require.Error(t, err)

	out, err = c.run(t, "submissions", "-query", "length(@)")
	require.NoError(t, err)
	assert.Equal(t, "0", strings.TrimSpace(out))
}

func TestForumFlow(t *testing.T) {
	c := newCLI(t)
	c.login(t, "student1")

	out, err := c.run(t, "forum", "ask", "-title", "编译报错", "-content", "undefined reference", "-query", "id")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	out, err = c.run(t, "forum", "like", "-query", "likes_count", id)
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(out))

	_, err = c.run(t, "forum", "sticky", id)
	require.Error(t, err)

	_, err = c.run(t, "forum", "comment", "-content", "检查链接顺序", id)
	require.NoError(t, err)

	out, err = c.run(t, "forum", "list", "-query", "[0].comments[0].content")
	require.NoError(t, err)
	assert.Equal(t, "检查链接顺序\n", out)
}

func TestProgressCommands(t *testing.T) {
	c := newCLI(t)
	dir := t.TempDir()

	answers := filepath.Join(dir, "answers.json")
	require.NoError(t, os.WriteFile(answers, []byte(`{"choice":{"1":"B"},"fill":{},"coding":{}}`), 0o600))
	code := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(code, []byte("int main(void) { return 0; }"), 0o600))

	_, err := c.run(t, "progress", "save", "-file", answers, "4")
	require.NoError(t, err)
	out, err := c.run(t, "progress", "show", "-query", "answers.choice.\"1\"", "4")
	require.NoError(t, err)
	assert.Equal(t, "B\n", out)

	_, err = c.run(t, "progress", "code", "-question", "9", "-file", code, "4")
	require.NoError(t, err)
	out, err = c.run(t, "progress", "show", "-question", "9", "-query", "code", "4")
	require.NoError(t, err)
	assert.Equal(t, "int main(void) { return 0; }\n", out)

	_, err = c.run(t, "progress", "clear", "4")
	require.NoError(t, err)
	_, err = c.run(t, "progress", "show", "4")
	require.Error(t, err)
	_, err = c.run(t, "progress", "show", "-question", "9", "4")
	require.NoError(t, err, "clearing answers keeps coding drafts")
}

func TestDashboard(t *testing.T) {
	c := newCLI(t)
	c.backend.AddNotice(backendNotice("欢迎"))
	c.login(t, "student1")

	out, err := c.run(t, "dashboard")
	require.NoError(t, err)

	var d dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "student1", d.User.Username)
	assert.Equal(t, 1, d.Unread)
	require.Len(t, d.Notices, 1)
	assert.Empty(t, d.Sets)
}

func backendNotice(title string) model.Notice {
	return model.Notice{Title: title, Content: title}
}
