package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnnyMorganz/luau/internal/config"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/i18n"
)

// fixture 临时目录中的配置与源文件
type fixture struct {
	t      *testing.T
	dir    string
	config string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	i18n.SetLanguage(i18n.LangEnglish)
	errors.SetColorsEnabled(false)

	dir := t.TempDir()
	f := &fixture{t: t, dir: dir, config: filepath.Join(dir, config.FileName)}
	require.NoError(t, config.Default().Save(f.config))
	return f
}

func (f *fixture) file(name, content string) string {
	path := filepath.Join(f.dir, name)
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run 执行命令，返回标准输出、标准错误与错误
func (f *fixture) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--config", f.config}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScanLang(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"check", "a.luau"}, ""},
		{[]string{"--lang", "zh", "check"}, "zh"},
		{[]string{"check", "--lang=en"}, "en"},
		{[]string{"-lang=zh_CN.UTF-8"}, "zh_CN.UTF-8"},
		{[]string{"--lang"}, ""},
		{[]string{"check", "--", "--lang=zh"}, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scanLang(tt.args), "args %v", tt.args)
	}
}

func TestTranspileRoundTrip(t *testing.T) {
	f := newFixture(t)
	source := "local  x : number =  1 -- comment\nreturn x\n"
	path := f.file("a.luau", "local  x : number =  1\nreturn x\n")

	out, _, err := f.run("transpile", path)
	require.NoError(t, err)
	assert.Equal(t, "local  x : number =  1\nreturn x\n", out)

	// 注释不会被保留，其余字节都在原位
	path = f.file("c.luau", source)
	out, _, err = f.run("transpile", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "local  x : number =  1"), out)
	assert.True(t, strings.HasSuffix(out, "\nreturn x\n"), out)
}

func TestTranspileStripsTypes(t *testing.T) {
	f := newFixture(t)
	path := f.file("a.luau", "local x: number = 1")

	out, _, err := f.run("transpile", "--types=false", path)
	require.NoError(t, err)
	assert.Equal(t, "local x         = 1", out)
}

func TestTranspileUsesConfig(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	cfg.Transpile.WithTypes = false
	require.NoError(t, cfg.Save(f.config))
	path := f.file("a.luau", "local x: number = 1")

	out, _, err := f.run("transpile", path)
	require.NoError(t, err)
	assert.Equal(t, "local x         = 1", out)

	// 命令行参数优先于配置
	out, _, err = f.run("transpile", "--types", path)
	require.NoError(t, err)
	assert.Equal(t, "local x: number = 1", out)
}

func TestTranspileCanonical(t *testing.T) {
	f := newFixture(t)
	path := f.file("a.luau", "t = {1, 2; 3}")

	out, _, err := f.run("transpile", "--canonical", path)
	require.NoError(t, err)
	assert.Equal(t, "t = {1, 2, 3}", out)
}

func TestTranspileDiff(t *testing.T) {
	f := newFixture(t)
	path := f.file("a.luau", "t = {1, 2; 3}")

	out, _, err := f.run("transpile", "--canonical", "--diff", path)
	require.NoError(t, err)
	assert.Contains(t, out, "-t = {1, 2; 3}")
	assert.Contains(t, out, "+t = {1, 2, 3}")

	out, stderr, err := f.run("transpile", "--diff", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, path+": no changes")
}

func TestTranspileOutputFile(t *testing.T) {
	f := newFixture(t)
	path := f.file("a.luau", "print('hello')")
	target := filepath.Join(f.dir, "out.luau")

	out, _, err := f.run("transpile", "-o", target, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "print('hello')", string(data))
}

func TestTranspileSyntaxError(t *testing.T) {
	f := newFixture(t)
	path := f.file("bad.luau", "local = 1")

	out, stderr, err := f.run("transpile", path)
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "error[E0001]")
	assert.Contains(t, stderr, path+":1:7")
	assert.Contains(t, stderr, "1 | local = 1")
}

func TestTranspileMissingFile(t *testing.T) {
	f := newFixture(t)
	missing := filepath.Join(f.dir, "missing.luau")

	_, _, err := f.run("transpile", missing)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "reading "+missing), err.Error())
}

func TestCheck(t *testing.T) {
	f := newFixture(t)
	good := f.file("good.luau", "local x = 1")
	bad := f.file("bad.luau", "do\n")

	out, stderr, err := f.run("check", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax errors found")
	assert.Contains(t, out, "✓ "+good+": syntax OK")
	assert.NotContains(t, out, bad)
	assert.Contains(t, stderr, "error[E0002]")
	assert.Contains(t, stderr, "error(s) found")

	out, _, err = f.run("check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "syntax OK")
}

func TestCheckContinuesAfterReadError(t *testing.T) {
	f := newFixture(t)
	good := f.file("good.luau", "return")
	missing := filepath.Join(f.dir, "missing.luau")

	out, _, err := f.run("check", missing, good)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading "+missing)
	assert.Contains(t, out, good+": syntax OK")
}

func TestInit(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "nested.toml")

	var stdout bytes.Buffer
	run := func(args ...string) error {
		stdout.Reset()
		cmd := newRootCmd()
		cmd.SetArgs(args)
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})
		return cmd.Execute()
	}

	require.NoError(t, run("--config", path, "init"))
	assert.Contains(t, stdout.String(), "wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	err = run("--config", path, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, run("--config", path, "init", "--force"))
}

func TestInitIgnoresBrokenConfig(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.config, []byte("[transpile]\nunknown = 1\n"), 0644))

	_, _, err := f.run("check", f.file("a.luau", "return"))
	require.Error(t, err)

	_, _, err = f.run("init", "--force")
	require.NoError(t, err)

	_, err = config.Load(f.config)
	assert.NoError(t, err)
}

func TestLspCommand(t *testing.T) {
	f := newFixture(t)

	body := `{"jsonrpc":"2.0","id":1,"method":"shutdown"}`
	exit := `{"jsonrpc":"2.0","method":"exit"}`
	input := "Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body +
		"Content-Length: " + strconv.Itoa(len(exit)) + "\r\n\r\n" + exit

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", f.config, "lsp"})
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(stdout.String(), "Content-Length: "), stdout.String())
	assert.Contains(t, stdout.String(), `"id":1`)
	assert.Contains(t, stdout.String(), `"result":null`)
}

func TestLanguageFlag(t *testing.T) {
	f := newFixture(t)
	bad := f.file("bad.luau", "do\n")

	_, _, err := f.run("--lang", "zh", "check", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "发现语法错误")
	i18n.SetLanguage(i18n.LangEnglish)
}
