package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/foomo/cairn/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	confComplete = `
---
output: archives
useragent: cairn-bot
timeout: 30s
proxy: socks5://127.0.0.1:1080
disablejs: true
disablecss: false
disableembeds: true
disablemedias: true
concurrency: 4
respectrobots: true
pushgateway: http://localhost:9091
...
`
	confMinimal = `
---
disablecss: true
...
`
)

func TestLoad(t *testing.T) {
	cnf, errCnf := Load([]byte(confComplete))
	require.NoError(t, errCnf)
	assert.Equal(t, "archives", cnf.Output)
	assert.Equal(t, 4, cnf.Concurrency)
	assert.True(t, cnf.RespectRobots)
	assert.Equal(t, "http://localhost:9091", cnf.Pushgateway)
	assert.Equal(t, vo.Options{
		DisableJS:     true,
		DisableEmbeds: true,
		DisableMedias: true,
		UserAgent:     "cairn-bot",
		Timeout:       30 * time.Second,
		Proxy:         "socks5://127.0.0.1:1080",
	}, cnf.Options())

	cnf, errCnf = Load([]byte(confMinimal))
	require.NoError(t, errCnf)
	assert.True(t, cnf.DisableCSS)
	assert.Equal(t, DefaultUserAgent, cnf.UserAgent)
	assert.Equal(t, DefaultTimeout, cnf.Timeout)
	assert.Equal(t, DefaultConcurrency, cnf.Concurrency)

	_, errCnf = Load([]byte("timeout: -1s"))
	assert.ErrorIs(t, errCnf, ErrInvalidTimeout)
	_, errCnf = Load([]byte("concurrency: [1"))
	assert.Error(t, errCnf)

	cnf, errCnf = Load([]byte("concurrency: 0"))
	require.NoError(t, errCnf)
	assert.Equal(t, 1, cnf.Concurrency)
}

func TestGet(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "cairn.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(confComplete), 0o600))
	cnf, errCnf := Get(filename)
	require.NoError(t, errCnf)
	assert.Equal(t, "cairn-bot", cnf.UserAgent)

	_, errCnf = Get(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, errCnf)
}
