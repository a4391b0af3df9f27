package app_setting

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSetting(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseServerAppSetting(t *testing.T) {
	path := writeSetting(t, `
LISTEN_ADDR: ":9090"
BYPASS_AUTH: true
RELATIONSHIP_CACHE_TTL_SECOND: 45
EVENT_TIMEZONE: "America/Los_Angeles"
STATSD_ADDR: "127.0.0.1:8125"
`)
	setting, err := ParseServerAppSetting(path)
	require.Nil(t, err)
	assert.Equal(t, ":9090", setting.LISTEN_ADDR)
	assert.True(t, setting.BYPASS_AUTH)
	assert.Equal(t, 45*time.Second, setting.RelationshipCacheTTL())
	assert.Equal(t, "127.0.0.1:8125", setting.STATSD_ADDR)

	loc, err := setting.EventLocation()
	require.Nil(t, err)
	assert.Equal(t, "America/Los_Angeles", loc.String())
}

func TestParseServerAppSettingDefaults(t *testing.T) {
	setting, err := ParseServerAppSetting(writeSetting(t, "BYPASS_AUTH: false\n"))
	require.Nil(t, err)
	assert.Equal(t, ":8080", setting.LISTEN_ADDR)
	assert.Equal(t, time.Duration(0), setting.RelationshipCacheTTL())
	loc, err := setting.EventLocation()
	require.Nil(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestParseServerAppSettingErrors(t *testing.T) {
	_, err := ParseServerAppSetting(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)

	_, err = ParseServerAppSetting(writeSetting(t, "LISTEN_ADDR: [oops"))
	assert.NotNil(t, err)

	setting, err := ParseServerAppSetting(writeSetting(t, "EVENT_TIMEZONE: Mars/Olympus\n"))
	require.Nil(t, err)
	_, err = setting.EventLocation()
	assert.NotNil(t, err)
}
