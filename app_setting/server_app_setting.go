package app_setting

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defaultListenAddr = ":8080"
	defaultTimezone   = "UTC"
)

// This is the api server setting.
type ServerAppSetting struct {
	// Address the HTTP server listens on, for example ":8080".
	LISTEN_ADDR string `yaml:"LISTEN_ADDR"`
	// Skip Cognito JWT validation and trust the "sub" header as sent. Only for
	// local development.
	BYPASS_AUTH bool `yaml:"BYPASS_AUTH"`
	// Cache friend/attending/invited sets in redis for this many seconds. Zero
	// or negative disables the cache.
	RELATIONSHIP_CACHE_TTL_SECOND int64 `yaml:"RELATIONSHIP_CACHE_TTL_SECOND"`
	// IANA zone event dates and times are entered in.
	EVENT_TIMEZONE string `yaml:"EVENT_TIMEZONE"`
	// DogStatsD agent address. Empty falls back to the STATSD_ADDR env, then
	// to the local agent.
	STATSD_ADDR string `yaml:"STATSD_ADDR"`
}

func ParseServerAppSetting(path string) (ServerAppSetting, error) {
	c := ServerAppSetting{}
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "fail to read setting file "+path)
	}
	if err = yaml.Unmarshal(yamlFile, &c); err != nil {
		return c, errors.Wrap(err, "fail to unmarshal setting file "+path)
	}
	if c.LISTEN_ADDR == "" {
		c.LISTEN_ADDR = defaultListenAddr
	}
	if c.EVENT_TIMEZONE == "" {
		c.EVENT_TIMEZONE = defaultTimezone
	}
	return c, nil
}

func (c ServerAppSetting) EventLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.EVENT_TIMEZONE)
	return loc, errors.Wrap(err, "invalid EVENT_TIMEZONE")
}

func (c ServerAppSetting) RelationshipCacheTTL() time.Duration {
	return time.Duration(c.RELATIONSHIP_CACHE_TTL_SECOND) * time.Second
}
