package config

import (
	"errors"
	"os"
	"time"

	"github.com/foomo/cairn"
	"github.com/foomo/cairn/vo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultUserAgent   = cairn.DefaultUserAgent
	DefaultTimeout     = cairn.DefaultTimeout
	DefaultConcurrency = 2
)

var ErrInvalidTimeout = errors.New("timeout must not be negative")

type Config struct {
	Output        string
	UserAgent     string
	Timeout       time.Duration
	Proxy         string
	DisableJS     bool
	DisableCSS    bool
	DisableEmbeds bool
	DisableMedias bool
	Concurrency   int
	RespectRobots bool
	Pushgateway   string
}

func Default() *Config {
	return &Config{
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
	}
}

func Load(yamlBytes []byte) (conf *Config, err error) {
	conf = Default()
	errUnmarshal := yaml.Unmarshal(yamlBytes, conf)
	if errUnmarshal != nil {
		return nil, errUnmarshal
	}
	if conf.Timeout < 0 {
		return nil, ErrInvalidTimeout
	}
	if conf.Timeout == 0 {
		conf.Timeout = DefaultTimeout
	}
	if conf.Concurrency < 1 {
		conf.Concurrency = 1
	}
	if conf.UserAgent == "" {
		conf.UserAgent = DefaultUserAgent
	}
	return conf, nil
}

func Get(filename string) (conf *Config, err error) {
	yamlBytes, errRead := os.ReadFile(filename)
	if errRead != nil {
		return nil, errRead
	}
	return Load(yamlBytes)
}

// Options is the snapshot one capture works with.
func (c *Config) Options() vo.Options {
	return vo.Options{
		DisableJS:     c.DisableJS,
		DisableCSS:    c.DisableCSS,
		DisableEmbeds: c.DisableEmbeds,
		DisableMedias: c.DisableMedias,
		UserAgent:     c.UserAgent,
		Timeout:       c.Timeout,
		Proxy:         c.Proxy,
	}
}
