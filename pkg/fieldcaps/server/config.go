// SPDX-License-Identifier: Apache-2.0

package server

import "time"

type Config struct {
	// Address for the HTTP server to listen on. Defaults to ":7030".
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const (
	defaultAddress      = ":7030"
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

func (c *Config) address() string {
	if c.Address != "" {
		return c.Address
	}
	return defaultAddress
}

func (c *Config) readTimeout() time.Duration {
	if c.ReadTimeout > 0 {
		return c.ReadTimeout
	}
	return defaultReadTimeout
}

func (c *Config) writeTimeout() time.Duration {
	if c.WriteTimeout > 0 {
		return c.WriteTimeout
	}
	return defaultWriteTimeout
}
