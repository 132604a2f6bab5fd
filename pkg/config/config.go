// Package config reads linker defaults from the environment.
package config

import (
	"fmt"
	"strconv"

	"github.com/xyproto/env/v2"
)

const (
	EnvImageBase = "LINKRES_IMAGE_BASE"
	EnvPageSize  = "LINKRES_PAGE_SIZE"
	EnvJobs      = "LINKRES_JOBS"
	EnvVerbose   = "LINKRES_VERBOSE"
	EnvLogJSON   = "LINKRES_LOG_JSON"
)

type Config struct {
	ImageBase uint64
	PageSize  uint64
	Jobs      int
	Verbose   bool
	LogJSON   bool
}

func FromEnv() (Config, error) {
	c := Config{
		Jobs:    env.Int(EnvJobs, 4),
		Verbose: env.Bool(EnvVerbose),
		LogJSON: env.Bool(EnvLogJSON),
	}

	var err error
	c.ImageBase, err = strconv.ParseUint(env.Str(EnvImageBase, "0x400000"), 0, 64)
	if err != nil {
		return c, fmt.Errorf("%s: %w", EnvImageBase, err)
	}

	c.PageSize = hostPageSize()
	if s := env.Str(EnvPageSize); s != "" {
		c.PageSize, err = strconv.ParseUint(s, 0, 64)
		if err != nil {
			return c, fmt.Errorf("%s: %w", EnvPageSize, err)
		}
	}
	if c.PageSize == 0 || c.PageSize&(c.PageSize-1) != 0 {
		return c, fmt.Errorf("%s: %d is not a power of two", EnvPageSize, c.PageSize)
	}
	if c.Jobs < 1 {
		c.Jobs = 1
	}
	return c, nil
}
