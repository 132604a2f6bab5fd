//go:build unix

package config

import "golang.org/x/sys/unix"

func hostPageSize() uint64 {
	return uint64(unix.Getpagesize())
}
