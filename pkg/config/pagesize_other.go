//go:build !unix

package config

func hostPageSize() uint64 {
	return 4096
}
