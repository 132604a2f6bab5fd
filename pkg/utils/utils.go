package utils

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
)

func Fatal(v any) {
	fmt.Fprintf(os.Stderr, "linkres: fatal: %v\n", v)
	os.Exit(1)
}

func MustNo(err error) {
	if err != nil {
		Fatal(err)
	}
}

// ELF inputs are little endian
func Read[T any](content []byte, val *T) error {
	reader := bytes.NewReader(content)
	return binary.Read(reader, binary.LittleEndian, val)
}

func Write[T any](content []byte, val T) {
	buf := &bytes.Buffer{}
	err := binary.Write(buf, binary.LittleEndian, val)
	MustNo(err)
	copy(content, buf.Bytes())
}

func ReadSlice[T any](content []byte, size int) ([]T, error) {
	if size <= 0 || len(content)%size != 0 {
		return nil, fmt.Errorf("slice of %d bytes is not a multiple of %d", len(content), size)
	}
	ret := make([]T, 0, len(content)/size)
	for len(content) > 0 {
		var ele T
		if err := Read[T](content, &ele); err != nil {
			return nil, err
		}
		ret = append(ret, ele)
		content = content[size:]
	}
	return ret, nil
}

// o => -o
// plugin => -plugin, --plugin
func AddDashes(option string) []string {
	res := []string{}

	if len(option) == 1 {
		res = append(res, "-"+option)
	} else {
		res = append(res, "-"+option, "--"+option)
	}

	return res
}

// align must be a power of two, 0 is treated as 1
func AlignTo(val, align uint64) uint64 {
	if align == 0 {
		return val
	}
	return (val + align - 1) &^ (align - 1)
}

func RemovePrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
