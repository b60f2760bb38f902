package main

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/Debian/bytesize/internal/humanbytes"
	"github.com/dustin/go-humanize"
)

// formatCount formats arg, an exact decimal number of bytes.
func formatCount(arg string) (string, error) {
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid byte count %q: %v", arg, err)
	}
	return humanbytes.Format(n), nil
}

// parseSize returns the exact number of bytes arg denotes.
func (i *invocation) parseSize(arg string) (string, error) {
	n, err := humanbytes.Parse(arg)
	if err != nil {
		return "", err
	}
	i.V().Printf("%q is %d bytes (%s)", arg, uint64(n), n)
	if i.commas {
		// humanize.Comma takes an int64, which cannot hold every ByteSize.
		return humanize.BigComma(new(big.Int).SetUint64(uint64(n))), nil
	}
	return strconv.FormatUint(uint64(n), 10), nil
}
