// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows

package main

import (
	"syscall"
)

// freeDiskBytes returns the bytes available to this user on the volume
// holding path.
func freeDiskBytes(path string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, err
	}
	// Bavail, not Bfree: reserved root blocks are not ours.
	return stat.Bavail * uint64(stat.Bsize), nil
}
