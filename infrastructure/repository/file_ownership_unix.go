//go:build !windows
// +build !windows

package repository

import (
	"fmt"
	"os"
	"syscall"
)

// checkOwnership はファイルの所有者が現在のユーザーであることを確認する
func checkOwnership(info os.FileInfo) error {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	currentUID := uint32(os.Getuid())
	if stat.Uid != currentUID {
		return fmt.Errorf("file is not owned by current user (uid: %d, expected: %d)", stat.Uid, currentUID)
	}
	return nil
}
