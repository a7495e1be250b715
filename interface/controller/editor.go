package controller

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openInExternalEditor は指定されたファイルを外部エディタで開く
func openInExternalEditor(filePath string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		// -t でデフォルトのテキストエディタを使う
		cmd = exec.Command("open", "-t", filePath)
	case "linux":
		cmd = exec.Command("xdg-open", filePath)
	case "windows":
		cmd = exec.Command("notepad", filePath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	// エディタは独立して動作するので終了を待たない
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}
