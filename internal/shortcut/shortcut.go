package shortcut

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

const DEFAULT_FILE_NAME = "Launch UDS Terminal.bat"

// BatchShortcut writes a Windows batch file starting the program with the
// interpreter, from the folder the batch file lives in.
type BatchShortcut struct {
	Interpreter string
	FileName    string
	// Target operating system, runtime.GOOS when empty
	GOOS string
}

func NewBatchShortcut(interpreter string) *BatchShortcut {
	return &BatchShortcut{
		Interpreter: interpreter,
		FileName:    DEFAULT_FILE_NAME,
		GOOS:        runtime.GOOS,
	}
}

// Content returns the batch file body for program.
func (b *BatchShortcut) Content(program string) string {
	return fmt.Sprintf("@echo off\r\n\"%s\" \"%%~dp0%s\"\r\npause\r\n", b.Interpreter, program)
}

// Write creates the batch file in dir. Outside Windows nothing is written and
// the returned path is empty.
func (b *BatchShortcut) Write(dir string, program string) (shortcutPath string, err error) {
	goos := b.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos != "windows" {
		logrus.Debugf("Skipping launcher shortcut on %s", goos)
		return
	}

	fileName := b.FileName
	if fileName == "" {
		fileName = DEFAULT_FILE_NAME
	}
	shortcutPath = filepath.Join(dir, fileName)
	if err = os.WriteFile(shortcutPath, []byte(b.Content(program)), 0644); err != nil {
		return "", err
	}
	logrus.Infof("Launcher shortcut written to %s", shortcutPath)
	return
}
