package common

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FileExist checks if a file or directory exists at filePath.
func FileExist(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// AbsolutePath returns datadir + filename, or filename if it is absolute.
func AbsolutePath(datadir, filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(datadir, filename)
}

// CurrentDir returns the current working directory.
func CurrentDir() (string, error) {
	return os.Getwd()
}

// Now returns timestamp of now in seconds.
func Now() int64 {
	return time.Now().Unix()
}

// NowStr returns now timestamp string in seconds.
func NowStr() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

// NowMilli returns now timestamp in milliseconds.
func NowMilli() int64 {
	return time.Now().UnixNano() / 1e6
}

// NowMilliStr returns now timestamp string in milliseconds.
func NowMilliStr() string {
	return strconv.FormatInt(time.Now().UnixNano()/1e6, 10)
}
