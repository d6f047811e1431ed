package log

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type File struct {
	file *os.File
	path string
	temp bool
}

// NewLogFile opens the log file given by the flag, or creates a temp file.
// The log file can live outside any managed directory, so it uses the real
// filesystem directly.
func NewLogFile(path string) (*File, error) {
	f := &File{}
	if len(path) == 0 {
		// Generate a unique hash if multiple instances start simultaneously
		randomHash := ``
		randomBytes := make([]byte, 6)
		if _, err := rand.Read(randomBytes); err == nil {
			randomHash = fmt.Sprintf(`-%x`, randomBytes)
		}

		f.path = filepath.Join(os.TempDir(), fmt.Sprintf("range-repair-%d%s.txt", time.Now().Unix(), randomHash))
		f.temp = true // temp log file will be removed, it is preserved only in case of error
	} else {
		if v, err := filepath.Abs(path); err == nil {
			f.path = v
		} else {
			return nil, err
		}
		f.temp = false // log file defined by user will be preserved
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	f.file = file
	return f, nil
}

func (f *File) File() *os.File {
	return f.file
}

func (f *File) Path() string {
	return f.path
}

func (f *File) IsTemp() bool {
	return f.temp
}

// TearDown closes the file and removes it when it is a temp file and the
// run ended without an error.
func (f *File) TearDown(errorOccurred bool) error {
	if f == nil {
		return nil
	}

	if err := f.file.Close(); err != nil {
		return fmt.Errorf("cannot close log file \"%s\": %s", f.path, err)
	}

	if !errorOccurred && f.temp {
		if err := os.Remove(f.path); err != nil {
			return fmt.Errorf("cannot remove temp log file \"%s\": %s", f.path, err)
		}
	}
	return nil
}
