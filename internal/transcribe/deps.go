package transcribe

import (
	"io/fs"
	"os"
)

// fileStatter abstracts file metadata lookup for testing.
type fileStatter interface {
	Stat(name string) (fs.FileInfo, error)
}

// fileRemover abstracts file removal for testing.
type fileRemover interface {
	Remove(name string) error
}

type osFileStatter struct{}

func (osFileStatter) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

type osFileRemover struct{}

func (osFileRemover) Remove(name string) error { return os.Remove(name) }
