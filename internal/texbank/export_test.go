package texbank

import "io"

// SetCreateFile replaces the export file opener until the returned func runs.
func SetCreateFile(fn func(name string) (io.WriteCloser, error)) (restore func()) {
	prev := createFile
	createFile = fn
	return func() { createFile = prev }
}
