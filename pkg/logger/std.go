package logger

import (
	"io"
	"os"
)

func isStdStream(w io.Writer) bool {
	return w == os.Stdout || w == os.Stderr
}
