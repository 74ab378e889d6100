package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// rotatingWriter is an io.Writer that rolls the log file over once it grows
// past maxSize bytes, keeping up to maxBackups older files (advisor.log.1,
// advisor.log.2, ...).
type rotatingWriter struct {
	filename   string
	maxSize    int64
	maxBackups int

	mu   sync.Mutex
	file *os.File
	size int64
}

// Setup points the standard logger at stdout plus a size-rotated file.
// If the file cannot be opened, logging continues on stdout alone.
func Setup(filename string, maxSizeMB int64, maxBackups int) {
	rw := &rotatingWriter{
		filename:   filename,
		maxSize:    maxSizeMB * 1024 * 1024,
		maxBackups: maxBackups,
	}
	if err := rw.open(); err != nil {
		log.Printf("Failed to open log file %s, using stdout only: %v", filename, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rw))
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func (w *rotatingWriter) open() error {
	f, err := os.OpenFile(w.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	w.file = f
	w.size = info.Size()
	return nil
}

// Write satisfies io.Writer, rotating first when the entry would overflow.
func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.open(); err != nil {
			return 0, err
		}
	}

	if w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			// Keep writing to the oversized file rather than drop logs.
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// rotate shifts advisor.log.N → advisor.log.N+1, the live file to .1, and
// reopens a fresh file.
func (w *rotatingWriter) rotate() error {
	if w.file != nil {
		w.file.Close()
		w.file = nil
	}

	for i := w.maxBackups - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", w.filename, i)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		os.Rename(src, fmt.Sprintf("%s.%d", w.filename, i+1))
	}
	if _, err := os.Stat(w.filename); err == nil {
		os.Rename(w.filename, w.filename+".1")
	}

	f, err := os.OpenFile(w.filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	w.file = f
	w.size = 0
	return nil
}
