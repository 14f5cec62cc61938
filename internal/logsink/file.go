package logsink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileSink writes one JSON line per check to a rotating file per label,
// <dir>/<label>.log. Each line goes out in a single Write call, so
// concurrent targets cannot interleave within a record.
type FileSink struct {
	dir string

	mu      sync.Mutex
	streams map[string]*stream
}

type stream struct {
	mu sync.Mutex
	w  *lumberjack.Logger
}

func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileSink{
		dir:     dir,
		streams: make(map[string]*stream),
	}, nil
}

func (f *FileSink) Append(label string, rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	s := f.stream(label)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(line)
	return err
}

func (f *FileSink) stream(label string) *stream {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.streams[label]
	if !ok {
		s = &stream{
			w: &lumberjack.Logger{
				Filename:   filepath.Join(f.dir, label+".log"),
				MaxSize:    10, // MB
				MaxBackups: 5,
				MaxAge:     14, // days
				Compress:   true,
			},
		}
		f.streams[label] = s
	}
	return s
}

// Close flushes and closes every open stream.
func (f *FileSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var firstErr error
	for _, s := range f.streams {
		if err := s.w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
