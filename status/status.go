package status

import (
	"fmt"
	"io"
	"math"
	"time"
)

const (
	INFO = iota
	WARN
	ERROR
	PROGRESS
)

var typeNames = [...]string{"info", "warn", "error", "progress"}

type Message struct {
	Text     string
	Time     time.Time
	Type     int
	Progress float32
}

func (m *Message) String() string {
	if m.Type == PROGRESS {
		return fmt.Sprintf("[%3.0f%%] %s", m.Progress*100, m.Text)
	}
	return fmt.Sprintf("[%s] %s", typeNames[m.Type], m.Text)
}

// Stream is the human readable side channel of a run. It is not meant to
// be parsed. A nil *Stream discards everything.
type Stream struct {
	w        io.Writer
	messages [32]*Message
	count    int
}

func New(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (s *Stream) Status(msg string, _type int, progress float32) {
	if s == nil {
		return
	}
	if math.IsNaN(float64(progress)) || math.IsInf(float64(progress), 0) {
		progress = 0
	}
	m := &Message{
		Text:     msg,
		Time:     time.Now(),
		Type:     _type,
		Progress: progress,
	}
	s.messages[s.count%len(s.messages)] = m
	s.count++
	if s.w != nil {
		fmt.Fprintln(s.w, m.String())
	}
}

func (s *Stream) Info(format string, a ...interface{}) {
	s.Status(fmt.Sprintf(format, a...), INFO, 0.0)
}

func (s *Stream) Warn(format string, a ...interface{}) {
	s.Status(fmt.Sprintf(format, a...), WARN, 0.0)
}

func (s *Stream) Error(format string, a ...interface{}) {
	s.Status(fmt.Sprintf(format, a...), ERROR, 0.0)
}

func (s *Stream) Progress(progress float32, format string, a ...interface{}) {
	s.Status(fmt.Sprintf(format, a...), PROGRESS, progress)
}

// Recent returns the retained messages, oldest first.
func (s *Stream) Recent() []Message {
	if s == nil {
		return nil
	}
	n := s.count
	if n > len(s.messages) {
		n = len(s.messages)
	}
	res := make([]Message, 0, n)
	for i := s.count - n; i < s.count; i++ {
		res = append(res, *s.messages[i%len(s.messages)])
	}
	return res
}
