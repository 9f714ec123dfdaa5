package meshconv

import (
	"bufio"
	"io"
	"strings"
)

// lineReader yields the lines of a stream one at a time, like bufio.Scanner,
// but with no limit on line length.
type lineReader struct {
	br   *bufio.Reader
	line string
	n    int
	err  error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReader(r)}
}

// Next advances to the next line. It returns false at the end of the stream
// or on a read error; Err tells them apart.
func (l *lineReader) Next() bool {
	if l.err != nil {
		return false
	}

	s, err := l.br.ReadString('\n')
	if err != nil {
		l.err = err
		if err != io.EOF || s == "" {
			return false
		}
	}

	l.n++
	l.line = strings.TrimRight(s, "\r\n")
	return true
}

// Text is the current line without its line ending.
func (l *lineReader) Text() string {
	return l.line
}

// Line is the 1-based number of the current line.
func (l *lineReader) Line() int {
	return l.n
}

func (l *lineReader) Err() error {
	if l.err == io.EOF {
		return nil
	}
	return l.err
}
