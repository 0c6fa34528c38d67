package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. maxLines
// <= 0 returns every line. A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	return ReadMatching(path, maxLines, "")
}

// ReadMatching is Read restricted to lines containing token. An empty token
// matches every line.
func ReadMatching(path string, maxLines int, token string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var tail ring
	tail.limit = maxLines

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if token != "" && !strings.Contains(line, token) {
			continue
		}
		tail.push(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return tail.lines(), nil
}

// ring keeps the newest limit lines; limit <= 0 keeps all of them.
type ring struct {
	limit int
	buf   []string
	next  int
	full  bool
}

func (r *ring) push(line string) {
	if r.limit <= 0 || len(r.buf) < r.limit {
		r.buf = append(r.buf, line)
		return
	}
	r.buf[r.next] = line
	r.next = (r.next + 1) % r.limit
	r.full = true
}

func (r *ring) lines() []string {
	if len(r.buf) == 0 {
		return nil
	}
	if !r.full {
		return r.buf
	}
	out := make([]string, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}
