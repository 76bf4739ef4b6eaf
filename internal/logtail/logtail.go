package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Field is one trailing key=value pair of a log line.
type Field struct {
	Key   string
	Value string
}

// Entry is a log line split into its parts. Lines that do not start with a
// timestamp and level keep everything in Message.
type Entry struct {
	Time    string
	Level   string
	Message string
	Fields  []Field
}

var (
	headerPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\s+(TRACE|DEBUG|INFO|WARN|ERROR|FATAL|PANIC)\b\s*(.*)$`)
	fieldPattern  = regexp.MustCompile(`(?:^|\s)([A-Za-z_][\w.-]*)=("(?:[^"\\]|\\.)*"|\S*)`)
)

// Parse splits a line written by the logging package into its parts.
func Parse(line string) Entry {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{Message: line}
	}
	entry := Entry{Time: m[1], Level: m[2]}
	rest := m[3]

	matches := fieldPattern.FindAllStringSubmatchIndex(rest, -1)
	// Fields only count as fields when they run contiguously to the end.
	start := len(matches)
	end := len(rest)
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i][1] != end {
			break
		}
		start = i
		end = matches[i][0]
	}
	for _, idx := range matches[start:] {
		entry.Fields = append(entry.Fields, Field{Key: rest[idx[2]:idx[3]], Value: rest[idx[4]:idx[5]]})
	}
	entry.Message = strings.TrimSpace(rest[:end])
	return entry
}

// ParseLines parses every line in order.
func ParseLines(lines []string) []Entry {
	out := make([]Entry, len(lines))
	for i, line := range lines {
		out[i] = Parse(line)
	}
	return out
}
