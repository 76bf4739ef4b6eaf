package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v, want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Entry
	}{
		{
			name:     "empty line",
			input:    "",
			expected: Entry{Message: ""},
		},
		{
			name:     "continuation line",
			input:    "    at something",
			expected: Entry{Message: "    at something"},
		},
		{
			name:  "info with fields",
			input: "2026-10-08 21:01:05 INFO  request done component=wan path=article/list/0/json",
			expected: Entry{
				Time:    "2026-10-08 21:01:05",
				Level:   "INFO",
				Message: "request done",
				Fields: []Field{
					{Key: "component", Value: "wan"},
					{Key: "path", Value: "article/list/0/json"},
				},
			},
		},
		{
			name:  "quoted field value",
			input: `2026-10-08 21:01:05 WARN  load failed component=screen error="dial tcp: timeout"`,
			expected: Entry{
				Time:    "2026-10-08 21:01:05",
				Level:   "WARN",
				Message: "load failed",
				Fields: []Field{
					{Key: "component", Value: "screen"},
					{Key: "error", Value: `"dial tcp: timeout"`},
				},
			},
		},
		{
			name:  "equals inside message is kept",
			input: "2026-10-08 21:01:05 DEBUG a=b means nothing here component=app",
			expected: Entry{
				Time:    "2026-10-08 21:01:05",
				Level:   "DEBUG",
				Message: "a=b means nothing here",
				Fields:  []Field{{Key: "component", Value: "app"}},
			},
		},
		{
			name:     "no message no fields",
			input:    "2026-10-08 21:01:05 ERROR",
			expected: Entry{Time: "2026-10-08 21:01:05", Level: "ERROR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.expected)
			}
		})
	}
}

func TestParseLines(t *testing.T) {
	got := ParseLines([]string{
		"2026-10-08 21:01:05 INFO  started",
		"plain",
	})
	if len(got) != 2 || got[0].Level != "INFO" || got[0].Message != "started" || got[1].Message != "plain" {
		t.Fatalf("ParseLines() = %#v", got)
	}
}
