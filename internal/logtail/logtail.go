package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	return ReadMatching(path, maxLines, nil)
}

// ReadMatching is Read restricted to lines accepted by match. A nil match
// accepts everything.
func ReadMatching(path string, maxLines int, match func(string) bool) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	var ring []string
	if maxLines > 0 {
		ring = make([]string, maxLines)
	}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if match != nil && !match(line) {
			continue
		}
		if maxLines <= 0 {
			ring = append(ring, line)
			count++
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if count == 0 {
		return nil, nil
	}
	if maxLines <= 0 || count < maxLines {
		lines := make([]string, count)
		copy(lines, ring[:count])
		return lines, nil
	}
	lines := make([]string, count)
	for i := 0; i < count; i++ {
		lines[i] = ring[(idx+i)%maxLines]
	}
	return lines, nil
}

// Contains returns a case-insensitive substring matcher. An empty needle
// matches every line.
func Contains(needle string) func(string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return nil
	}
	return func(line string) bool {
		return strings.Contains(strings.ToLower(line), needle)
	}
}
