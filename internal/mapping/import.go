package mapping

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PixPMusic/gopher-perform/internal/keysim"
)

// ImportFile replaces the table's contents with the mappings parsed from
// path. The file is parsed completely before anything is swapped in, so a
// malformed line leaves the table untouched.
func (t *Table) ImportFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open mappings file: %w", err)
	}
	defer f.Close()

	entries, err := ParseReader(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	t.Replace(entries)
	return nil
}

// ParseReader reads the line-oriented mapping format: one mapping per
// non-empty line, four whitespace-separated fields
//
//	note channel keydown keyup
//
// Lines starting with '#' are comments. Each key field becomes a trivial
// one-event on/off sequence.
func ParseReader(r io.Reader) ([]Mapping, error) {
	var entries []Mapping
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entries = append(entries, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mappings: %w", err)
	}
	return entries, nil
}

func parseLine(line string) (Mapping, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Mapping{}, fmt.Errorf("expected 4 fields (note channel keydown keyup), got %d", len(fields))
	}

	noteNum, err := strconv.Atoi(fields[0])
	if err != nil {
		return Mapping{}, fmt.Errorf("bad note %q: %w", fields[0], err)
	}
	note, err := NewNote(noteNum)
	if err != nil {
		return Mapping{}, err
	}

	chNum, err := strconv.Atoi(fields[1])
	if err != nil {
		return Mapping{}, fmt.Errorf("bad channel %q: %w", fields[1], err)
	}
	ch, err := NewChannel(chNum)
	if err != nil {
		return Mapping{}, err
	}

	downKey, err := keysim.ParseKey(fields[2])
	if err != nil {
		return Mapping{}, fmt.Errorf("keydown field: %w", err)
	}
	upKey, err := keysim.ParseKey(fields[3])
	if err != nil {
		return Mapping{}, fmt.Errorf("keyup field: %w", err)
	}

	return Mapping{
		Note:    note,
		Channel: ch,
		On:      []Event{KeyDown(downKey)},
		Off:     []Event{KeyUp(upKey)},
	}, nil
}
