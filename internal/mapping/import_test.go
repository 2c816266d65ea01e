package mapping

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/gopher-perform/internal/keysim"
)

func TestParseReaderWellFormed(t *testing.T) {
	input := strings.Join([]string{
		"# comment lines and blanks are skipped",
		"",
		"60 0 a b",
		"61 9 space escape",
		"  62   15   ctrl   shift  ",
	}, "\n")

	entries, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Note(60), entries[0].Note)
	assert.Equal(t, Channel(0), entries[0].Channel)
	require.Len(t, entries[0].On, 1)
	require.Len(t, entries[0].Off, 1)
	assert.Equal(t, KeyDown(keysim.Layout('a')), entries[0].On[0])
	assert.Equal(t, KeyUp(keysim.Layout('b')), entries[0].Off[0])

	assert.Equal(t, KeyDown(keysim.Layout(' ')), entries[1].On[0])
	assert.Equal(t, KeyUp(keysim.KeyEscape), entries[1].Off[0])

	assert.Equal(t, Channel(15), entries[2].Channel)
	assert.Equal(t, KeyDown(keysim.KeyControl), entries[2].On[0])
}

func TestParseReaderMalformedLines(t *testing.T) {
	cases := map[string]string{
		"wrong field count":   "60 0 a",
		"non-numeric note":    "abc 0 a b",
		"note out of range":   "128 0 a b",
		"channel out of range": "60 16 a b",
		"unknown key name":    "60 0 bogus b",
	}
	for name, line := range cases {
		_, err := ParseReader(strings.NewReader(line))
		assert.Error(t, err, name)
	}
}

func TestParseReaderReportsLineNumber(t *testing.T) {
	input := "60 0 a b\n\n61 0 c\n"
	_, err := ParseReader(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestImportFileReplacesTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappings.txt")
	content := "60 0 a b\n61 0 c d\n62 1 e f\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tbl := NewTable()
	tbl.Replace(DefaultMappings())
	require.NoError(t, tbl.ImportFile(path))

	assert.Equal(t, 3, tbl.Len(), "import fully replaces the default table")

	for _, want := range []struct {
		note Note
		ch   Channel
	}{{60, 0}, {61, 0}, {62, 1}} {
		_, ok := tbl.Find(want.note, want.ch)
		assert.True(t, ok, "note %d ch %d", want.note, want.ch)
	}

	// A default-table entry must no longer resolve.
	_, ok := tbl.Find(NoteC1, 0)
	assert.False(t, ok)
}

func TestImportFileMalformedLeavesTableIntact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappings.txt")
	require.NoError(t, os.WriteFile(path, []byte("60 0 a b\nbroken line\n"), 0644))

	tbl := NewTable()
	tbl.Add(Mapping{Note: 10, Channel: 0})
	require.Error(t, tbl.ImportFile(path))

	_, ok := tbl.Find(10, 0)
	assert.True(t, ok, "failed import must not disturb existing entries")
}

func TestImportFileMissing(t *testing.T) {
	tbl := NewTable()
	err := tbl.ImportFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestDefaultMappingsShape(t *testing.T) {
	entries := DefaultMappings()
	// 48 keys in two octaves plus 8 pads.
	require.Len(t, entries, 48*2+8)

	tbl := NewTable()
	tbl.Replace(entries)

	// First generated key 't' at C1, channel 0, Control register.
	m, ok := tbl.Find(NoteC1, 0)
	require.True(t, ok)
	require.Len(t, m.On, 2)
	assert.Equal(t, EventModifierSet, m.On[0].Kind)
	require.NotNil(t, m.On[0].Modifier)
	assert.Equal(t, keysim.KeyControl, *m.On[0].Modifier)
	assert.Equal(t, KeyDown(keysim.Layout('t')), m.On[1])

	// Same key one octave up carries no modifier.
	m, ok = tbl.Find(NoteC1+12, 0)
	require.True(t, ok)
	assert.Nil(t, m.On[0].Modifier)

	// Pads live on channel 9 and have no note-off sequence.
	m, ok = tbl.Find(40, 9)
	require.True(t, ok)
	assert.Empty(t, m.Off)
	assert.Equal(t, EventModifierSet, m.On[0].Kind)
	assert.Nil(t, m.On[0].Modifier)
}
