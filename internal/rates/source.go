package rates

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source is one raw rate table. ID identifies it in diagnostics (usually the file name).
type Source struct {
	ID   string
	Data []byte
}

// LoadDir reads every *.csv file in dir, ordered by file name.
func LoadDir(dir string) ([]Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory %s does not exist", ErrNoSources, dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rates path %s is not a directory", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no *.csv files in %s", ErrNoSources, dir)
	}
	sort.Strings(paths)

	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read rate source: %w", err)
		}
		sources = append(sources, Source{ID: filepath.Base(p), Data: raw})
	}
	return sources, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type decoder struct {
	name   string
	decode func(raw []byte) ([]byte, error)
}

// decoders is tried in order; the first one that both decodes and parses wins.
// x/text Big5 is the WHATWG big5 table, a superset of the cp950 code page.
var decoders = []decoder{
	{name: "utf-8", decode: decodeUTF8},
	{name: "utf-8-sig", decode: decodeUTF8Sig},
	{name: "big5", decode: decodeLegacy(traditionalchinese.Big5)},
}

func decodeUTF8(raw []byte) ([]byte, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		return nil, fmt.Errorf("byte order mark present")
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("invalid byte sequence")
	}
	return raw, nil
}

func decodeUTF8Sig(raw []byte) ([]byte, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("invalid byte sequence")
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	return out, err
}

// decodeLegacy treats any replacement character in the output as a failed decode,
// since x/text decoders substitute U+FFFD rather than erroring.
func decodeLegacy(enc encoding.Encoding) func([]byte) ([]byte, error) {
	return func(raw []byte) ([]byte, error) {
		out, _, err := transform.Bytes(enc.NewDecoder(), raw)
		if err != nil {
			return nil, err
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			return nil, fmt.Errorf("invalid byte sequence")
		}
		return out, nil
	}
}

// table is one parsed source before normalization.
type table struct {
	source   string
	encoding string
	columns  map[string]int
	rows     [][]string
	lines    []int
}

func (t *table) value(row int, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(t.rows[row]) {
		return ""
	}
	return t.rows[row][idx]
}

func (t *table) ref(row int) string {
	return fmt.Sprintf("%s:%d", t.source, t.lines[row])
}

// readTable decodes src with the first decoder that accepts it, then parses the text. Only a decode failure
// moves on to the next decoder; a CSV syntax error in cleanly decoded text is reported as a ParseError.
func readTable(src Source) (*table, error) {
	attempts := make([]string, 0, len(decoders))
	for _, d := range decoders {
		text, err := d.decode(src.Data)
		if err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", d.name, err))
			continue
		}
		t, err := parseCSV(text)
		if err != nil {
			return nil, &ParseError{Source: src.ID, Encoding: d.name, Err: err}
		}
		t.source = src.ID
		t.encoding = d.name
		return t, nil
	}
	return nil, &EncodingError{Source: src.ID, Attempts: attempts}
}

func parseCSV(text []byte) (*table, error) {
	r := csv.NewReader(bytes.NewReader(text))
	r.TrimLeadingSpace = true
	// Ragged rows are kept; missing cells read as empty and fail coercion with a row reference.
	r.FieldsPerRecord = -1

	t := &table{columns: map[string]int{}}
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		return nil, err
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
		}
	}

	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		line, _ := r.FieldPos(0)
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
	return t, nil
}
