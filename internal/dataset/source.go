package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one data row with the source line it starts on.
type Record struct {
	Line  int
	Cells []string
}

// Reader turns a file on disk into a header and raw string records.
type Reader interface {
	CanRead(path string) bool
	Read(path string, opt LoadOptions) (header []string, records []Record, err error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func readerFor(path string) Reader {
	for _, r := range registry {
		if r.CanRead(path) {
			return r
		}
	}
	return nil
}

func init() {
	Register(xlsxReader{})
	Register(delimitedReader{})
}

type delimitedReader struct{}

func (delimitedReader) CanRead(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (delimitedReader) Read(path string, opt LoadOptions) ([]string, []Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	br := bufio.NewReader(f)
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path, br)
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	var records []Record
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		line, _ := r.FieldPos(0)
		records = append(records, Record{Line: line, Cells: rec})
	}
	return header, records, nil
}

// sniffDelimiter picks the candidate separator occurring most often in the
// header line, falling back to the extension default (tab for .tsv, comma
// otherwise) when the header has none.
func sniffDelimiter(path string, br *bufio.Reader) rune {
	def := ','
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		def = '\t'
	}
	// Peek returns what it could read along with io.EOF or ErrBufferFull.
	head, _ := br.Peek(br.Size())
	line := string(head)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestN := def, strings.Count(line, string(def))
	for _, c := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(line, string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
