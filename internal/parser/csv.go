package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type csvParser struct {
	comma rune
}

func (p csvParser) Format() string {
	if p.comma == '\t' {
		return "tsv"
	}
	return "csv"
}

func (p csvParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), "."+p.Format())
}

func (p csvParser) Parse(content []byte, _ Options) (*Table, error) {
	// A leading BOM is dropped; UTF-16 payloads with a BOM are decoded.
	dec := transform.NewReader(bytes.NewReader(content), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	r := csv.NewReader(dec)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = p.comma

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if blank(header) {
		return nil, ErrNoHeader
	}
	t := &Table{Header: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		if blank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}
