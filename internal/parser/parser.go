package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Table is a parsed tabular payload: one header row and the data rows below
// it, all as raw strings. Rows may be shorter than the header.
type Table struct {
	Name   string
	Format string
	Header []string
	Rows   [][]string
}

// Options tunes payload parsing.
type Options struct {
	// Sheet selects an XLSX worksheet by name; empty means the first sheet.
	Sheet string
}

// Parser defines a tabular payload parser implementation.
type Parser interface {
	Format() string
	CanParse(filename string) bool
	Parse(content []byte, opt Options) (*Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrNoHeader reports a payload without a header row.
var ErrNoHeader = errors.New("no header row")

// Select returns the parser for name. Payloads without a recognised
// extension are read as comma-separated text.
func Select(name string) Parser {
	for _, p := range registry {
		if p.CanParse(name) {
			return p
		}
	}
	return csvParser{comma: ','}
}

// Parse parses content using the parser selected by name.
func Parse(name string, content []byte, opt Options) (*Table, error) {
	p := Select(name)
	t, err := p.Parse(content, opt)
	if err != nil {
		return nil, err
	}
	if name != "" {
		t.Name = filepath.Base(name)
	}
	t.Format = p.Format()
	return t, nil
}

// ParseFile reads path and parses it as a table.
func ParseFile(path string, opt Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(path, data, opt)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func init() {
	Register(csvParser{comma: ','})
	Register(csvParser{comma: '\t'})
	Register(xlsxParser{})
}
