// Package parheader parses the ASCII header of a Philips PAR/REC image pair
// into typed containers.
//
// A PAR header mixes three kinds of lines, classified by their first
// character:
//
//	# ...   comments; the line containing "image export tool" carries the
//	        format version as its last token
//	. k : v general information, one "key : value" pair per line
//	1 1 ... image definitions, one whitespace-separated row per image
//
// Both sections are schema driven: GeneralInfoFields describes the known
// general-info keys, ImageDefFields the column layout of the image rows.
package parheader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// versionMarker identifies the comment line carrying the format version.
const versionMarker = "image export tool"

// SupportedVersions is the set of PAR format versions this package was
// written against. Other versions are read best effort with a warning.
var SupportedVersions = map[string]bool{
	"V4.2": true,
}

// Parser reads a PAR header stream into a GeneralInfo mapping and an
// ImageDefTable. A Parser is single use: Warnings refers to the last Parse.
type Parser struct {
	strict   bool
	warnings []string
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithStrictFields controls the handling of general-info keys outside the
// schema. Strict (the default) fails the parse with a ParseError; lenient
// collects a warning and skips the line, which admits headers written by
// exporter versions with extra keys.
func WithStrictFields(strict bool) ParserOption {
	return func(p *Parser) {
		p.strict = strict
	}
}

// NewParser returns a Parser with the given options applied.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{strict: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Warnings returns the non-fatal findings of the last Parse, in input order:
// unsupported format versions and, in lenient mode, skipped unknown keys.
func (p *Parser) Warnings() []string {
	return p.warnings
}

func (p *Parser) warnf(format string, args ...interface{}) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// Parse consumes the header stream in a single pass and returns the general
// information and the image-definition table, in file order. On any
// malformed line it returns a ParseError and no partial containers.
func (p *Parser) Parse(r io.Reader) (*GeneralInfo, *ImageDefTable, error) {
	p.warnings = nil
	info := newGeneralInfo()
	defs := newImageDefTable()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			p.checkVersion(line)
		case strings.HasPrefix(line, "."):
			if err := p.parseGeneralLine(info, line, lineNo); err != nil {
				return nil, nil, err
			}
		default:
			if err := p.parseImageDefLine(defs, line, lineNo); err != nil {
				return nil, nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading par header: %w", err)
	}
	return info, defs, nil
}

// checkVersion inspects a comment line for the version marker. An
// unsupported version is a warning, never an error: the header is still read
// best effort.
func (p *Parser) checkVersion(line string) {
	if !strings.Contains(line, versionMarker) {
		return
	}
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return
	}
	version := tokens[len(tokens)-1]
	if !SupportedVersions[version] {
		p.warnf("par version %q is not supported, reading the header best effort", version)
	}
}

// parseGeneralLine handles a dot-prefixed "key : value" line. The key is the
// trimmed text between the leading dot and the first colon.
func (p *Parser) parseGeneralLine(info *GeneralInfo, line string, lineNo int) error {
	body := line[1:]
	colon := strings.Index(body, ":")
	if colon < 0 {
		return &ParseError{Reason: BadValue, Line: lineNo, Value: line,
			Err: fmt.Errorf("general info line without colon")}
	}
	key := strings.TrimSpace(body[:colon])
	raw := strings.TrimSpace(body[colon+1:])

	f, ok := generalInfoByKey[key]
	if !ok {
		if p.strict {
			return &ParseError{Reason: UnknownField, Line: lineNo, Field: key}
		}
		p.warnf("skipping unknown general info key %q", key)
		return nil
	}

	v := Value{Field: f}
	switch {
	case f.Shape != nil:
		tokens := strings.Fields(raw)
		if len(tokens) != f.Elems() {
			return &ParseError{Reason: BadValue, Line: lineNo, Field: f.Name, Value: raw,
				Err: fmt.Errorf("want %d elements, have %d", f.Elems(), len(tokens))}
		}
		v.Vec = make([]float64, len(tokens))
		for i, tok := range tokens {
			num, err := parseNumber(tok, f.Kind)
			if err != nil {
				return &ParseError{Reason: BadValue, Line: lineNo, Field: f.Name, Value: tok, Err: err}
			}
			v.Vec[i] = num
		}
	case f.Kind == String:
		v.Str = raw
	default:
		num, err := parseNumber(raw, f.Kind)
		if err != nil {
			return &ParseError{Reason: BadValue, Line: lineNo, Field: f.Name, Value: raw, Err: err}
		}
		v.Num = num
	}
	info.set(v)
	return nil
}

// parseImageDefLine appends one row to the table, consuming tokens against
// the image-definition schema in declared order: one token per scalar and
// fixed-string field, Elems() tokens per array field. Trailing tokens beyond
// the schema are ignored.
func (p *Parser) parseImageDefLine(defs *ImageDefTable, line string, lineNo int) error {
	tokens := strings.Fields(line)
	cursor := 0
	for _, f := range ImageDefFields {
		need := f.Elems()
		if cursor+need > len(tokens) {
			return &ParseError{Reason: TooFewFields, Line: lineNo, Field: f.Name,
				Err: fmt.Errorf("row has %d tokens, field needs %d more", len(tokens), cursor+need-len(tokens))}
		}
		if f.IsString() {
			// raw bytes at the declared capacity, zero padded,
			// truncated if the token is longer
			b := make([]byte, f.StrLen)
			copy(b, tokens[cursor])
			defs.text[f.Name] = append(defs.text[f.Name], b)
			cursor++
			continue
		}
		for j := 0; j < need; j++ {
			num, err := parseNumber(tokens[cursor], f.Kind)
			if err != nil {
				return &ParseError{Reason: BadValue, Line: lineNo, Field: f.Name, Value: tokens[cursor], Err: err}
			}
			defs.numeric[f.Name] = append(defs.numeric[f.Name], num)
			cursor++
		}
	}
	defs.n++
	return nil
}

// parseNumber converts one token according to the declared kind. Integer
// fields reject fractional text so that a shifted row surfaces as a
// BadValue instead of silently landing in the wrong column.
func parseNumber(tok string, kind Kind) (float64, error) {
	if kind == Int {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return 0, err
		}
		return float64(n), nil
	}
	return strconv.ParseFloat(tok, 64)
}

// ParseHeader parses a PAR header with the default strict settings,
// discarding warnings. Use a Parser when warnings or lenient key handling
// are needed.
func ParseHeader(r io.Reader) (*GeneralInfo, *ImageDefTable, error) {
	return NewParser().Parse(r)
}
