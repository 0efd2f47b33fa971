// Package notes extracts study notes from uploaded files and keeps them in a
// searchable DuckDB index.
package notes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned when a file yields no usable text.
var ErrNoText = errors.New("no text detected")

// MaxExtractBytes caps how much of a text file is read for indexing. Longer
// files are indexed up to the cap.
const MaxExtractBytes = 8 << 20

// MaxPDFBytes is the largest PDF that is parsed. Larger ones are not indexed.
const MaxPDFBytes = 32 << 20

var textExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".csv":      true,
}

// Extract returns the plain text content of a notes file. Text formats and
// PDFs are supported; anything else, or a file with no printable content,
// yields ErrNoText.
func Extract(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".pdf":
		return extractPDF(name, r)
	case textExtensions[ext]:
		return extractText(name, r)
	}
	return "", fmt.Errorf("%w: unsupported file type %q", ErrNoText, ext)
}

func extractText(name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxExtractBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) == MaxExtractBytes {
		data = trimPartialRune(data)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not UTF-8 text", ErrNoText, name)
	}
	return cleanText(string(data))
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end of data.
func trimPartialRune(data []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
		c := data[len(data)-i]
		if c < utf8.RuneSelf {
			return data
		}
		if utf8.RuneStart(c) {
			if !utf8.FullRune(data[len(data)-i:]) {
				return data[:len(data)-i]
			}
			return data
		}
	}
	return data
}

func extractPDF(name string, r io.Reader) (text string, err error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPDFBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) > MaxPDFBytes {
		return "", fmt.Errorf("%w: %s is larger than %d bytes", ErrNoText, name, MaxPDFBytes)
	}

	// The PDF parser panics on some malformed object graphs.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("%w: parsing %s: %v", ErrNoText, name, p)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNoText, name, err)
	}
	plain, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNoText, name, err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading text of %s: %w", name, err)
	}
	if !utf8.Valid(out) {
		out = bytes.ToValidUTF8(out, []byte("\uFFFD"))
	}
	return cleanText(string(out))
}

func cleanText(s string) (string, error) {
	text := strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// SplitLines breaks text into trimmed, non-empty lines.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Terms lowercases a query and returns its distinct words of three or more
// letters, in order of first appearance.
func Terms(query string) []string {
	seen := make(map[string]bool)
	var out []string
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r == '-' || r == '\'' || isWordRune(r))
	})
	for _, w := range words {
		w = strings.Trim(w, "-'")
		if utf8.RuneCountInString(w) < 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > utf8.RuneSelf
}

var stopWords = map[string]bool{
	"the": true, "and": true, "what": true, "why": true, "how": true,
	"who": true, "are": true, "was": true, "were": true, "does": true,
	"did": true, "can": true, "you": true, "for": true, "with": true,
	"this": true, "that": true, "from": true, "about": true, "explain": true,
	"tell": true, "please": true, "into": true, "when": true,
}
