// Copyright 2026 Mynk Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package extract produces raw text from typed document inputs.
//
// Supported kinds are PDF, CSV and plain text. Extraction either returns the
// full textual content or fails loudly; partial or garbled text is never
// returned silently.
package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Kind identifies the input document format.
type Kind int

const (
	// KindUnknown is an unrecognized format.
	KindUnknown Kind = iota
	// KindPDF is a PDF document.
	KindPDF
	// KindCSV is a comma-separated values file.
	KindCSV
	// KindText is plain UTF-8 text.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindCSV:
		return "csv"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// KindForContentType maps an upload MIME type to a Kind. The CSV aliases
// cover the types browsers actually send for .csv files.
func KindForContentType(contentType string) (Kind, error) {
	// Strip parameters like "; charset=utf-8"
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))

	switch contentType {
	case "application/pdf":
		return KindPDF, nil
	case "text/csv", "application/csv", "application/vnd.ms-excel", "application/octet-stream":
		return KindCSV, nil
	case "text/plain":
		return KindText, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
}

// KindForPath maps a file extension to a Kind.
func KindForPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return KindPDF, nil
	case ".csv":
		return KindCSV, nil
	case ".txt", ".text", ".md":
		return KindText, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(path))
	}
}

// ExtractText produces the raw text of a document.
// Unknown kinds fail with ErrUnsupportedType naming the offender.
func ExtractText(kind Kind, data []byte) (string, error) {
	switch kind {
	case KindPDF:
		return extractPDF(data)
	case KindCSV:
		return extractCSV(data)
	case KindText:
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
	}
}

// extractPDF decodes PDF bytes and concatenates all textual content.
func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: pdf decode panic: %v", ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	return buf.String(), nil
}

// extractCSV flattens each data row by joining its values with a single
// space and joins rows with newlines, preserving row order. The first row is
// treated as a header and skipped.
func extractCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	if len(rows) <= 1 {
		return "", nil
	}

	lines := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		lines = append(lines, strings.Join(row, " "))
	}

	return strings.Join(lines, "\n"), nil
}
