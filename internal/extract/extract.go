// Package extract pulls plain text out of uploaded resume documents.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned when a document parses but contains no usable text.
var ErrNoText = errors.New("document contains no extractable text")

// Text reads the PDF at path and returns its plain text content.
func Text(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("document path is required")
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open document %q: %w", path, err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text from %q: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("read extracted text from %q: %w", path, err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("%q: %w", path, ErrNoText)
	}

	return text, nil
}
