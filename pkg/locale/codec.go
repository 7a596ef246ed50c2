package locale

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// filePerm is used when a write-back creates a file.
const filePerm = 0o644

// Decode parses a locale document into a ContentMap.
func Decode(data []byte) (*ContentMap, error) {
	content := NewContentMap()
	if err := content.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return content, nil
}

// Encode renders content as a JSON object indented with two spaces,
// keys in stored order.
func Encode(content *ContentMap) ([]byte, error) {
	if content == nil {
		content = NewContentMap()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(content); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadFile loads and decodes the locale file at path.
// Any read or decode failure is reported as ErrParse.
func ReadFile(path string) (*ContentMap, error) {
	_, content, err := readFile(path)
	return content, err
}

// readFile is ReadFile that also returns the bytes it decoded.
func readFile(path string) ([]byte, *ContentMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading %q: %w", ErrParse, path, err)
	}

	content, err := Decode(data)
	if err != nil {
		return data, nil, fmt.Errorf("%w: parsing %q: %w", ErrParse, path, err)
	}
	return data, content, nil
}

// WriteFile replaces the file at path with the encoded content.
// The write is not atomic: a concurrent reader may observe a partial file.
func WriteFile(path string, content *ContentMap) error {
	_, err := writeFile(path, content)
	return err
}

// writeFile is WriteFile that also returns the bytes it wrote.
func writeFile(path string, content *ContentMap) ([]byte, error) {
	data, err := Encode(content)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return nil, err
	}
	return data, nil
}
