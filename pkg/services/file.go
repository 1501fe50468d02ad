package services

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var orderPrefixRe = regexp.MustCompile(`^\d+-`)

// SafeJoin joins target onto root/sub, rejecting path traversal.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(target)
	if strings.Contains(cleanTarget, "..") {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

// slugFromFilename strips the numeric order prefix and the extension from
// a content filename, e.g. "03-routing.json" -> "routing".
func slugFromFilename(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return orderPrefixRe.ReplaceAllString(name, "")
}

// isRecordFile reports whether a directory entry is an article record.
// Underscore-prefixed files hold series metadata, not articles.
func isRecordFile(name string) bool {
	return strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, "_")
}

func readJSONFile(path string, v interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(content, v)
}

// marshalRecord renders a record the way the content files are stored:
// two-space indent with a trailing newline.
func marshalRecord(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// atomicWriteFile writes via a temp file in the target directory followed
// by a rename, so readers never observe a half-written record.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".write-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// findSeriesFile locates the file for a series article slug, tolerating
// any numeric order prefix on the filename. Returns "" when no file
// matches.
func findSeriesFile(seriesDir, slug, ext string) string {
	entries, err := os.ReadDir(seriesDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || !strings.HasSuffix(name, ext) {
			continue
		}
		if slugFromFilename(name) == slug {
			return filepath.Join(seriesDir, name)
		}
	}
	return ""
}
