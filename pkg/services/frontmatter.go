package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mdx-cms/pkg/models"
)

// ParseFrontMatter splits a legacy MDX file into its front matter map and
// body. Imported content may still open with a YAML (---) or TOML (+++)
// block; the canonical store keeps metadata in JSON sidecar records.
func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	str := string(content)
	// Check for YAML (---)
	if strings.HasPrefix(str, "---\n") || strings.HasPrefix(str, "---\r\n") {
		parts := strings.SplitN(str, "---", 3) // "", FM, Body
		if len(parts) == 3 {
			var fm map[string]interface{}
			if err := yaml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				return fm, strings.TrimSpace(parts[2]), "yaml", nil
			}
		}
	}
	// Check for TOML (+++)
	if strings.HasPrefix(str, "+++\n") || strings.HasPrefix(str, "+++\r\n") {
		parts := strings.SplitN(str, "+++", 3)
		if len(parts) == 3 {
			var fm map[string]interface{}
			if err := toml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				return fm, strings.TrimSpace(parts[2]), "toml", nil
			}
		}
	}
	return nil, "", "", fmt.Errorf("no front matter")
}

// StripFrontMatter returns the body of an MDX file with any legacy front
// matter block removed. Files without one pass through untouched.
func StripFrontMatter(content []byte) string {
	if _, body, _, err := ParseFrontMatter(content); err == nil {
		return body
	}
	return strings.TrimSpace(string(content))
}

// applyFrontMatter copies the known metadata keys of a legacy front
// matter block onto an article record. Unknown keys are dropped.
func applyFrontMatter(article *models.Article, fm map[string]interface{}) {
	for key, value := range fm {
		switch key {
		case "title":
			if s, ok := value.(string); ok {
				article.Title = s
			}
		case "description":
			if s, ok := value.(string); ok {
				article.Description = s
			}
		case "author":
			if s, ok := value.(string); ok {
				article.Author = s
			}
		case "date":
			if s, ok := value.(string); ok {
				article.Date = s
			}
		case "category":
			if s, ok := value.(string); ok {
				article.Category = s
			}
		case "coverImage":
			if s, ok := value.(string); ok {
				article.CoverImage = s
			}
		case "status":
			if s, ok := value.(string); ok {
				article.Status = models.Status(s)
			}
		case "publishDate":
			if s, ok := value.(string); ok {
				article.PublishDate = s
			}
		case "order":
			switch n := value.(type) {
			case int:
				article.Order = n
			case int64:
				article.Order = int(n)
			case float64:
				article.Order = int(n)
			}
		case "tags":
			if list, ok := value.([]interface{}); ok {
				tags := make([]string, 0, len(list))
				for _, item := range list {
					if s, ok := item.(string); ok {
						tags = append(tags, s)
					}
				}
				article.Tags = tags
			}
		}
	}
}

// NormalizeArticleFile migrates a legacy body file in place: front matter
// found in the MDX is merged into the JSON record and stripped from the
// body. A body file without front matter is left alone.
func NormalizeArticleFile(recordPath, bodyPath string) error {
	content, err := os.ReadFile(bodyPath)
	if err != nil {
		return err
	}

	fm, body, _, err := ParseFrontMatter(content)
	if err != nil {
		return nil
	}

	var article models.Article
	if err := readJSONFile(recordPath, &article); err != nil {
		return err
	}
	applyFrontMatter(&article, fm)

	data, err := marshalRecord(article)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(recordPath, data); err != nil {
		return err
	}
	return atomicWriteFile(bodyPath, []byte(body+"\n"))
}
