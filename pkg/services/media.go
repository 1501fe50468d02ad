package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MediaFile describes one uploaded cover image or asset.
type MediaFile struct {
	Name string `json:"name"`
	Path string `json:"path"` // public path for use in content
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// ListMediaFiles lists the media directory, creating it on first use.
func ListMediaFiles(mediaDir, publicPrefix string) ([]MediaFile, error) {
	if _, err := os.Stat(mediaDir); os.IsNotExist(err) {
		os.MkdirAll(mediaDir, 0755)
	}

	entries, err := os.ReadDir(mediaDir)
	if err != nil {
		return nil, err
	}

	var files []MediaFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		usagePath := publicPath(publicPrefix, entry.Name())
		files = append(files, MediaFile{
			Name: entry.Name(),
			Path: usagePath,
			Size: info.Size(),
			URL:  usagePath,
		})
	}
	return files, nil
}

// SaveMediaFile stores an upload under a timestamped name so repeated
// uploads of the same file never collide.
func SaveMediaFile(mediaDir, publicPrefix string, header *multipart.FileHeader) (*MediaFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := filepath.Base(header.Filename)
	filename = strings.ReplaceAll(filename, " ", "_")

	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	filename = fmt.Sprintf("%s_%d%s", name, time.Now().Unix(), ext)

	fullPath := SafeJoin(mediaDir, "", filename)
	if fullPath == "" {
		return nil, fmt.Errorf("invalid media path")
	}
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return nil, err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	usagePath := publicPath(publicPrefix, filename)
	return &MediaFile{
		Name: filename,
		Path: usagePath,
		Size: header.Size,
		URL:  usagePath,
	}, nil
}

// DeleteMediaFile removes a file from the media directory.
func DeleteMediaFile(mediaDir, filename string) error {
	fullPath := SafeJoin(mediaDir, "", filename)
	if fullPath == "" {
		return fmt.Errorf("invalid media path")
	}
	return os.Remove(fullPath)
}

func publicPath(prefix, filename string) string {
	cleaned := strings.TrimSuffix(filepath.ToSlash(prefix), "/")
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	return cleaned + "/" + filename
}
