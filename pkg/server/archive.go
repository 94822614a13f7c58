package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/webp"
	"github.com/segmentio/ksuid"

	"fable/pkg/schema"
)

// archivePages stores every page image of a finished book as WebP under
// ArchiveDir. Failures are logged and skipped; the client already has the
// base64 payload either way.
func (s *Server) archivePages(result *schema.StoryResult) {
	if s.ArchiveDir == "" || result == nil {
		return
	}

	bookID := ksuid.New().String()
	dir := filepath.Join(s.ArchiveDir, bookID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Warn("failed to create archive dir", "dir", dir, "error", err)
		return
	}

	for i, page := range result.Pages {
		if page.ImageBase64 == "" {
			continue
		}
		filename := fmt.Sprintf("page-%02d.webp", i+1)
		if err := saveToWebP(page.ImageBase64, filepath.Join(dir, filename)); err != nil {
			log.Warn("failed to archive page", "book", bookID, "page", i+1, "error", err)
			continue
		}
	}
	log.Info("archived book", "book", bookID, "pages", len(result.Pages))
}

// saveToWebP decodes a base64 PNG and writes it to path as high-quality WebP.
func saveToWebP(imageBase64, path string) error {
	imgBytes, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return fmt.Errorf("failed to decode base64 image: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		// Fallback: try generic decode if not PNG
		var err2 error
		img, _, err2 = image.Decode(bytes.NewReader(imgBytes))
		if err2 != nil {
			return fmt.Errorf("failed to decode image (png: %v, generic: %v)", err, err2)
		}
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, webp.Options{Lossless: false, Quality: 100}); err != nil {
		return fmt.Errorf("failed to encode webp: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
