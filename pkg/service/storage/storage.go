// Package storage resolves attachment references and stores uploads on the
// local filesystem, Amazon S3 or Google Cloud Storage.
package storage

import (
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// sanitizeFilename keeps only the base name of an uploaded file
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "upload"
	}
	return name
}

// objectKey builds prefix/YYYY/MM/DD/<uuid>/<filename>
func objectKey(prefix, filename string, now time.Time) string {
	return path.Join(prefix, now.UTC().Format("2006/01/02"), uuid.NewString(), sanitizeFilename(filename))
}

func detectContentType(filename string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	if len(data) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(data)
}

// parseURI splits scheme://bucket/key
func parseURI(scheme, uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, scheme+"://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
