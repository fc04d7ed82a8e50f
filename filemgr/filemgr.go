package filemgr

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"agribridge/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

type EntityType string
type FileType string

const (
	EntityProduct      EntityType = "product"
	EntityVerification EntityType = "verification"

	FilePhoto    FileType = "photo"
	FileDocument FileType = "document"
	FileThumb    FileType = "thumb"
)

var (
	ErrUnsupportedExt  = errors.New("unsupported file extension")
	ErrUnsupportedMIME = errors.New("unsupported content type")

	allowedExtensions = map[FileType][]string{
		FilePhoto:    {".jpg", ".jpeg", ".png", ".webp"},
		FileDocument: {".jpg", ".jpeg", ".png", ".webp", ".pdf"},
	}

	allowedMIMEs = map[FileType][]string{
		FilePhoto:    {"image/jpeg", "image/png", "image/webp"},
		FileDocument: {"image/jpeg", "image/png", "image/webp", "application/pdf"},
	}
)

func isExtensionAllowed(ext string, ftype FileType) bool {
	for _, a := range allowedExtensions[ftype] {
		if ext == a {
			return true
		}
	}
	return false
}

func isMIMEAllowed(mimeType string, ftype FileType) bool {
	for _, a := range allowedMIMEs[ftype] {
		if mimeType == a {
			return true
		}
	}
	return false
}

// ResolvePath returns the on-disk directory for an entity's files. An optional
// subdir scopes files per owner (e.g. verification/<farmerid>).
func ResolvePath(entity EntityType, subdir string) string {
	if subdir == "" {
		return filepath.Join("static", "uploads", string(entity))
	}
	return filepath.Join("static", "uploads", string(entity), subdir)
}

// SaveFormFile validates and stores one multipart file, returning its public
// URL path. The stored name is a fresh UUID; originals never keep their name.
func SaveFormFile(r *http.Request, field string, entity EntityType, ftype FileType, subdir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return saveFile(file, header, entity, ftype, subdir)
}

func saveFile(file multipart.File, header *multipart.FileHeader, entity EntityType, ftype FileType, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isExtensionAllowed(ext, ftype) {
		return "", ErrUnsupportedExt
	}
	if mt := header.Header.Get("Content-Type"); mt != "" && !isMIMEAllowed(mt, ftype) {
		return "", ErrUnsupportedMIME
	}

	dir := ResolvePath(entity, subdir)
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	dest := filepath.Join(dir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(dest)
		return "", err
	}

	if ftype == FilePhoto && ext != ".pdf" {
		if err := writeThumbnail(dest, dir, name); err != nil {
			// thumbnail failures don't invalidate the original
			fmt.Fprintf(os.Stderr, "thumbnail for %s failed: %v\n", name, err)
		}
	}

	return "/" + filepath.ToSlash(dest), nil
}

func writeThumbnail(src, dir, name string) error {
	img, err := imaging.Open(src)
	if err != nil {
		return err
	}
	thumb := imaging.Fit(img, 320, 320, imaging.Lanczos)
	thumbDir := filepath.Join(dir, string(FileThumb))
	if err := utils.EnsureDir(thumbDir); err != nil {
		return err
	}
	return imaging.Save(thumb, filepath.Join(thumbDir, name))
}

// ListTree returns the stored file paths under an entity subdir.
func ListTree(entity EntityType, subdir string) ([]string, error) {
	dir := ResolvePath(entity, subdir)
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return files, err
}

// RemoveTree deletes everything stored under an entity subdir.
func RemoveTree(entity EntityType, subdir string) error {
	if subdir == "" {
		return errors.New("refusing to remove entity root")
	}
	return os.RemoveAll(ResolvePath(entity, subdir))
}
