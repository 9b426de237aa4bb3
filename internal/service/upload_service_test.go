package service

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/dujiao-next/cupcake/internal/config"
)

func TestSecureFilename(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "cupcake.png", want: "cupcake.png"},
		{name: "spaces", in: "My cool movie.mov", want: "My_cool_movie.mov"},
		{name: "path traversal", in: "../../../etc/passwd", want: "etc_passwd"},
		{name: "accents", in: "Bicho de Pé.jpg", want: "Bicho_de_Pe.jpg"},
		{name: "unicode only", in: "蛋糕", want: ""},
		{name: "windows separators", in: `C:\fotos\bolo.gif`, want: "C_fotos_bolo.gif"},
		{name: "leading dots", in: "..hidden.png", want: "hidden.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SecureFilename(tc.in); got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func buildImageFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

func newTestImageStore(t *testing.T) *ImageStore {
	t.Helper()
	cfg := config.Default().Upload
	cfg.Dir = t.TempDir()
	return NewImageStore(cfg)
}

func TestImageStoreSaveAndRemove(t *testing.T) {
	store := newTestImageStore(t)
	filename, err := store.Save(buildImageFileHeader(t, "Red Velvet.png", pngBytes(t, 4, 4)))
	if err != nil {
		t.Fatalf("save image failed: %v", err)
	}
	if filename != "Red_Velvet.png" {
		t.Fatalf("filename want Red_Velvet.png got %s", filename)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), filename)); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	if err := store.Remove(filename); err != nil {
		t.Fatalf("remove image failed: %v", err)
	}
	if err := store.Remove(filename); err != nil {
		t.Fatalf("removing a missing image should succeed, got %v", err)
	}
}

func TestImageStoreRejects(t *testing.T) {
	store := newTestImageStore(t)
	cases := []struct {
		name     string
		filename string
		content  []byte
		want     error
	}{
		{name: "empty sanitized name", filename: "蛋糕", content: pngBytes(t, 2, 2), want: ErrImageNameInvalid},
		{name: "extension not allowed", filename: "bolo.txt", content: pngBytes(t, 2, 2), want: ErrImageTypeNotAllowed},
		{name: "content not image", filename: "bolo.png", content: []byte("plain text pretending"), want: ErrImageTypeNotAllowed},
		{name: "too wide", filename: "wide.png", content: pngBytes(t, 5000, 1), want: ErrImageTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Save(buildImageFileHeader(t, tc.filename, tc.content))
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("image errors should be validation errors, got %v", err)
			}
		})
	}
}

func TestImageStoreNilFileIsNoop(t *testing.T) {
	store := newTestImageStore(t)
	filename, err := store.Save(nil)
	if err != nil || filename != "" {
		t.Fatalf("nil file want empty result, got %q,%v", filename, err)
	}
}

func TestPublicURL(t *testing.T) {
	if got := PublicURL("bolo.png", "/static/default.png"); got != "/uploads/bolo.png" {
		t.Fatalf("want /uploads/bolo.png got %s", got)
	}
	if got := PublicURL("", "/static/default.png"); got != "/static/default.png" {
		t.Fatalf("want default image got %s", got)
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestImageStoreWriteFailureLeavesNoFile(t *testing.T) {
	store := newTestImageStore(t)
	existing := filepath.Join(store.Dir(), "ninho.png")
	if err := os.WriteFile(existing, []byte("original"), 0o644); err != nil {
		t.Fatalf("write existing file failed: %v", err)
	}

	if err := store.writeFile("ninho.png", brokenReader{}); err == nil {
		t.Fatalf("broken reader should fail")
	}
	if err := store.writeFile("novo.png", brokenReader{}); err == nil {
		t.Fatalf("broken reader should fail")
	}

	content, err := os.ReadFile(existing)
	if err != nil || string(content) != "original" {
		t.Fatalf("existing file should be untouched, got %q (%v)", string(content), err)
	}
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "ninho.png" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("upload dir want only ninho.png got %v", names)
	}
}
