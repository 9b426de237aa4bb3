package service

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/constants"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/text/unicode/norm"
)

// ImageStore 商品图片存储，文件保存在上传目录下，数据库只记录文件名
type ImageStore struct {
	cfg config.UploadConfig
}

// NewImageStore 创建图片存储
func NewImageStore(cfg config.UploadConfig) *ImageStore {
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "uploads"
	}
	return &ImageStore{cfg: cfg}
}

// Dir 上传目录
func (s *ImageStore) Dir() string {
	return s.cfg.Dir
}

// Save 校验并以净化后的原始文件名保存，同名文件会被覆盖
func (s *ImageStore) Save(file *multipart.FileHeader) (string, error) {
	if file == nil || file.Filename == "" {
		return "", nil
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return "", ErrImageTooLarge
	}

	filename := SecureFilename(file.Filename)
	if filename == "" {
		return "", ErrImageNameInvalid
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if len(s.cfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
			return "", ErrImageTypeNotAllowed
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(buffer[:n])
	if len(s.cfg.AllowedTypes) > 0 && !containsFold(s.cfg.AllowedTypes, contentType) {
		return "", ErrImageTypeNotAllowed
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageInvalid, err)
	}
	if s.cfg.MaxWidth > 0 && imgCfg.Width > s.cfg.MaxWidth {
		return "", ErrImageTooLarge
	}
	if s.cfg.MaxHeight > 0 && imgCfg.Height > s.cfg.MaxHeight {
		return "", ErrImageTooLarge
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", err
	}
	if err := s.writeFile(filename, src); err != nil {
		return "", err
	}
	return filename, nil
}

// writeFile 先写临时文件再改名；失败时删除临时文件，已有同名文件保持不变
func (s *ImageStore) writeFile(filename string, src io.Reader) (err error) {
	tmp, err := os.CreateTemp(s.cfg.Dir, ".upload-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.cfg.Dir, filename))
}

// Remove 删除图片文件，文件不存在视为成功
func (s *ImageStore) Remove(filename string) error {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil
	}
	err := os.Remove(filepath.Join(s.cfg.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// PublicURL 返回图片访问路径，无图片时使用默认图
func PublicURL(filename, defaultImage string) string {
	if strings.TrimSpace(filename) == "" {
		return defaultImage
	}
	return constants.UploadURLPrefix + "/" + filename
}

// SecureFilename 将上传文件名净化为仅含 ASCII 字母、数字、'_'、'.'、'-' 的安全名称，
// 路径分隔符与空白折叠为 '_'，首尾的 '.' 与 '_' 被去除，结果可能为空
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range decomposed {
		if r < 0x80 {
			ascii.WriteRune(r)
		}
	}
	separated := strings.NewReplacer("/", " ", "\\", " ").Replace(ascii.String())
	joined := strings.Join(strings.Fields(separated), "_")

	var out strings.Builder
	for _, r := range joined {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out.WriteRune(r)
		case r == '_', r == '.', r == '-':
			out.WriteRune(r)
		}
	}
	return strings.Trim(out.String(), "._")
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), target) {
			return true
		}
	}
	return false
}
