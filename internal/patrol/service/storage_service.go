package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fieldray/patrol/internal/config"
	"github.com/minio/minio-go/v7"
)

// StorageService 对象存储服务：巡检参考图上传
type StorageService struct {
	client *minio.Client
	cfg    *config.Config
}

// NewStorageService 创建对象存储服务
func NewStorageService(client *minio.Client, cfg *config.Config) *StorageService {
	return &StorageService{client: client, cfg: cfg}
}

// UploadResult 上传结果
type UploadResult struct {
	ObjectName  string `json:"object_name"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Upload 上传文件到对象存储，对象名为 {kind}_{时间戳}.{扩展名}，
// 返回可直接引用的公开URL。kind 标识用途（asset/template 等）。
func (s *StorageService) Upload(ctx context.Context, kind, filename, contentType string, reader io.Reader, size int64) (*UploadResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("对象存储未配置")
	}

	if kind == "" {
		kind = "upload"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectName := fmt.Sprintf("%s_%d%s", kind, time.Now().UnixNano(), ext)

	_, err := s.client.PutObject(ctx, s.cfg.MinIO.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("上传文件失败: %w", err)
	}

	return &UploadResult{
		ObjectName:  objectName,
		URL:         s.PublicURL(objectName),
		Size:        size,
		ContentType: contentType,
	}, nil
}

// PublicURL 拼接对象的公开访问地址
func (s *StorageService) PublicURL(objectName string) string {
	base := s.cfg.MinIO.PublicURL
	if base == "" {
		scheme := "http"
		if s.cfg.MinIO.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, s.cfg.MinIO.Endpoint)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), s.cfg.MinIO.Bucket, objectName)
}
