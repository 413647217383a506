package pictureBed

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	defaultUploadExpire   = 15 * time.Minute
	defaultDownloadExpire = time.Hour
)

// PresignedUploadRequest 预签名上传请求参数
type PresignedUploadRequest struct {
	Dir         string        // key 前缀下的子目录，例如 proofs/12
	Filename    string        // 原始文件名，只取扩展名
	ContentType string        // 文件 MIME 类型
	ExpiresIn   time.Duration // 默认 15 分钟
}

// PresignedUploadResponse 预签名上传响应
type PresignedUploadResponse struct {
	UploadURL string            `json:"upload_url"`
	FileKey   string            `json:"file_key"`
	FileURL   string            `json:"file_url"`
	ExpiresAt time.Time         `json:"expires_at"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
}

// ObjectKey 生成对象 key：prefix/dir/时间戳.ext
func (pb *PictureBed) ObjectKey(dir, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	key := path.Join(strings.Trim(pb.Prefix, "/"), strings.Trim(dir, "/"), fmt.Sprintf("%d%s", now.UnixNano(), ext))
	return strings.TrimLeft(key, "/")
}

// FileURL 对象的公开访问地址
func (pb *PictureBed) FileURL(key string) string {
	base := strings.TrimRight(pb.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(pb.Endpoint, "/")
	}
	if pb.UsePathStyle {
		return base + "/" + pb.Bucket + "/" + key
	}
	return base + "/" + key
}

// GeneratePresignedUploadURL 生成前端直传用的 PUT URL
func (pb *PictureBed) GeneratePresignedUploadURL(ctx context.Context, req PresignedUploadRequest) (*PresignedUploadResponse, error) {
	if pb.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket 未配置")
	}
	if req.Filename == "" {
		return nil, fmt.Errorf("文件名不能为空")
	}
	if err := pb.InitS3(ctx); err != nil {
		return nil, err
	}
	if req.ExpiresIn <= 0 {
		req.ExpiresIn = defaultUploadExpire
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := pb.ObjectKey(req.Dir, req.Filename, time.Now())
	presigned, err := s3.NewPresignClient(pb.s3Client).PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(pb.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(req.ExpiresIn))
	if err != nil {
		return nil, fmt.Errorf("生成预签名 URL 失败: %w", err)
	}

	resp := &PresignedUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   key,
		FileURL:   pb.FileURL(key),
		ExpiresAt: time.Now().Add(req.ExpiresIn),
		Method:    presigned.Method,
		Headers:   map[string]string{"Content-Type": contentType},
	}
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			resp.Headers[k] = v[0]
		}
	}
	return resp, nil
}

// GeneratePresignedDownloadURL 私有对象的临时下载地址
func (pb *PictureBed) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	if err := pb.InitS3(ctx); err != nil {
		return "", err
	}
	if expiresIn <= 0 {
		expiresIn = defaultDownloadExpire
	}
	presigned, err := s3.NewPresignClient(pb.s3Client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(pb.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", fmt.Errorf("生成预签名下载 URL 失败: %w", err)
	}
	return presigned.URL, nil
}
