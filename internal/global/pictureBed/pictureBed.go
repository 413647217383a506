package pictureBed

import (
	"context"
	"fmt"
	"sync"

	"campus-activity/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PictureBed 基于 S3 兼容对象存储的凭证图片床
// 前端拿预签名 URL 直传，后端只保存对象 key
type PictureBed struct {
	Endpoint        string
	BaseURL         string
	Bucket          string
	Region          string
	AccessKey       string
	SecretAccessKey string
	Prefix          string
	UsePathStyle    bool

	once     sync.Once
	initErr  error
	s3Client *s3.Client
}

var Default *PictureBed

func NewPictureBed(cfg config.S3) *PictureBed {
	return &PictureBed{
		Endpoint:        cfg.Endpoint,
		BaseURL:         cfg.BaseURL,
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		AccessKey:       cfg.AccessKey,
		SecretAccessKey: cfg.SecretAccessKey,
		Prefix:          cfg.Prefix,
		UsePathStyle:    cfg.UsePathStyle,
	}
}

// Init 未配置 bucket 时 Default 为 nil
func Init() {
	if cfg := config.Get().S3; cfg.Enabled() {
		Default = NewPictureBed(cfg)
	}
}

// InitS3 懒加载 S3 客户端，只初始化一次
func (pb *PictureBed) InitS3(ctx context.Context) error {
	pb.once.Do(func() {
		region := pb.Region
		if region == "" {
			region = "us-east-1"
		}
		opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
		if pb.AccessKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(pb.AccessKey, pb.SecretAccessKey, ""),
			))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			pb.initErr = fmt.Errorf("加载 S3 配置失败: %w", err)
			return
		}
		pb.s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if pb.Endpoint != "" {
				o.BaseEndpoint = aws.String(pb.Endpoint)
			}
			o.UsePathStyle = pb.UsePathStyle
		})
	})
	return pb.initErr
}
