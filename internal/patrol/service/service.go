package service

import (
	"github.com/fieldray/patrol/internal/config"
	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Services 服务集合
type Services struct {
	Auth     *AuthService
	Profile  *ProfileService
	Asset    *AssetService
	Template *TemplateService
	Plan     *PlanService
	Task     *TaskService
	Record   *RecordService
	Storage  *StorageService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	// 初始化MinIO客户端
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			// MinIO 不可用时降级为无文件上传
			minioClient = nil
		}
	}

	planSvc := NewPlanService(repos.Plan, repos.Template, repos.Task)

	return &Services{
		Auth:     NewAuthService(repos.User, rdb, cfg),
		Profile:  NewProfileService(repos.User),
		Asset:    NewAssetService(repos.Asset),
		Template: NewTemplateService(repos.Template),
		Plan:     planSvc,
		Task:     NewTaskService(repos.Task, repos.Template, repos.Record),
		Record:   NewRecordService(repos.Record),
		Storage:  NewStorageService(minioClient, cfg),
	}
}
