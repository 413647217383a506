package crowdfunding

import (
	"log/slog"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/logger"
	"campus-activity/internal/global/pictureBed"
	"campus-activity/internal/module/identity"
)

var (
	log     *slog.Logger = logger.New("Crowdfunding")
	service *Service
)

type ModuleCrowdfunding struct{}

func (m *ModuleCrowdfunding) GetName() string {
	return "Crowdfunding"
}

func (m *ModuleCrowdfunding) Init() {
	log = logger.New("Crowdfunding")
	var opts []Option
	if pictureBed.Default != nil {
		opts = append(opts, WithStorage(pictureBed.Default))
	} else {
		log.Warn("未配置对象存储，经费凭证上传不可用")
	}
	service = NewService(database.DB, identity.Default, opts...)
}
