package mailer

import (
	"context"
	"fmt"

	"github.com/justkurama/django2024-tsis2/config"
	"go.uber.org/zap"
)

// Message 一封待发送的纯文本邮件
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
}

// Mailer 出站邮件接口
// 发送失败由调用方（通知 Worker）记日志吸收，不向上传播到触发请求
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// New 按配置选择邮件后端
func New(cfg *config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Backend {
	case "sendgrid":
		return NewSendgridMailer(cfg, logger), nil
	case "console":
		return NewConsoleMailer(logger), nil
	default:
		return nil, fmt.Errorf("未知的邮件后端: %q", cfg.Backend)
	}
}
