package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/justkurama/django2024-tsis2/config"
)

// sendgridMailer SendGrid 后端
type sendgridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger *zap.Logger
}

var _ Mailer = (*sendgridMailer)(nil)

// NewSendgridMailer 创建 SendGrid 邮件后端
func NewSendgridMailer(cfg *config.MailConfig, logger *zap.Logger) Mailer {
	return &sendgridMailer{
		client: sendgrid.NewSendClient(cfg.SendgridKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
		logger: logger,
	}
}

func (m *sendgridMailer) Send(ctx context.Context, msg *Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToAddress)
	mail := sgmail.NewSingleEmailPlainText(m.from, msg.Subject, to, msg.Body)

	resp, err := m.client.SendWithContext(ctx, mail)
	if err != nil {
		return fmt.Errorf("SendGrid 发送失败: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("SendGrid 返回异常状态 %d: %s", resp.StatusCode, resp.Body)
	}

	m.logger.Info("邮件已发送",
		zap.String("to", msg.ToAddress),
		zap.String("subject", msg.Subject),
	)
	return nil
}
