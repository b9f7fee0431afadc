package service

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"blogforge-backend/internal/config"
	"blogforge-backend/pkg/logger"
)

// EmailService sends transactional mail over SMTP. A disabled service drops
// messages silently so callers never branch on configuration.
type EmailService struct {
	cfg     *config.Config
	enabled bool
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		cfg:     cfg,
		enabled: cfg.EnableEmail && cfg.SMTPHost != "",
	}
}

func (s *EmailService) Enabled() bool { return s.enabled }

func (s *EmailService) Send(to, subject, htmlBody string) error {
	if !s.enabled {
		return nil
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", s.cfg.SiteName, s.cfg.SMTPFrom)
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(htmlBody)

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	if err := e.Send(addr, auth); err != nil {
		logger.Error(err, "Failed to send email", map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return err
	}

	logger.Debug("Email sent", map[string]interface{}{"to": to, "subject": subject})
	return nil
}

func (s *EmailService) SendCommentNotification(to, postTitle, commentAuthor string) error {
	subject := fmt.Sprintf("Новый комментарий к посту «%s»", postTitle)
	body := fmt.Sprintf(
		`<p>Пользователь <b>%s</b> оставил комментарий к вашему посту «%s».</p>
<p><a href="%s">Перейти на сайт</a></p>`,
		commentAuthor, postTitle, s.cfg.SiteURL,
	)
	return s.Send(to, subject, body)
}

func (s *EmailService) SendCommentApproved(to, postTitle string) error {
	subject := "Ваш комментарий одобрен"
	body := fmt.Sprintf(
		`<p>Ваш комментарий к посту «%s» прошел модерацию и опубликован.</p>
<p><a href="%s">Перейти на сайт</a></p>`,
		postTitle, s.cfg.SiteURL,
	)
	return s.Send(to, subject, body)
}
