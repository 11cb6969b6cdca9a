// Package email sends admin payment receipts over SMTP.
package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	sharedConfig "github.com/autopro-kz/autopro/internal/shared/config"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const receiptTimeLayout = "02.01.2006 15:04"

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config sharedConfig.EmailConfig
	dialer sender
	logger logger.Interface
}

func NewSMTPEmailService(config sharedConfig.EmailConfig, logger logger.Interface) *SMTPEmailService {
	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
		logger: logger,
	}
}

// IsConfigured reports whether an SMTP host and an admin mailbox are set.
func IsConfigured(config sharedConfig.EmailConfig) bool {
	return config.SMTPHost != "" && config.AdminAddress != "" && config.FromAddress != ""
}

var _ paymentUsecases.AdminPaymentNotifier = (*SMTPEmailService)(nil)

// NotifyPaymentSuccess mails a receipt to the admin address.
func (s *SMTPEmailService) NotifyPaymentSuccess(ctx context.Context, cmd paymentUsecases.AdminPaymentCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("Оплата подписки %s: %d ₸", cmd.PlanCode, cmd.AmountKZT)
	rows := [][2]string{
		{"Тариф", fmt.Sprintf("%s (%s)", cmd.PlanName, cmd.PlanCode)},
		{"Сумма", fmt.Sprintf("%d ₸", cmd.AmountKZT)},
		{"Владелец", fmt.Sprintf("#%d", cmd.OwnerID)},
		{"Подписка", fmt.Sprintf("#%d", cmd.SubscriptionID)},
		{"Провайдер", cmd.Provider},
		{"ID платежа", cmd.ExternalID},
		{"Действует до", biztime.ToBizTimezone(cmd.ValidUntil).Format(receiptTimeLayout)},
		{"Оплачено", biztime.ToBizTimezone(cmd.PaidAt).Format(receiptTimeLayout)},
	}

	var plain, htmlBody strings.Builder
	htmlBody.WriteString("<html><body><h2>Оплата подписки</h2><table>")
	for _, r := range rows {
		fmt.Fprintf(&plain, "%s: %s\n", r[0], r[1])
		fmt.Fprintf(&htmlBody, "<tr><td><b>%s</b></td><td>%s</td></tr>", html.EscapeString(r[0]), html.EscapeString(r[1]))
	}
	htmlBody.WriteString("</table></body></html>")

	if err := s.sendEmail(s.config.AdminAddress, subject, htmlBody.String(), plain.String()); err != nil {
		return err
	}

	s.logger.Infow("payment receipt emailed", "transaction_id", cmd.TransactionID, "to", s.config.AdminAddress)
	return nil
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
