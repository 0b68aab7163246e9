package email

import (
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"foodbooking/internal/config"
	"foodbooking/internal/logger"
)

// Mailer delivers invoices over SMTP. Sends are best-effort: callers
// log the returned error and move on, a failed delivery never fails the
// checkout that triggered it.
type Mailer struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
	Logger *logger.Logger
}

func NewMailer(cfg config.EmailConfig, log *logger.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		Logger: log,
	}
}

// Configured reports whether outbound mail is set up at all; without
// credentials the checkout skips the email step silently.
func (m *Mailer) Configured() bool {
	return m.cfg.SMTPUsername != "" && m.cfg.SMTPPassword != ""
}

// SendInvoice mails the PDF as an attachment.
func (m *Mailer) SendInvoice(to string, orderID int64, pdf []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromAddress)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Your FoodBooking Invoice #%d", orderID))
	msg.SetBody("text/plain", "Thanks for your order! Your invoice is attached.")
	msg.Attach(fmt.Sprintf("invoice-%d.pdf", orderID), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send invoice mail: %w", err)
	}

	m.Logger.LogEmail("SENT", to, fmt.Sprintf("invoice #%d", orderID))
	return nil
}
