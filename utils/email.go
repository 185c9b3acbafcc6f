// utils/email.go
package utils

import (
	"fmt"
	"html"
	"strings"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"livwell/models"
)

// Email providers understood by NewEmailService
const (
	EmailPostmark = "postmark"
	EmailSendgrid = "sendgrid"
	EmailLogOnly  = ""
)

// ItemNamer labels an order line for the customer
type ItemNamer interface {
	ItemName(item models.CartItem) string
}

// EmailConfig selects and configures the provider. Without Items, catalog
// lines are labelled by product id.
type EmailConfig struct {
	Provider      string
	PostmarkToken string
	SendgridKey   string
	Sender        string
	StoreName     string
	Currency      string
	Items         ItemNamer
}

// EmailService sends transactional mail through Postmark or SendGrid, or
// only logs it when no provider is configured
type EmailService struct {
	cfg     EmailConfig
	log     *logrus.Logger
	deliver func(to, subject, html string) error
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(cfg EmailConfig, log *logrus.Logger) (*EmailService, error) {
	es := &EmailService{cfg: cfg, log: log}

	switch strings.ToLower(cfg.Provider) {
	case EmailPostmark:
		if cfg.PostmarkToken == "" {
			return nil, fmt.Errorf("POSTMARK_API_TOKEN is not set")
		}
		client := postmark.NewClient(cfg.PostmarkToken, "")
		es.deliver = func(to, subject, html string) error {
			_, err := client.SendEmail(postmark.Email{
				From:     cfg.Sender,
				To:       to,
				Subject:  subject,
				HtmlBody: html,
				TextBody: html,
			})
			return err
		}
	case EmailSendgrid:
		if cfg.SendgridKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is not set")
		}
		client := sendgrid.NewSendClient(cfg.SendgridKey)
		es.deliver = func(to, subject, html string) error {
			msg := mail.NewSingleEmail(mail.NewEmail(cfg.StoreName, cfg.Sender), subject, mail.NewEmail("", to), html, html)
			resp, err := client.Send(msg)
			if err != nil {
				return err
			}
			if resp.StatusCode >= 400 {
				return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
			}
			return nil
		}
	case EmailLogOnly:
		es.deliver = func(to, subject, _ string) error {
			log.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("email not sent, no provider configured")
			return nil
		}
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
	return es, nil
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if err := es.deliver(toEmail, subject, htmlContent); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	es.log.WithField("to", toEmail).Debug("email sent")
	return nil
}

func (es *EmailService) itemName(it models.CartItem) string {
	if it.IsCustom || es.cfg.Items == nil {
		if it.CustomName != "" {
			return it.CustomName
		}
		return it.JuiceID + it.DishID
	}
	return es.cfg.Items.ItemName(it)
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := fmt.Sprintf("%s order confirmation", es.cfg.StoreName)

	var lines strings.Builder
	for _, it := range order.Items {
		fmt.Fprintf(&lines, "<li>%s × %d</li>", html.EscapeString(es.itemName(it)), it.Quantity)
	}

	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your order! Your order (ID: %s) has been placed successfully.<ul>%s</ul>Total Amount: <strong>%s %s</strong><br>Payment Method: <strong>%s</strong><br>Delivery to: %s<br><br>Thank you for shopping with %s!",
		order.ID,
		lines.String(),
		es.cfg.Currency,
		order.Total.StringFixed(2),
		strings.ToUpper(string(order.PaymentMethod)),
		html.EscapeString(order.Address),
		es.cfg.StoreName,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
