package utils

import (
	"bytes"
	"log"

	"github.com/wneessen/go-mail"

	"trendnest_backend/internal/config"
	"trendnest_backend/internal/models"
)

// Mailer envoie les emails transactionnels via SMTP.
type Mailer struct {
	cfg           config.SMTPConfig
	renderInvoice func(order *models.Order) ([]byte, error)
}

func NewMailer(cfg config.SMTPConfig, baseURL, frontendURL string) *Mailer {
	return &Mailer{
		cfg: cfg,
		renderInvoice: func(order *models.Order) ([]byte, error) {
			qrBase64, err := OrderQRBase64(baseURL, order)
			if err != nil {
				return nil, err
			}
			return RenderInvoicePDF(frontendURL, order, qrBase64)
		},
	}
}

// SendOrderConfirmation envoie la confirmation de commande en HTML, avec la
// facture PDF en pièce jointe. Si le rendu de la facture échoue, l'email part
// quand même sans pièce jointe.
func (m *Mailer) SendOrderConfirmation(user *models.User, order *models.Order) error {
	html := OrderConfirmationHTML(order, user.Username)
	return m.send(user.Email, "Confirmation de votre commande TrendNest", html, m.invoicePDF(order))
}

func (m *Mailer) invoicePDF(order *models.Order) []byte {
	if m.renderInvoice == nil {
		return nil
	}
	pdf, err := m.renderInvoice(order)
	if err != nil {
		log.Println("⚠️ Rendu de la facture PDF échoué:", err)
		return nil
	}
	return pdf
}

func (m *Mailer) send(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture_trendnest.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}
