package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Almacen-api/internal/application/alerting"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/config"
)

var _ alerting.Notifier = (*EmailNotifier)(nil)

// EmailNotifier envía las alertas por correo vía SMTP. Un fallo de envío se
// reporta al registro de observadores, que lo aísla del resto.
type EmailNotifier struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewEmailNotifier construye el transporte SMTP desde la configuración.
func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.From, cfg.Password),
	}
}

// Notify envía la alerta a los destinatarios configurados.
func (n *EmailNotifier) Notify(kind string, product *entity.Product, message string) error {
	if len(n.cfg.Recipients) == 0 {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.Recipients...)
	m.SetHeader("Subject", fmt.Sprintf("[%s] Alerta de stock: %s", kind, product.Name))
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Alerta de stock: %s</h2>
		<p>%s</p>
		<table>
			<tr><td><b>Producto</b></td><td>%s</td></tr>
			<tr><td><b>SKU</b></td><td>%s</td></tr>
			<tr><td><b>Stock actual</b></td><td>%d %s</td></tr>
			<tr><td><b>Stock mínimo</b></td><td>%d</td></tr>
			<tr><td><b>Ubicación</b></td><td>%s</td></tr>
		</table>`,
		kind, message, product.Name, product.SKU,
		product.CurrentStock, product.Unit, product.MinStockLevel, product.Location,
	))
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	return nil
}
