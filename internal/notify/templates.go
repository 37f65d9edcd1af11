package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
)

var templateFuncs = template.FuncMap{
	// multiline escapes s and keeps its line breaks
	"multiline": func(s string) template.HTML {
		escaped := template.HTMLEscapeString(s)
		return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	},
	"money": func(v float64) string {
		return fmt.Sprintf("$%.2f", v)
	},
	"lineTotal": func(it models.CartItem) string {
		return fmt.Sprintf("$%.2f", it.Price*float64(it.Quantity))
	},
	"stamp": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
}

const layoutHead = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">`

const layoutFoot = `
</div>
</body>
</html>`

var contactTmpl = template.Must(template.New("contact").Funcs(templateFuncs).Parse(layoutHead + `
<h2 style="color: #dc2626;">New Contact Form Submission</h2>
<div style="background: #f9fafb; padding: 20px; border-radius: 8px;">
  <p><strong>Name:</strong> {{.Record.Name}}</p>
  <p><strong>Email:</strong> <a href="mailto:{{.Record.Email}}">{{.Record.Email}}</a></p>
  {{if .Record.Phone}}<p><strong>Phone:</strong> {{.Record.Phone}}</p>{{end}}
  <p><strong>Message:</strong></p>
  <div style="background: white; padding: 15px; border-left: 4px solid #dc2626;">{{multiline .Record.Message}}</div>
</div>
<p style="color: #6b7280; font-size: 14px;">Submitted on: {{stamp .Record.CreatedAt}}</p>` + layoutFoot))

var orderTmpl = template.Must(template.New("order").Funcs(templateFuncs).Parse(layoutHead + `
<h2 style="color: #059669;">New Order Submission</h2>
<div style="background: #f0fdf4; padding: 20px; border-radius: 8px; border-left: 4px solid #059669;">
  <p><strong>Customer Name:</strong> {{.Record.CustomerName}}</p>
  <p><strong>Email:</strong> <a href="mailto:{{.Record.CustomerEmail}}">{{.Record.CustomerEmail}}</a></p>
  {{if .Record.CustomerPhone}}<p><strong>Phone:</strong> {{.Record.CustomerPhone}}</p>{{end}}
  <p><strong>Product:</strong> {{.Record.ProductName}}{{if .Record.ProductID}} ({{.Record.ProductID}}){{end}}</p>
  <p><strong>Quantity:</strong> {{.Record.Quantity}}</p>
  <p><strong>Price:</strong> {{money .Record.Price}}</p>
  <p><strong>Payment status:</strong> {{.Record.PaymentStatus}}</p>
</div>
<p style="color: #6b7280; font-size: 14px;">Submitted on: {{stamp .Record.CreatedAt}}</p>` + layoutFoot))

var tracksuitAdminTmpl = template.Must(template.New("tracksuit-admin").Funcs(templateFuncs).Parse(layoutHead + `
<h2 style="color: #059669;">New Tracksuit Order Received!</h2>
<div style="background: #f0fdf4; padding: 20px; border-radius: 8px; border-left: 4px solid #059669;">
  <h3 style="margin-top: 0;">Customer Information</h3>
  <p><strong>Name:</strong> {{.Record.Name}}</p>
  <p><strong>Email:</strong> <a href="mailto:{{.Record.Email}}">{{.Record.Email}}</a></p>
  <p><strong>WhatsApp:</strong> {{.Record.WhatsApp}}</p>
  <p><strong>Delivery Address:</strong></p>
  <div style="background: white; padding: 15px;">{{multiline .Record.DeliveryAddress}}</div>
</div>
<div style="background: #f9fafb; padding: 20px; border-radius: 8px;">
  <h3 style="margin-top: 0;">Order Items</h3>
  <ul>{{range .Record.CartItems}}
    <li><strong>{{.ItemName}}</strong> ({{.Category}}) - Size: {{.SelectedSize}} - Qty: {{.Quantity}} - {{lineTotal .}}</li>{{end}}
  </ul>
  <p><strong>Total Quantity:</strong> {{.Record.TotalQuantity}}</p>
  <p><strong>Total Amount Paid:</strong> {{money .Record.TotalPrice}}</p>
  <p><strong>Payment ID:</strong> {{if .Record.PaymentID}}{{.Record.PaymentID}}{{else}}N/A{{end}}</p>
</div>
{{if .Record.ReferralCode}}<div style="background: #fef3c7; padding: 15px; border-radius: 8px;">
  <h3 style="margin-top: 0;">Referral Information</h3>
  <p><strong>Referral Code Used:</strong> {{.Record.ReferralCode}}</p>
  {{if .Record.ReferredBy}}<p><strong>Referred By:</strong> {{.Record.ReferredBy}}</p>{{end}}
</div>{{end}}
<p style="color: #6b7280; font-size: 14px;">Order received on {{stamp .Record.CreatedAt}}</p>` + layoutFoot))

var tracksuitCustomerTmpl = template.Must(template.New("tracksuit-customer").Funcs(templateFuncs).Parse(layoutHead + `
<h2 style="color: #059669;">Thank you for your order, {{.Record.Name}}!</h2>
<p>We have received your tracksuit order and will contact you on WhatsApp ({{.Record.WhatsApp}}) to arrange delivery.</p>
<div style="background: #f9fafb; padding: 20px; border-radius: 8px;">
  <ul>{{range .Record.CartItems}}
    <li>{{.ItemName}} - Size: {{.SelectedSize}} - Qty: {{.Quantity}} - {{lineTotal .}}</li>{{end}}
  </ul>
  <p><strong>Total:</strong> {{money .Record.TotalPrice}} for {{.Record.TotalQuantity}} item(s)</p>
  <p><strong>Delivery Address:</strong><br>{{multiline .Record.DeliveryAddress}}</p>
</div>
<p style="color: #6b7280; font-size: 12px;">Order reference: {{.Record.ID}}</p>` + layoutFoot))

func render(t *template.Template, title string, record any) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Title  string
		Record any
	}{title, record}
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// ContactNotification is the admin e-mail for a new contact message
func ContactNotification(c *models.ContactMessage, to string) (Email, error) {
	html, err := render(contactTmpl, "New Contact Form Submission", c)
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "New Contact Form Submission from " + c.Name, HTML: html}, nil
}

// OrderNotification is the admin e-mail for a new simple order
func OrderNotification(o *models.Order, to string) (Email, error) {
	html, err := render(orderTmpl, "New Order Submission", o)
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: fmt.Sprintf("New Order from %s - %s", o.CustomerName, o.ProductName), HTML: html}, nil
}

// TracksuitOrderNotification is the admin e-mail for a new tracksuit order
func TracksuitOrderNotification(o *models.TracksuitOrder, to string) (Email, error) {
	html, err := render(tracksuitAdminTmpl, "New Tracksuit Order", o)
	if err != nil {
		return Email{}, err
	}
	subject := fmt.Sprintf("New Tracksuit Order from %s - %d items ($%.2f)", o.Name, o.TotalQuantity, o.TotalPrice)
	return Email{To: to, Subject: subject, HTML: html}, nil
}

// CustomerConfirmation is the e-mail sent to the buyer of a tracksuit order
func CustomerConfirmation(o *models.TracksuitOrder) (Email, error) {
	html, err := render(tracksuitCustomerTmpl, "Order Confirmation", o)
	if err != nil {
		return Email{}, err
	}
	return Email{To: o.Email, Subject: "Your tracksuit order is confirmed", HTML: html}, nil
}
