package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"

	"storefront-service/domain"
	"storefront-service/infra/utils"
)

// NotificationWorker consumes purchase and admin events from the broker
// and mails a summary to the operator inbox. Event delivery is at least
// once; a mail failure requeues, a malformed body is dropped.
type NotificationWorker struct {
	ID        int
	broker    domain.BrokerInterface
	smtp      domain.SMTPInterface
	notifyTo  string
	templates *template.Template
}

const purchaseEmailTemplate = `
<html>
<body>
<h2>New purchase on {{.SiteName}}</h2>
<p><strong>{{.VideoTitle}}</strong> was purchased via {{.Path}} for ${{printf "%.2f" .Price}}.</p>
<p>Video ID: {{.VideoID}}<br>Time: {{.OccurredAt}}</p>
</body>
</html>`

type purchaseEmailData struct {
	SiteName   string
	VideoTitle string
	VideoID    string
	Path       string
	Price      float64
	OccurredAt string
}

func NewNotificationWorker(id int, broker domain.BrokerInterface, smtp domain.SMTPInterface) *NotificationWorker {
	return &NotificationWorker{
		ID:        id,
		broker:    broker,
		smtp:      smtp,
		notifyTo:  utils.GetEnv("NOTIFY_EMAIL", "admin@videosplus.local"),
		templates: template.Must(template.New("purchase").Parse(purchaseEmailTemplate)),
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	log.Printf("Notification Worker %d started", w.ID)

	msgs, err := w.broker.SubscribeEvents()
	if err != nil {
		log.Printf("Worker %d: Failed to subscribe to events queue: %v", w.ID, err)
		return
	}

	for msg := range msgs {
		select {
		case <-ctx.Done():
			log.Printf("Notification Worker %d stopping...", w.ID)
			return
		default:
			switch {
			case msg.RoutingKey == "storefront.purchase.completed":
				var event domain.PurchaseEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					log.Printf("Worker %d: Error parsing purchase event: %v", w.ID, err)
					msg.Nack(false, false)
					continue
				}
				if err := w.sendPurchaseEmail(event); err != nil {
					log.Printf("Worker %d: Error sending purchase email: %v", w.ID, err)
					msg.Nack(false, true)
					continue
				}
				msg.Ack(false)

			default:
				// Admin events are audit-only for now, no email.
				msg.Ack(false)
			}
		}
	}
}

func (w *NotificationWorker) sendPurchaseEmail(event domain.PurchaseEvent) error {
	data := purchaseEmailData{
		SiteName:   domain.DefaultSiteName,
		VideoTitle: event.VideoTitle,
		VideoID:    event.VideoID,
		Path:       event.Path,
		Price:      event.Price,
		OccurredAt: event.OccurredAt,
	}

	var buf bytes.Buffer
	if err := w.templates.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render purchase email: %w", err)
	}

	subject := fmt.Sprintf("New purchase: %s", event.VideoTitle)
	if err := w.smtp.SendEmail(w.notifyTo, subject, buf.String()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Worker %d: Purchase email sent to %s for video %s", w.ID, w.notifyTo, event.VideoID)
	return nil
}
