// internal/services/notification_service.go
package services

import (
	"fmt"
	"net/smtp"

	"github.com/stocksense/inventory-backend/internal/config"
	"github.com/stocksense/inventory-backend/internal/models"
)

// NotificationService sends operational email: account lifecycle messages and
// the administrator stock alerts raised during forecast ingestion.
type NotificationService struct {
	config *config.Config
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{config: config}
}

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nWelcome to %s! Your account has been successfully created for %s.\n\nStart adding products, get your predictions, and track your inventory.\n%s Team",
		user.Username, s.config.Email.FromName, user.CompanyName, s.config.Email.FromName)

	return s.sendEmail(user.Email, "Welcome to "+s.config.Email.FromName, body)
}

func (s *NotificationService) SendLoginAlertEmail(user *models.User) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYou have successfully logged into your account on %s.\n%s Team",
		user.Username, s.config.Email.FromName, s.config.Email.FromName)

	return s.sendEmail(user.Email, "Login Alert - "+s.config.Email.FromName, body)
}

// SendStockAlert implements AlertNotifier.
func (s *NotificationService) SendStockAlert(recipient string, alert StockAlert) error {
	subject := fmt.Sprintf("%s alert for product %s", alert.Status, alert.ProductID)
	body := fmt.Sprintf(
		"Product %s has been classified as %s.\n\nCurrent stock: %d units\nPredicted 30-day demand: %g units\n\nConsider restocking before demand outpaces supply.",
		alert.ProductID, alert.Status, alert.StockQuantity, alert.Predicted30DayDemand)

	return s.sendEmail(recipient, subject, body)
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		fmt.Printf("Email would be sent to %s: %s\n", to, subject)
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}
