package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendOrderConfirmation(ctx context.Context, email, name, orderNumber string, total int64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour order %s is confirmed. Amount charged: %d.\n\nWe will let you know when it ships.", name, orderNumber, total)
	return s.send(email, name, fmt.Sprintf("Order %s confirmed", orderNumber), body)
}

func (s *emailService) SendOrderShipped(ctx context.Context, email, name, orderNumber string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour order %s has shipped and is on its way.", name, orderNumber)
	return s.send(email, name, fmt.Sprintf("Order %s shipped", orderNumber), body)
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, name, orderNumber string, daysLate int) error {
	body := fmt.Sprintf("Hello %s,\n\nOrder %s is %d day(s) past its return date. Late fees accrue daily, please return the items as soon as possible.", name, orderNumber, daysLate)
	return s.send(email, name, fmt.Sprintf("Order %s is overdue", orderNumber), body)
}

func (s *emailService) SendSettlementSummary(ctx context.Context, email, name, orderNumber string, lateFee, damageFee, refund int64) error {
	body := fmt.Sprintf("Hello %s,\n\nOrder %s has been inspected.\n\nLate fee: %d\nDamage fee: %d\nDeposit refund: %d\n\nThank you for renting with us.",
		name, orderNumber, lateFee, damageFee, refund)
	return s.send(email, name, fmt.Sprintf("Deposit settlement for order %s", orderNumber), body)
}
