// Package notify delivers customer notifications through a redis-backed
// queue so engine transactions never wait on SMTP.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"flipfit/internal/logger"
	"flipfit/internal/metrics"
	"flipfit/internal/user"
)

const (
	queueKey   = "notifications"
	maxRetries = 3
)

type Job struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Type    string    `json:"type"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis    *redis.Client
	users    user.Repository
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(users user.Repository, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		users:    users,
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	job.Created = time.Now()

	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(payload)).Err(); err != nil {
		return err
	}

	metrics.NotificationsQueuedTotal.WithLabelValues(job.Type).Inc()
	return nil
}

// BookingConfirmed queues a confirmation for a committed reservation. Errors
// are logged only; the booking already exists.
func (s *Service) BookingConfirmed(ctx context.Context, customerID int, gymName string, startsAt time.Time) {
	u, err := s.users.FindByID(ctx, customerID)
	if err != nil {
		logger.Error("booking confirmation skipped", "customer_id", customerID, "error", err.Error())
		return
	}

	job := Job{
		To:      u.Email,
		Name:    u.Name,
		Subject: "Booking confirmed",
		Body: fmt.Sprintf("Hi %s, your slot at %s on %s is booked.",
			u.Name, gymName, startsAt.Format("Jan 2, 2006 at 3:04 PM")),
		Type: "booking_confirmed",
	}
	if err := s.enqueue(ctx, job); err != nil {
		logger.Error("failed to queue booking confirmation", "customer_id", customerID, "error", err.Error())
	}
}

// RefundIssued queues a refund notice for a customer whose future bookings
// were destroyed by a gym deletion.
func (s *Service) RefundIssued(ctx context.Context, email, name string, amountCents int64) {
	job := Job{
		To:      email,
		Name:    name,
		Subject: "Refund issued",
		Body: fmt.Sprintf("Hi %s, a gym you had bookings at was removed. %.2f was returned to your wallet.",
			name, float64(amountCents)/100),
		Type: "refund_issued",
	}
	if err := s.enqueue(ctx, job); err != nil {
		logger.Error("failed to queue refund notice", "email", email, "error", err.Error())
	}
}

// Start drains the queue until the context is cancelled. Failed deliveries
// are re-queued up to maxRetries.
func (s *Service) Start(ctx context.Context) {
	logger.Info("notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopped")
			return
		default:
		}

		res, err := s.redis.BRPop(ctx, 5*time.Second, queueKey).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			logger.Error("notification queue read failed", "error", err.Error())
			time.Sleep(time.Second)
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			logger.Error("dropping malformed notification job", "error", err.Error())
			continue
		}

		if err := s.deliver(job); err != nil {
			job.Tries++
			if job.Tries < maxRetries {
				if payload, merr := json.Marshal(job); merr == nil {
					s.redis.LPush(ctx, queueKey, payload)
				}
			} else {
				logger.Error("dropping notification after retries", "to", job.To, "type", job.Type)
			}
		}
	}
}

func (s *Service) deliver(job Job) error {
	if s.smtpHost == "" {
		logger.Debug("smtp not configured, logging notification", "to", job.To, "subject", job.Subject)
		return nil
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.fromName, s.from, job.To, job.Subject, job.Body)

	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	addr := s.smtpHost + ":" + s.smtpPort

	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(msg))
}
