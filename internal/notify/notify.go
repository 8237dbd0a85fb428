// Package notify sends transactional email through Resend. It is an
// optional dependency the same way internal/platform/storage.S3Client
// is: callers hold a *Client that no-ops when ResendAPIKey is unset,
// rather than branching on nil everywhere a notice might fire.
package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/jobscout/scouter/internal/config"
	"github.com/jobscout/scouter/internal/platform/logger"
)

// Client sends the platform's transactional emails.
type Client struct {
	resend  *resend.Client
	from    string
	enabled bool
	log     *logger.Logger
}

func NewClient(cfg config.NotifyConfig, log *logger.Logger) *Client {
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		return &Client{enabled: false, log: log}
	}
	return &Client{
		resend:  resend.NewClient(cfg.ResendAPIKey),
		from:    cfg.FromEmail,
		enabled: true,
		log:     log,
	}
}

// LowBalance warns a user their balance dropped below the threshold
// C8's metered debit path checks after every successful charge.
func (c *Client) LowBalance(ctx context.Context, toEmail string, balanceUSD float64) error {
	return c.send(ctx, toEmail, "Your JobScout balance is running low",
		fmt.Sprintf("<p>Your balance is now $%.2f. Add credits to keep automated scoring and resume tailoring running.</p>", balanceUSD))
}

// AdminGrant confirms a credit grant an admin applied to a user's
// account via a CreditTransaction of type admin_grant.
func (c *Client) AdminGrant(ctx context.Context, toEmail string, amountUSD float64, description string) error {
	return c.send(ctx, toEmail, "Credits added to your JobScout account",
		fmt.Sprintf("<p>$%.2f was added to your balance: %s.</p>", amountUSD, description))
}

func (c *Client) send(ctx context.Context, toEmail, subject, html string) error {
	if !c.enabled {
		return nil
	}
	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}
	if _, err := c.resend.Emails.Send(params); err != nil {
		if c.log != nil {
			c.log.WithError("notify_send_failed").Sugar().Errorw("failed to send email", "to", toEmail, "subject", subject, "error", err)
		}
		return fmt.Errorf("notify: send: %w", err)
	}
	return nil
}
