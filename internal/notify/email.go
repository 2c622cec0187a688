package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/Yann31150/Rechercheannonces/internal/config"
	"github.com/Yann31150/Rechercheannonces/internal/models"
)

var ErrIncompleteConfig = errors.New("incomplete smtp configuration")

// Notifier sends the new-postings digest over SMTP with STARTTLS.
type Notifier struct {
	cfg    config.SMTPConfig
	logger zerolog.Logger
	now    func() time.Time
}

func NewNotifier(cfg config.SMTPConfig, logger zerolog.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		logger: logger.With().Str("component", "notify").Logger(),
		now:    time.Now,
	}
}

// Send delivers the digest of newJobs to the configured recipient. totalJobs
// is the size of the full snapshot, quoted in the statistics block.
func (n *Notifier) Send(ctx context.Context, newJobs []models.Job, totalJobs int) error {
	if n.cfg.Server == "" || n.cfg.Username == "" || n.cfg.Password == "" || n.cfg.Recipient == "" {
		return ErrIncompleteConfig
	}

	sender := n.cfg.Sender
	if sender == "" {
		sender = n.cfg.Username
	}

	now := n.now()
	msg := mail.NewMsg()
	if err := msg.From(sender); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(n.cfg.Recipient); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(fmt.Sprintf("%d nouvelle(s) offre(s) Data - %s", len(newJobs), now.Format("02/01/2006")))
	msg.SetBodyString(mail.TypeTextPlain, textBody(newJobs, totalJobs, now))
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody(newJobs, totalJobs, now))

	client, err := mail.NewClient(n.cfg.Server,
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Username),
		mail.WithPassword(n.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	n.logger.Info().
		Str("server", n.cfg.Server).
		Str("recipient", n.cfg.Recipient).
		Int("new_jobs", len(newJobs)).
		Msg("sending digest")

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

func textBody(newJobs []models.Job, totalJobs int, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "NOUVELLES OFFRES D'EMPLOI DATA\n")
	fmt.Fprintf(&b, "Rapport du %s\n\n", now.Format("02/01/2006 à 15:04"))
	fmt.Fprintf(&b, "STATISTIQUES\n")
	fmt.Fprintf(&b, "%d nouvelle(s) offre(s) détectée(s)\n", len(newJobs))
	fmt.Fprintf(&b, "%d offre(s) au total\n\n", totalJobs)
	fmt.Fprintf(&b, "NOUVELLES OFFRES\n")

	if len(newJobs) == 0 {
		b.WriteString("\nAucune nouvelle offre détectée aujourd'hui.\n")
	}
	for i, job := range newJobs {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, orDefault(job.Title, "Titre non spécifié"))
		fmt.Fprintf(&b, "   Entreprise: %s\n", orDefault(job.Company, "Entreprise non spécifiée"))
		fmt.Fprintf(&b, "   Localisation: %s\n", orDefault(job.Location, "Localisation non spécifiée"))
		fmt.Fprintf(&b, "   Source: %s\n", orDefault(job.Source, "Source inconnue"))
		fmt.Fprintf(&b, "   URL: %s\n", orDefault(job.URL, "-"))
	}

	b.WriteString("\n---\nCet email a été généré automatiquement par votre système de recherche d'emploi.\n")
	return b.String()
}

func htmlBody(newJobs []models.Job, totalJobs int, now time.Time) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"><style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 800px; margin: 0 auto; padding: 20px; }
.header { background-color: #0077b5; color: white; padding: 20px; border-radius: 5px 5px 0 0; }
.content { background-color: #ffffff; padding: 20px; border: 1px solid #ddd; }
.stats { background-color: #e3f2fd; padding: 15px; margin: 20px 0; border-radius: 5px; }
.job { margin-bottom: 20px; padding: 15px; border-left: 4px solid #0077b5; background-color: #f8f9fa; }
.footer { background-color: #f8f9fa; padding: 15px; text-align: center; color: #666; font-size: 12px; }
a { color: #0077b5; }
</style></head><body><div class="container">`)

	fmt.Fprintf(&b, `<div class="header"><h1>Nouvelles offres d'emploi Data</h1><p>Rapport du %s</p></div>`,
		now.Format("02/01/2006 à 15:04"))
	b.WriteString(`<div class="content">`)
	fmt.Fprintf(&b, `<div class="stats"><h2>Statistiques</h2><p><strong>%d</strong> nouvelle(s) offre(s) détectée(s)</p><p><strong>%d</strong> offre(s) au total</p></div>`,
		len(newJobs), totalJobs)
	b.WriteString(`<h2>Nouvelles offres</h2>`)

	if len(newJobs) == 0 {
		b.WriteString(`<p style="padding: 20px; background-color: #fff3cd; border-left: 4px solid #ffc107;">Aucune nouvelle offre détectée aujourd'hui.</p>`)
	}
	for i, job := range newJobs {
		fmt.Fprintf(&b, `<div class="job"><h3>%d. %s</h3>`, i+1, html.EscapeString(orDefault(job.Title, "Titre non spécifié")))
		fmt.Fprintf(&b, `<p><strong>Entreprise:</strong> %s</p>`, html.EscapeString(orDefault(job.Company, "Entreprise non spécifiée")))
		fmt.Fprintf(&b, `<p><strong>Localisation:</strong> %s</p>`, html.EscapeString(orDefault(job.Location, "Localisation non spécifiée")))
		fmt.Fprintf(&b, `<p><strong>Source:</strong> %s</p>`, html.EscapeString(orDefault(job.Source, "Source inconnue")))
		if job.Date != "" {
			fmt.Fprintf(&b, `<p><strong>Date:</strong> %s</p>`, html.EscapeString(job.Date))
		}
		if job.URL != "" {
			fmt.Fprintf(&b, `<p><a href="%s">Voir l'offre</a></p>`, html.EscapeString(job.URL))
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div><div class="footer"><p>Cet email a été généré automatiquement par votre système de recherche d'emploi.</p></div></div></body></html>`)
	return b.String()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
