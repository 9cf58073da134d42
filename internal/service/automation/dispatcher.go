// Package automation turns entity change events into notifications using a
// declarative rule table.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/notify-backend/internal/config"
	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/notification"
)

type notifier interface {
	Create(ctx context.Context, input notification.CreateInput) (uuid.UUID, error)
}

type roleDirectory interface {
	EmailsByRoles(ctx context.Context, roles []string, limit int) ([]string, error)
}

type entityReader interface {
	Get(ctx context.Context, entityType, id string) (*domain.Entity, error)
}

// Intent is one notification a rule decided to create.
type Intent struct {
	Rule  string
	Input notification.CreateInput
}

// Dispatcher routes change events to the rules bound to their entity type.
type Dispatcher struct {
	rules    map[string][]rule
	notifier notifier
	lookup   *resolver
	cfg      config.AutomationConfig
	log      *slog.Logger
}

// NewDispatcher creates a dispatcher over the built-in rule table.
func NewDispatcher(
	log *slog.Logger,
	notifier notifier,
	roles roleDirectory,
	entities entityReader,
	cfg config.AutomationConfig,
) *Dispatcher {
	return newDispatcher(log, notifier, roles, entities, cfg, defaultRules)
}

func newDispatcher(
	log *slog.Logger,
	notifier notifier,
	roles roleDirectory,
	entities entityReader,
	cfg config.AutomationConfig,
	table []rule,
) *Dispatcher {
	byType := make(map[string][]rule)
	for _, r := range table {
		byType[r.entityType] = append(byType[r.entityType], r)
	}
	return &Dispatcher{
		rules:    byType,
		notifier: notifier,
		lookup: &resolver{
			roles:      roles,
			entities:   entities,
			adminRoles: cfg.AdminRoles(),
			roleLimit:  cfg.MaxRoleRecipients,
			timeout:    cfg.LookupTimeout,
		},
		cfg: cfg,
		log: log.With("service", "automation"),
	}
}

// Watches reports whether any rule is bound to the entity type.
func (d *Dispatcher) Watches(entityType string) bool {
	return len(d.rules[domain.NormalizeEntityType(entityType)]) > 0
}

// Handle evaluates the event and creates every resulting notification.
// Only a malformed event is an error; lookup and per-recipient failures are
// logged and skipped.
func (d *Dispatcher) Handle(ctx context.Context, ev domain.ChangeEvent) error {
	intents, err := d.Plan(ctx, ev)
	if err != nil {
		return err
	}
	if len(intents) == 0 {
		return nil
	}

	log := d.log.With(
		slog.String("entity_type", intents[0].Input.RelatedEntityType),
		slog.String("entity_id", intents[0].Input.RelatedEntityID),
	)

	var g errgroup.Group
	g.SetLimit(max(d.cfg.MaxConcurrency, 1))

	for _, in := range intents {
		g.Go(func() error {
			id, err := d.notifier.Create(ctx, in.Input)
			if err != nil {
				log.WarnContext(ctx, "create notification",
					slog.String("rule", in.Rule),
					slog.String("recipient", in.Input.Recipient.Key()),
					slog.String("error", err.Error()),
				)
				return nil
			}
			log.DebugContext(ctx, "notification queued",
				slog.String("rule", in.Rule),
				slog.String("recipient", in.Input.Recipient.Key()),
				slog.String("notification_id", id.String()),
			)
			return nil
		})
	}
	_ = g.Wait()

	log.InfoContext(ctx, "change event handled", slog.Int("notifications", len(intents)))
	return nil
}

// Plan computes the notifications an event produces without creating them.
func (d *Dispatcher) Plan(ctx context.Context, ev domain.ChangeEvent) ([]Intent, error) {
	ev.EntityType = domain.NormalizeEntityType(ev.EntityType)
	ev.Operation = domain.ChangeOperation(domain.NormalizeToken(string(ev.Operation)))
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	var intents []Intent
	for _, r := range d.rules[ev.EntityType] {
		if !r.trigger(ev) {
			continue
		}

		recipients, err := r.recipients(ctx, d.lookup, ev)
		if err != nil {
			d.log.WarnContext(ctx, "resolve recipients",
				slog.String("rule", r.name),
				slog.String("entity_type", ev.EntityType),
				slog.String("entity_id", ev.EntityID),
				slog.String("error", err.Error()),
			)
			continue
		}

		var actor domain.Recipient
		if r.actor != nil {
			actor = r.actor(ev)
		}

		msg := r.message(ev)
		for _, to := range dedupe(recipients) {
			if !actor.IsZero() && to.Matches(actor) {
				continue
			}
			intents = append(intents, Intent{Rule: r.name, Input: msg.input(r.name, ev, to)})
		}
	}
	return intents, nil
}

func dedupe(in []domain.Recipient) []domain.Recipient {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.Recipient, 0, len(in))
	for _, r := range in {
		r = r.Normalized()
		if r.IsZero() {
			continue
		}
		if _, ok := seen[r.Key()]; ok {
			continue
		}
		seen[r.Key()] = struct{}{}
		out = append(out, r)
	}
	return out
}

// resolver gives rules bounded read access to collaborators.
type resolver struct {
	roles      roleDirectory
	entities   entityReader
	adminRoles []string
	roleLimit  int
	timeout    time.Duration
}

func (r *resolver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *resolver) admins(ctx context.Context) ([]domain.Recipient, error) {
	if r.roles == nil {
		return nil, fmt.Errorf("role directory: %w", domain.ErrConfiguration)
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	emails, err := r.roles.EmailsByRoles(ctx, r.adminRoles, r.roleLimit)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return emailRecipients(emails), nil
}

func (r *resolver) entity(ctx context.Context, entityType, id string) (*domain.Entity, error) {
	if r.entities == nil {
		return nil, fmt.Errorf("entity reader: %w", domain.ErrConfiguration)
	}
	if id == "" {
		return nil, fmt.Errorf("%s id: %w", entityType, domain.ErrNotFound)
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	e, err := r.entities.Get(ctx, entityType, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", entityType, err)
	}
	return e, nil
}

func emailRecipients(emails []string) []domain.Recipient {
	out := make([]domain.Recipient, 0, len(emails))
	for _, e := range emails {
		out = append(out, domain.RecipientFromEmail(e))
	}
	return out
}
