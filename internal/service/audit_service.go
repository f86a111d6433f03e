package service

import (
	"context"
	"log/slog"
	"strings"

	"sportspace-admin/internal/event"
	"sportspace-admin/internal/model"
)

type auditRepository interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

// AuditService turns bus events into a persistent audit trail.
type AuditService struct {
	repo auditRepository
	bus  event.Bus
}

func NewAuditService(repo auditRepository, bus event.Bus) *AuditService {
	return &AuditService{repo: repo, bus: bus}
}

// Run consumes events until ctx is cancelled. Intended to run in its own
// goroutine from app wiring.
func (s *AuditService) Run(ctx context.Context) {
	events, unsubscribe := s.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			s.record(ctx, e)
		}
	}
}

func (s *AuditService) Recent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	return s.repo.Recent(ctx, limit)
}

func (s *AuditService) record(ctx context.Context, e event.Event) {
	entry := model.AuditEntry{
		ID:         e.ID,
		Action:     string(e.Type),
		ActorID:    e.ActorID,
		ActorEmail: e.ActorEmail,
		Entity:     entityOf(e.Type),
		EntityID:   e.EntityID,
		OccurredAt: e.Timestamp,
	}

	if err := s.repo.Log(ctx, entry); err != nil {
		slog.Error("audit entry write failed", "action", entry.Action, "error", err)
	}
}

func entityOf(typ event.Type) string {
	if idx := strings.IndexByte(string(typ), '.'); idx > 0 {
		return string(typ)[:idx]
	}
	return string(typ)
}
