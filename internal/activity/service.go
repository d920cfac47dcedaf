package activity

import (
	"context"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
)

// Service persists the audit trail. Rows are written after the response has
// been produced and are never updated.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Entry struct {
	UserID     uint
	Action     string
	TargetType string
	TargetID   uint
	IP         string
	UserAgent  string
	Method     string
	URL        string
}

func (s *Service) Log(ctx context.Context, entry Entry) error {
	return s.repo.Record(ctx, &model.ActivityLog{
		UserID:      entry.UserID,
		Action:      entry.Action,
		TargetType:  entry.TargetType,
		TargetID:    entry.TargetID,
		Description: Describe(entry.Action, entry.TargetType),
		IP:          entry.IP,
		UserAgent:   entry.UserAgent,
		Method:      entry.Method,
		URL:         entry.URL,
	})
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*model.ActivityLog, error) {
	return s.repo.Find(ctx, filter)
}
