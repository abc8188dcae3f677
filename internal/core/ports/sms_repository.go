package ports

import (
	"context"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// ListSmsFilter carries the query for one page of a tenant's SMS history.
// ClientID is always set by the service layer.
type ListSmsFilter struct {
	ClientID  string
	Direction string // optional
	JobID     string // optional
	Page      int    // 1-based
	Limit     int
}

// Skip is the number of documents before the page. It is computed in int64
// and never negative.
func (f ListSmsFilter) Skip() int64 {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	return int64(f.Page-1) * int64(f.Limit)
}

// SmsRepository persists the append-only SMS log.
type SmsRepository interface {
	Insert(ctx context.Context, msg *domain.SmsMessage) error
	// List returns a page of messages, newest first, and the filtered total.
	List(ctx context.Context, filter ListSmsFilter) ([]domain.SmsMessage, int64, error)
	// CountByStatus groups all of a tenant's messages by status.
	CountByStatus(ctx context.Context, clientID string) (map[string]int64, error)
}
