package open_membership

import (
	"time"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// OpenMembershipRequest запрос на открытие окна членства.
// Пустой joinedAt означает "с текущего момента"
type OpenMembershipRequest struct {
	JoinedAt string `json:"joinedAt,omitempty"` // RFC 3339
}

// MembershipWindowResponse окно членства мастера в команде
type MembershipWindowResponse struct {
	ID       int64   `json:"id"`
	StaffID  int64   `json:"staffId"`
	TeamID   int64   `json:"teamId"`
	JoinedAt string  `json:"joinedAt"`
	LeftAt   *string `json:"leftAt,omitempty"`
}

// FromDomainWindow конвертирует domain модель в DTO
func FromDomainWindow(w *domain.MembershipWindow) *MembershipWindowResponse {
	resp := &MembershipWindowResponse{
		ID:       w.ID,
		StaffID:  w.StaffID,
		TeamID:   w.TeamID,
		JoinedAt: w.JoinedAt.Format(time.RFC3339),
	}
	if w.LeftAt != nil {
		leftStr := w.LeftAt.Format(time.RFC3339)
		resp.LeftAt = &leftStr
	}
	return resp
}
