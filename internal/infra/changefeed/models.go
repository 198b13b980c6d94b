package changefeed

import (
	"encoding/json"
	"fmt"
)

// EventType тип изменения строки
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event событие изменения строки, полученное из push-ленты БД
type Event struct {
	Table string          `json:"table"`
	Type  EventType       `json:"type"`
	Old   json.RawMessage `json:"old,omitempty"`
	New   json.RawMessage `json:"new,omitempty"`
}

// Row возвращает полезную нагрузку события: new для INSERT/UPDATE, old для DELETE
func (e *Event) Row() json.RawMessage {
	if e.Type == EventDelete {
		return e.Old
	}
	return e.New
}

// TeamRelation связанная команда в полезной нагрузке события.
// Планировщик запросов отдаёт join то одиночным объектом, то списком из одного
// элемента; нормализуем обе формы на границе, чтобы дальше по коду форма
// была ровно одна.
type TeamRelation struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
}

// UnmarshalJSON принимает и объект, и список из одного элемента
func (t *TeamRelation) UnmarshalJSON(data []byte) error {
	type plain TeamRelation

	var obj plain
	if err := json.Unmarshal(data, &obj); err == nil {
		*t = TeamRelation(obj)
		return nil
	}

	var list []plain
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("changefeed: team relation is neither an object nor a list: %w", err)
	}
	switch len(list) {
	case 0:
		*t = TeamRelation{}
		return nil
	case 1:
		*t = TeamRelation(list[0])
		return nil
	default:
		return fmt.Errorf("changefeed: team relation list has %d elements, expected at most 1", len(list))
	}
}

// BookingRow полезная нагрузка события таблицы bookings
type BookingRow struct {
	ID               int64         `json:"id"`
	CustomerID       int64         `json:"customer_id"`
	ServicePackageID int64         `json:"service_package_id"`
	StaffID          *int64        `json:"staff_id"`
	TeamID           *int64        `json:"team_id"`
	BookingDate      string        `json:"booking_date"`
	StartTime        string        `json:"start_time"`
	EndTime          string        `json:"end_time"`
	Status           string        `json:"status"`
	PaymentStatus    string        `json:"payment_status"`
	RecurringGroupID *string       `json:"recurring_group_id"`
	CreatedAt        string        `json:"created_at"`
	Team             *TeamRelation `json:"team,omitempty"`
}

// DecodeBookingRow разбирает полезную нагрузку события bookings
func DecodeBookingRow(raw json.RawMessage) (*BookingRow, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("changefeed: empty booking payload")
	}
	var row BookingRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("changefeed: decode booking payload: %w", err)
	}
	return &row, nil
}

// MembershipRow полезная нагрузка события таблицы membership_windows
type MembershipRow struct {
	ID       int64   `json:"id"`
	StaffID  int64   `json:"staff_id"`
	TeamID   int64   `json:"team_id"`
	JoinedAt string  `json:"joined_at"`
	LeftAt   *string `json:"left_at"`
}

// DecodeMembershipRow разбирает полезную нагрузку события membership_windows
func DecodeMembershipRow(raw json.RawMessage) (*MembershipRow, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("changefeed: empty membership payload")
	}
	var row MembershipRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("changefeed: decode membership payload: %w", err)
	}
	return &row, nil
}
