package teamservice

// TeamMemberCount ответ TeamService с текущим числом участников команды
type TeamMemberCount struct {
	TeamID      int64 `json:"team_id"`
	MemberCount int   `json:"member_count"`
}

// ErrorResponse модель ошибки от TeamService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
