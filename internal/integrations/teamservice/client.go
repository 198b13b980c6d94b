package teamservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с TeamService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента TeamService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetMemberCount получает текущее число участников команды
func (c *Client) GetMemberCount(ctx context.Context, teamID int64) (*TeamMemberCount, error) {
	url := fmt.Sprintf("%s/internal/teams/%d/member-count", c.baseURL, teamID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid team ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrTeamNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var count TeamMemberCount
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &count, nil
}

// GetMemberCountWithGracefulDegradation получает число участников команды с graceful degradation.
// При недоступности TeamService возвращает ErrServiceDegraded: бронирование создаётся
// без зафиксированного числа участников, задним числом оно не заполняется.
func (c *Client) GetMemberCountWithGracefulDegradation(ctx context.Context, teamID int64) (*int, error) {
	c.log.Info("Fetching member count for team_id=%d", teamID)

	count, err := c.GetMemberCount(ctx, teamID)
	if err != nil {
		// Бизнес-ошибку пробрасываем дальше
		if err == ErrTeamNotFound {
			c.log.Warn("Team id=%d not found", teamID)
			return nil, err
		}

		// Для остальных ошибок (недоступность, timeout, ошибки парсинга)
		// применяем graceful degradation
		c.log.Error("TeamService unavailable, applying graceful degradation for team_id=%d: %v", teamID, err)
		return nil, fmt.Errorf("%w: team_id=%d, error=%v", ErrServiceDegraded, teamID, err)
	}

	c.log.Info("Successfully fetched member count for team_id=%d: %d members", teamID, count.MemberCount)
	return &count.MemberCount, nil
}
