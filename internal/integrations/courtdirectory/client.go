package courtdirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/m04kA/SMC-CourtScheduler/internal/domain"
)

// Client клиент сервиса каталога кортов
type Client struct {
	baseURL    string
	httpClient *http.Client
	group      singleflight.Group
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога кортов
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCourt получает корт по ID.
// Одновременные запросы одного и того же корта схлопываются в один HTTP-вызов.
// Общий вызов не зависит от отмены контекста первого запроса, его ограничивает таймаут клиента.
func (c *Client) GetCourt(ctx context.Context, courtID int64) (*domain.Court, error) {
	ch := c.group.DoChan(strconv.FormatInt(courtID, 10), func() (interface{}, error) {
		return c.fetchCourt(context.WithoutCancel(ctx), courtID)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrInternal, ctx.Err())
	}

	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		return nil, err
	}

	if shared {
		c.log.Info("GetCourt: court_id=%d served from a shared request", courtID)
	}

	// копия, чтобы вызывающие не делили один указатель
	court := *v.(*domain.Court)
	return &court, nil
}

func (c *Client) fetchCourt(ctx context.Context, courtID int64) (*domain.Court, error) {
	url := fmt.Sprintf("%s/internal/courts/%d", c.baseURL, courtID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrCourtNotFound
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid court ID format", ErrInvalidResponse)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var court Court
	if err := json.NewDecoder(resp.Body).Decode(&court); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if court.ID != courtID {
		return nil, fmt.Errorf("%w: requested court %d, got %d", ErrInvalidResponse, courtID, court.ID)
	}

	return court.toDomain(), nil
}
