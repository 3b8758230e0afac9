package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"game-arena/internal/domain"
	"golang.org/x/oauth2"
)

// Client talks to the learning platform's games API.
type Client struct {
	base string
	http *http.Client
}

type Config struct {
	BaseURL string
	// Token is sent as a bearer token when set.
	Token   string
	Timeout time.Duration
}

func New(cfg Config) *Client {
	h := &http.Client{}
	if cfg.Token != "" {
		h = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{base: strings.TrimRight(cfg.BaseURL, "/"), http: h}
}

type questionsResponse struct {
	Questions []domain.Question `json:"questions"`
}

// FetchQuestions loads the question list of a module. A missing or empty list
// is domain.ErrEmptyResult.
func (c *Client) FetchQuestions(ctx context.Context, moduleID int64) ([]domain.Question, error) {
	const op = "fetch questions"
	url := c.base + "/api/games/questions/" + strconv.FormatInt(moduleID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	var body questionsResponse
	if err := c.do(req, op, &body); err != nil {
		return nil, err
	}
	if len(body.Questions) == 0 {
		return nil, domain.ErrEmptyResult
	}
	return body.Questions, nil
}

// SaveScore submits a final result and returns the XP awarded for it.
func (c *Client) SaveScore(ctx context.Context, result domain.FinalResult) (domain.ScoreReceipt, error) {
	const op = "save score"
	payload, err := json.Marshal(result)
	if err != nil {
		return domain.ScoreReceipt{}, fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/games/save-score", bytes.NewReader(payload))
	if err != nil {
		return domain.ScoreReceipt{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var receipt domain.ScoreReceipt
	if err := c.do(req, op, &receipt); err != nil {
		return domain.ScoreReceipt{}, err
	}
	return receipt, nil
}

func (c *Client) do(req *http.Request, op string, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return &domain.NetworkError{Op: op, Status: res.StatusCode, Err: fmt.Errorf("%s", res.Status)}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
