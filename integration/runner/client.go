package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwebster45206/food-guardian/internal/handlers"
	"github.com/jwebster45206/food-guardian/pkg/session"
)

// APIError is a reply with an unexpected status code.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned %d: %s", e.Status, e.Message)
}

// CreateSession starts a new playthrough
func CreateSession(ctx context.Context, client *http.Client, baseURL, player string) (*session.State, error) {
	var st session.State
	req := handlers.CreateSessionRequest{PlayerName: player}
	if err := doJSON(ctx, client, http.MethodPost, baseURL+"/v1/sessions", req, http.StatusCreated, &st); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &st, nil
}

// GetSession retrieves the current session state
func GetSession(ctx context.Context, client *http.Client, baseURL string, id uuid.UUID) (*session.State, error) {
	var st session.State
	if err := doJSON(ctx, client, http.MethodGet, sessionURL(baseURL, id, ""), nil, http.StatusOK, &st); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &st, nil
}

// SelectChoice posts a choice index for the current node
func SelectChoice(ctx context.Context, client *http.Client, baseURL string, id uuid.UUID, index int) (*handlers.SelectChoiceResponse, error) {
	var resp handlers.SelectChoiceResponse
	req := handlers.SelectChoiceRequest{Index: &index}
	if err := doJSON(ctx, client, http.MethodPost, sessionURL(baseURL, id, "choices"), req, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PostAction posts to a body-less session action such as "continue" or
// "results"
func PostAction(ctx context.Context, client *http.Client, baseURL string, id uuid.UUID, action string) (*session.State, error) {
	var st session.State
	if err := doJSON(ctx, client, http.MethodPost, sessionURL(baseURL, id, action), nil, http.StatusOK, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// PostMediaEvent reports the outcome of the intro media
func PostMediaEvent(ctx context.Context, client *http.Client, baseURL string, id uuid.UUID, event, reason string) (*session.State, error) {
	var st session.State
	req := handlers.MediaEventRequest{Event: event, Error: reason}
	if err := doJSON(ctx, client, http.MethodPost, sessionURL(baseURL, id, "media"), req, http.StatusOK, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func sessionURL(baseURL string, id uuid.UUID, action string) string {
	url := fmt.Sprintf("%s/v1/sessions/%s", baseURL, id.String())
	if action != "" {
		url += "/" + action
	}
	return url
}

func doJSON(ctx context.Context, client *http.Client, method, url string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(resp.Body)
		var errResp handlers.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
