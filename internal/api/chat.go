package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/nuchat/internal/errors"
	"github.com/diogo/nuchat/internal/models"
)

// maxBody bounds a successful reply
const maxBody = 10 << 20

// Chat posts message to /chat and returns the decoded reply
func (c *Client) Chat(ctx context.Context, message, model string) (*models.ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apierrors.NewValidationError(apierrors.ErrEmptyMessage)
	}
	if model == "" {
		model = models.DefaultModel
	}

	payload, err := json.Marshal(models.ChatRequest{Message: message, Model: model})
	if err != nil {
		return nil, apierrors.NewParseError("failed to encode request", "")
	}

	start := time.Now()
	body, err := c.do(ctx, http.MethodPost, models.PathChat, payload)
	if err != nil {
		c.logger.Warn().Err(err).Str("model", model).Msg("chat request failed")
		return nil, err
	}

	text := gjson.GetBytes(body, PathResponse)
	if text.Type != gjson.String {
		return nil, apierrors.NewParseError("missing response field", PathResponse)
	}

	resp := &models.ChatResponse{
		Response: text.String(),
		Model:    gjson.GetBytes(body, PathModel).String(),
	}
	if resp.Model == "" {
		resp.Model = model
	}
	if gjson.GetBytes(body, PathUsage).IsObject() {
		resp.Usage = &models.Usage{
			PromptTokens:     gjson.GetBytes(body, PathPromptTokens).Int(),
			CompletionTokens: gjson.GetBytes(body, PathCompletionTokens).Int(),
			TotalTokens:      gjson.GetBytes(body, PathTotalTokens).Int(),
		}
	}

	event := c.logger.Debug().Str("model", resp.Model).Dur("latency", time.Since(start))
	if resp.HasUsage() {
		event = event.
			Int64("prompt_tokens", resp.Usage.PromptTokens).
			Int64("completion_tokens", resp.Usage.CompletionTokens).
			Int64("total_tokens", resp.Usage.TotalTokens)
	}
	event.Msg("chat response")

	return resp, nil
}

// Health checks /health. Only a 200 reply with status "ok" is healthy.
// Every failure matches errors.ErrUnhealthy.
func (c *Client) Health(ctx context.Context) error {
	body, err := c.do(ctx, http.MethodGet, models.PathHealth, nil)
	if err != nil {
		return errors.Join(apierrors.ErrUnhealthy, err)
	}
	if status := gjson.GetBytes(body, PathStatus).String(); status != "ok" {
		return errors.Join(apierrors.ErrUnhealthy,
			apierrors.NewAPIError(http.StatusOK, models.PathHealth, "unexpected health status: "+status))
	}
	return nil
}

// Models lists the models offered by the backend
func (c *Client) Models(ctx context.Context) ([]models.ModelInfo, error) {
	body, err := c.do(ctx, http.MethodGet, models.PathModels, nil)
	if err != nil {
		return nil, err
	}

	list := gjson.GetBytes(body, PathModels)
	if !list.IsArray() {
		return nil, apierrors.NewParseError("missing models field", PathModels)
	}

	var out []models.ModelInfo
	list.ForEach(func(_, item gjson.Result) bool {
		id := item.Get(PathModelID).String()
		if id == "" {
			return true
		}
		name := item.Get(PathModelName).String()
		if name == "" {
			name = id
		}
		out = append(out, models.ModelInfo{ID: id, Name: name})
		return true
	})
	return out, nil
}

// do performs one request and returns the body of a 2xx reply.
// Non-2xx replies become *APIError carrying the server's error field.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if payload != nil {
		reader = strings.NewReader(string(payload))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, apierrors.NewNetworkError(path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, apierrors.NewTimeoutError(path)
		}
		return nil, apierrors.NewNetworkError(path, err)
	}
	if resp == nil || resp.Body == nil {
		return nil, apierrors.NewNetworkError(path, errors.New("empty reply"))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := models.GenericAPIFailure
		if m := gjson.GetBytes(errorBody, PathError); m.Type == gjson.String && m.String() != "" {
			message = m.String()
		}
		return nil, apierrors.NewAPIError(resp.StatusCode, path, message)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, apierrors.NewTimeoutError(path)
		}
		return nil, apierrors.NewNetworkError(path, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("reply is not valid JSON", path)
	}
	return body, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
