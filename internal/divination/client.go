package divination

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Request carries the three drawn numbers and the question to the remote
// divination service. The computation itself lives entirely on that service.
type Request struct {
	N1       int    `json:"n1"`
	N2       int    `json:"n2"`
	N3       int    `json:"n3"`
	Question string `json:"question"`
	Locale   string `json:"locale"`
}

type Explanation struct {
	Plain string   `json:"plain"`
	Tips  []string `json:"tips"`
}

type Response struct {
	LowerTrigram string      `json:"lowerTrigram"`
	UpperTrigram string      `json:"upperTrigram"`
	HexagramName string      `json:"hexagramName"`
	ChangingLine int         `json:"changingLine"`
	Explanation  Explanation `json:"explanation"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Divine posts the request and maps upstream failures to messages a user can
// act on. Callers must confirm entitlement before calling this.
func (c *Client) Divine(ctx context.Context, req Request) (*Response, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var upstream errorResponse
		msg := "divination service unavailable, please try again later"
		if json.Unmarshal(body, &upstream) == nil {
			// The raw upstream code is useless to a user; translate the
			// known ones into something actionable.
			if upstream.Error == "DEEPSEEK_402" {
				msg = "divination service balance exhausted, please try again later or contact the developer"
			} else if upstream.Message != "" {
				msg = upstream.Message
			}
		}
		log.Warn().Int("status", resp.StatusCode).Dur("elapsed", time.Since(started)).Msg("divination request failed")
		return nil, fmt.Errorf("%s", msg)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("malformed divination response: %w", err)
	}
	log.Debug().Dur("elapsed", time.Since(started)).Str("hexagram", out.HexagramName).Msg("divination succeeded")
	return &out, nil
}
