package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hireflow/hireflow/internal/utils"
	"go.uber.org/zap"
)

const (
	zoomAPIURL   = "https://api.zoom.us/v2"
	zoomTokenURL = "https://zoom.us/oauth/token"

	// Zoom meeting type 2 is a scheduled meeting.
	zoomScheduledMeeting = 2
)

// ZoomConfig holds server-to-server OAuth credentials.
type ZoomConfig struct {
	AccountID    string
	ClientID     string
	ClientSecret string
}

// ZoomClient creates meetings through the Zoom REST API using the
// server-to-server OAuth account_credentials grant.
type ZoomClient struct {
	cfg        ZoomConfig
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	TokenURL   string

	token       string
	tokenExpiry time.Time
}

func NewZoomClient(cfg ZoomConfig, logger *zap.Logger) (*ZoomClient, error) {
	if strings.TrimSpace(cfg.AccountID) == "" ||
		strings.TrimSpace(cfg.ClientID) == "" ||
		strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, errors.New("zoom account id, client id and client secret are required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &ZoomClient{
		cfg:    cfg,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		APIURL:   zoomAPIURL,
		TokenURL: zoomTokenURL,
	}, nil
}

type zoomMeetingRequest struct {
	Topic    string              `json:"topic"`
	Type     int                 `json:"type"`
	Start    string              `json:"start_time"`
	Duration int                 `json:"duration"`
	Timezone string              `json:"timezone"`
	Settings zoomMeetingSettings `json:"settings"`
}

type zoomMeetingSettings struct {
	MeetingInvitees []zoomInvitee `json:"meeting_invitees"`
}

type zoomInvitee struct {
	Email string `json:"email"`
}

// CreateMeeting creates a scheduled Zoom meeting with the candidate as invitee.
func (c *ZoomClient) CreateMeeting(ctx context.Context, req *CreateRequest) (*Meeting, error) {
	if req == nil {
		return nil, errors.New("create request is required")
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(zoomMeetingRequest{
		Topic:    req.Topic,
		Type:     zoomScheduledMeeting,
		Start:    req.StartTime,
		Duration: req.DurationMinutes,
		Timezone: req.Timezone,
		Settings: zoomMeetingSettings{
			MeetingInvitees: []zoomInvitee{{Email: req.AttendeeEmail}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal meeting request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+"/users/me/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build meeting request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create zoom meeting: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read zoom response: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("zoom api returned %d: %s", resp.StatusCode, utils.TruncateForLog(string(payload), 200))
	}

	var meeting Meeting
	if err := json.Unmarshal(payload, &meeting); err != nil {
		return nil, fmt.Errorf("parse zoom meeting response: %w", err)
	}

	if meeting.JoinURL == "" {
		return nil, errors.New("zoom api returned no join url")
	}

	return &meeting, nil
}

// accessToken returns a cached server-to-server token, fetching a fresh
// one when the cached value is absent or about to expire.
func (c *ZoomClient) accessToken(ctx context.Context) (string, error) {
	if c.token != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.token, nil
	}

	form := url.Values{
		"grant_type": {"account_credentials"},
		"account_id": {c.cfg.AccountID},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	httpReq.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("fetch zoom token: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read zoom token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("zoom token endpoint returned %d: %s", resp.StatusCode, utils.TruncateForLog(string(payload), 200))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(payload, &token); err != nil {
		return "", fmt.Errorf("parse zoom token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("zoom token endpoint returned empty token")
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	c.logger.Debug("zoom access token refreshed",
		zap.Time("expires_at", c.tokenExpiry),
	)

	return c.token, nil
}
