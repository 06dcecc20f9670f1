package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	config "github.com/bluewingapp/bluewing/configs"
)

const (
	xTweetURL       = "https://api.x.com/2/tweets"
	xMediaUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	xTokenURL       = "https://api.x.com/2/oauth2/token"
)

// XClient publishes with an OAuth2 user-context token. When the token has
// expired it refreshes once and reports the new credentials back through
// PublishResult.RefreshedCredentials.
type XClient struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewXClient(cfg config.Config) *XClient {
	return &XClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *XClient) ValidateCredentials(credentials map[string]string) ValidationResult {
	if credentials["access_token"] == "" {
		return ValidationResult{Message: "Missing required credential: access_token"}
	}
	return ValidationResult{Valid: true}
}

func (c *XClient) CredentialFields() []CredentialField {
	return []CredentialField{
		{Key: "access_token", Label: "Access Token", Type: "password", Required: true},
		{Key: "refresh_token", Label: "Refresh Token", Type: "password", Required: false},
	}
}

func (c *XClient) Publish(ctx context.Context, externalAccountID string, credentials map[string]string, text string, media []MediaItem) PublishResult {
	if v := c.ValidateCredentials(credentials); !v.Valid {
		return Failure(v.Message)
	}

	token := credentials["access_token"]
	var refreshed map[string]string

	ensureFresh := func() bool {
		if refreshed != nil {
			return false
		}
		creds, err := c.refreshToken(ctx, credentials["refresh_token"])
		if err != nil {
			slog.Info(err.Error())
			return false
		}
		refreshed = creds
		token = creds["access_token"]
		return true
	}

	fail := func(message string) PublishResult {
		result := Failure(message)
		result.RefreshedCredentials = refreshed
		return result
	}

	providerMediaIDs := make(map[int64]string)
	mediaIDs := make([]string, 0, len(media))

	for _, item := range media {
		mediaID, status, err := c.uploadMedia(ctx, token, item)
		if status == http.StatusUnauthorized && ensureFresh() {
			mediaID, status, err = c.uploadMedia(ctx, token, item)
		}
		if err != nil {
			slog.Info(err.Error())
			return fail(fmt.Sprintf("Failed to upload media to X: %s", item.Filename))
		}
		providerMediaIDs[item.ID] = mediaID
		mediaIDs = append(mediaIDs, mediaID)
	}

	tweetID, status, err := c.createTweet(ctx, token, text, mediaIDs)
	if status == http.StatusUnauthorized && ensureFresh() {
		tweetID, status, err = c.createTweet(ctx, token, text, mediaIDs)
	}
	if err != nil {
		slog.Info(err.Error())
		return fail(err.Error())
	}

	return PublishResult{
		Success:              true,
		ExternalPostID:       tweetID,
		RefreshedCredentials: refreshed,
		ProviderMediaIDs:     providerMediaIDs,
	}
}

func (c *XClient) uploadMedia(ctx context.Context, token string, item MediaItem) (string, int, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("media", item.Filename)
	if err != nil {
		return "", 0, err
	}
	if _, err := part.Write(item.Contents); err != nil {
		return "", 0, err
	}
	if err := writer.Close(); err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, xMediaUploadURL, &body)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.StatusCode, fmt.Errorf("x media upload returned status %d: %s", resp.StatusCode, respBody)
	}

	var uploaded struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.Unmarshal(respBody, &uploaded); err != nil {
		return "", resp.StatusCode, err
	}
	if uploaded.MediaIDString == "" {
		return "", resp.StatusCode, fmt.Errorf("x media upload response missing media id")
	}

	return uploaded.MediaIDString, resp.StatusCode, nil
}

func (c *XClient) createTweet(ctx context.Context, token, text string, mediaIDs []string) (string, int, error) {
	tweet := map[string]any{"text": text}
	if len(mediaIDs) > 0 {
		tweet["media"] = map[string]any{"media_ids": mediaIDs}
	}

	payload, err := json.Marshal(tweet)
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, xTweetURL, bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Detail != "" {
			return "", resp.StatusCode, fmt.Errorf("x tweet creation failed: %s", apiErr.Detail)
		}
		return "", resp.StatusCode, fmt.Errorf("x tweet creation returned status %d", resp.StatusCode)
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", resp.StatusCode, err
	}

	return created.Data.ID, resp.StatusCode, nil
}

func (c *XClient) refreshToken(ctx context.Context, refreshToken string) (map[string]string, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("no refresh token available")
	}

	conf := &oauth2.Config{
		ClientID:     c.cfg.XClientID,
		ClientSecret: c.cfg.XClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: xTokenURL},
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, err
	}

	creds := map[string]string{"access_token": token.AccessToken}
	if token.RefreshToken != "" {
		creds["refresh_token"] = token.RefreshToken
	} else {
		creds["refresh_token"] = refreshToken
	}

	return creds, nil
}
