package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const blueskyBaseURL = "https://bsky.social/xrpc"

type BlueskyClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBlueskyClient() *BlueskyClient {
	return &BlueskyClient{
		baseURL:    blueskyBaseURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *BlueskyClient) ValidateCredentials(credentials map[string]string) ValidationResult {
	if credentials["handle"] == "" {
		return ValidationResult{Message: "Missing required credential: handle"}
	}
	if credentials["app_password"] == "" {
		return ValidationResult{Message: "Missing required credential: app_password"}
	}
	return ValidationResult{Valid: true}
}

func (c *BlueskyClient) CredentialFields() []CredentialField {
	return []CredentialField{
		{Key: "handle", Label: "Handle (e.g. user.bsky.social)", Type: "text", Required: true},
		{Key: "app_password", Label: "App Password", Type: "password", Required: true},
	}
}

type blueskySession struct {
	AccessJwt string `json:"accessJwt"`
	Did       string `json:"did"`
}

func (c *BlueskyClient) Publish(ctx context.Context, externalAccountID string, credentials map[string]string, text string, media []MediaItem) PublishResult {
	if v := c.ValidateCredentials(credentials); !v.Valid {
		return Failure(v.Message)
	}

	session, err := c.createSession(ctx, credentials["handle"], credentials["app_password"])
	if err != nil {
		slog.Info(err.Error())
		return Failure("Failed to authenticate with Bluesky")
	}

	return c.createPost(ctx, session, text, media)
}

func (c *BlueskyClient) createSession(ctx context.Context, handle, appPassword string) (*blueskySession, error) {
	payload, err := json.Marshal(map[string]string{
		"identifier": handle,
		"password":   appPassword,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/com.atproto.server.createSession", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bluesky createSession returned status %d", resp.StatusCode)
	}

	var session blueskySession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (c *BlueskyClient) createPost(ctx context.Context, session *blueskySession, text string, media []MediaItem) PublishResult {
	providerMediaIDs := make(map[int64]string)
	var embed map[string]any

	if len(media) > 0 {
		for _, item := range media {
			if !item.Type.IsImage() {
				return Failure("Bluesky video publishing is not yet implemented.")
			}
		}

		images := make([]map[string]any, 0, len(media))
		for _, item := range media {
			blob, err := c.uploadBlob(ctx, session, item)
			if err != nil {
				slog.Info(err.Error())
				return Failure(fmt.Sprintf("Failed to upload image to Bluesky: %s", item.Filename))
			}

			if ref, ok := blob["ref"].(map[string]any); ok {
				if link, ok := ref["$link"].(string); ok {
					providerMediaIDs[item.ID] = link
				}
			}

			images = append(images, map[string]any{
				"alt":   item.AltText,
				"image": blob,
			})
		}

		embed = map[string]any{
			"$type":  "app.bsky.embed.images",
			"images": images,
		}
	}

	record := map[string]any{
		"$type":     "app.bsky.feed.post",
		"text":      text,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}
	if embed != nil {
		record["embed"] = embed
	}

	payload, err := json.Marshal(map[string]any{
		"repo":       session.Did,
		"collection": "app.bsky.feed.post",
		"record":     record,
	})
	if err != nil {
		slog.Info(err.Error())
		return Failure(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/com.atproto.repo.createRecord", bytes.NewReader(payload))
	if err != nil {
		slog.Info(err.Error())
		return Failure(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+session.AccessJwt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return Failure(err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusOK {
		var created struct {
			URI string `json:"uri"`
		}
		if err := json.Unmarshal(body, &created); err != nil {
			slog.Info(err.Error())
		}
		return PublishResult{
			Success:          true,
			ExternalPostID:   created.URI,
			ProviderMediaIDs: providerMediaIDs,
		}
	}

	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Message != "" {
			return Failure(apiErr.Message)
		}
		if apiErr.Error != "" {
			return Failure(apiErr.Error)
		}
	}
	return Failure("Unknown Bluesky API error")
}

// uploadBlob sends raw bytes and returns the blob object from the response,
// which is embedded verbatim in the post record.
func (c *BlueskyClient) uploadBlob(ctx context.Context, session *blueskySession, item MediaItem) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/com.atproto.repo.uploadBlob", bytes.NewReader(item.Contents))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", item.MimeType)
	req.Header.Set("Authorization", "Bearer "+session.AccessJwt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bluesky blob upload returned status %d", resp.StatusCode)
	}

	var uploaded struct {
		Blob map[string]any `json:"blob"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, err
	}
	if uploaded.Blob == nil {
		return nil, fmt.Errorf("bluesky blob upload response missing blob")
	}

	return uploaded.Blob, nil
}
