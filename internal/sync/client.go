// Package sync pushes finalized sessions to the companion backend.
// Uploads are best-effort: local durability never depends on them, and
// any failure leaves the session eligible for a later SyncAllPending.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// TokenProvider supplies bearer tokens for sync requests. The identity
// flow behind it is out of scope here.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider returning a fixed token.
type StaticToken string

// Token implements TokenProvider.
func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// PendingStore is the repository surface SyncAllPending needs: which
// completed sessions still lack a sync stamp, and marking them synced.
type PendingStore interface {
	Unsynced(ctx context.Context, userID string) ([]models.TrackedWorkout, error)
	MarkSynced(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Client uploads finalized sessions to the sync server.
type Client struct {
	baseURL    string
	env        string
	appVersion string
	osVersion  string
	httpClient *http.Client
	tokens     TokenProvider
	state      *StateDB
	log        *slog.Logger
	now        func() time.Time
}

// NewClient creates a sync client. The environment tag travels on every
// request as the X-Environment header.
func NewClient(baseURL, env, appVersion string, tokens TokenProvider, state *StateDB, log *slog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}

	return &Client{
		baseURL:    baseURL,
		env:        env,
		appVersion: appVersion,
		osVersion:  osVersion(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		state:      state,
		log:        log,
		now:        time.Now,
	}, nil
}

// SyncCompletedWorkout uploads a single finalized session. The workout
// must be a snapshot the caller owns; the client never holds a live
// session reference.
func (c *Client) SyncCompletedWorkout(ctx context.Context, w models.TrackedWorkout) error {
	payload, err := c.buildPayload([]models.TrackedWorkout{w})
	if err != nil {
		return err
	}

	resp, err := c.post(ctx, payload)
	if err != nil {
		return err
	}

	c.recordSuccess(resp)
	return nil
}

// SyncAllPending batch-uploads every completed session not yet marked
// synced, then stamps them. Returns the number of sessions uploaded.
func (c *Client) SyncAllPending(ctx context.Context, store PendingStore) (int, error) {
	pending, err := store.Unsynced(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("loading pending workouts: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	payload, err := c.buildPayload(pending)
	if err != nil {
		return 0, err
	}

	resp, err := c.post(ctx, payload)
	if err != nil {
		return 0, err
	}

	syncedAt := c.recordSuccess(resp)
	ids := make([]uuid.UUID, len(pending))
	for i, w := range pending {
		ids[i] = w.ID
	}
	if err := store.MarkSynced(ctx, ids, syncedAt); err != nil {
		return len(pending), fmt.Errorf("marking workouts synced: %w", err)
	}
	return len(pending), nil
}

func (c *Client) buildPayload(workouts []models.TrackedWorkout) (*models.SyncPayload, error) {
	deviceID, err := c.state.DeviceID()
	if err != nil {
		return nil, fmt.Errorf("resolving device id: %w", err)
	}

	now := c.now()
	data := make([]models.WorkoutSyncData, len(workouts))
	for i, w := range workouts {
		data[i] = transformWorkout(w, now)
	}

	payload := &models.SyncPayload{
		DeviceID: deviceID,
		DeviceInfo: &models.DeviceInfo{
			Type:       runtime.GOOS,
			AppVersion: c.appVersion,
			OSVersion:  c.osVersion,
		},
		Workouts: data,
	}

	if last, err := c.state.LastSync(); err != nil {
		c.log.Warn("failed to read last sync time", "error", err)
	} else if last != nil {
		payload.LastSyncTimestamp = last.Format(timestampLayout)
	}
	return payload, nil
}

// post sends the payload and maps the reply onto the error taxonomy.
func (c *Client) post(ctx context.Context, payload *models.SyncPayload) (*models.SyncResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding sync payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sync", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Environment", c.env)

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading sync response: %w", err)
	}

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case httpResp.StatusCode >= 400 && httpResp.StatusCode < 500:
		return nil, &ServerError{Status: httpResp.StatusCode, Message: strings.TrimSpace(string(raw))}
	case httpResp.StatusCode >= 500:
		return nil, &ServerError{Status: httpResp.StatusCode}
	}

	if len(raw) == 0 {
		return nil, ErrNoData
	}

	var resp models.SyncResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	if !resp.Success {
		return nil, &ServerError{Status: httpResp.StatusCode, Message: resp.Message}
	}
	return &resp, nil
}

// recordSuccess advances the last-sync stamp and logs any bookkeeping
// the server sent back. Conflict resolution is server-defined; the
// client only reports it.
func (c *Client) recordSuccess(resp *models.SyncResponse) time.Time {
	syncedAt := c.now()
	if resp.Data != nil && resp.Data.SyncedAt != "" {
		if t, err := time.Parse(timestampLayout, resp.Data.SyncedAt); err == nil {
			syncedAt = t
		}
	}
	if err := c.state.SetLastSync(syncedAt); err != nil {
		c.log.Warn("failed to record last sync time", "error", err)
	}

	if resp.Data != nil {
		if len(resp.Data.Conflicts) > 0 {
			c.log.Warn("sync conflicts resolved by server", "count", len(resp.Data.Conflicts))
		}
		if resp.Data.ServerData != nil && len(resp.Data.ServerData.Workouts) > 0 {
			c.log.Info("server returned workouts", "count", len(resp.Data.ServerData.Workouts))
		}
		if s := resp.Data.Stats; s != nil {
			c.log.Info("sync stats", "uploaded", s.Uploaded, "downloaded", s.Downloaded, "conflicts", s.Conflicts)
		}
	}
	return syncedAt
}

// osVersion returns a best-effort OS version for device metadata. An
// unrecognized platform reports an empty string and the field is omitted
// from the payload.
func osVersion() string {
	if data, err := os.ReadFile("/etc/os-release"); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if v, ok := strings.CutPrefix(line, "PRETTY_NAME="); ok {
				return strings.Trim(v, `"`)
			}
		}
	}
	if out, err := exec.Command("sw_vers", "-productVersion").Output(); err == nil {
		return strings.TrimSpace(string(out))
	}
	return ""
}
