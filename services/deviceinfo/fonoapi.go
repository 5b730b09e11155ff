package deviceinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devicedesk/models"
	"devicedesk/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	newTokenPath  = "/token/newToken"
	getDevicePath = "/v1/getdevice"
	getLatestPath = "/v1/getlatest"
)

// DeviceInfoAPI is the device-info provider consumed by the catalog. Every
// call may fail with UpstreamError; callers decide what that means for the
// enclosing request.
type DeviceInfoAPI interface {
	Device(ctx context.Context, name string) ([]models.DeviceSpecs, error)
	Latest(ctx context.Context) ([]models.DeviceSpecs, error)
}

// DefaultFonoClient talks to the FonoAPI device catalog. FonoAPI hands out
// API tokens to anyone who registers one, so Connect generates a fresh UUID
// and registers it before the client is used.
type DefaultFonoClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewFonoClient builds a client for the given base URL with a per-request
// timeout. Call Connect before issuing lookups.
func NewFonoClient(baseURL string, timeout time.Duration) *DefaultFonoClient {
	return &DefaultFonoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Connect negotiates a new API token. The provider replies with
// {"status":"success"} when the token was registered.
func (f *DefaultFonoClient) Connect(ctx context.Context) error {
	f.token = uuid.New().String()

	form := url.Values{}
	form.Set("ApiToken", f.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+newTokenPath,
		strings.NewReader(form.Encode()))
	if err != nil {
		return UpstreamError{Op: "newToken", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client.Do(req)
	if err != nil {
		return UpstreamError{Op: "newToken", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UpstreamError{Op: "newToken", StatusCode: resp.StatusCode}
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return UpstreamError{Op: "newToken", Err: err}
	}
	if body.Status != "success" {
		return UpstreamError{Op: "newToken", Err: fmt.Errorf("token not accepted, status %q", body.Status)}
	}

	utils.GetLogger().Debug("Successfully acquired new token for FonoApi")
	return nil
}

// Device returns every metadata entry the provider has for the given device
// name. Zero entries is a valid answer.
func (f *DefaultFonoClient) Device(ctx context.Context, name string) ([]models.DeviceSpecs, error) {
	query := url.Values{}
	query.Set("token", f.token)
	query.Set("device", name)
	return f.get(ctx, "getdevice", getDevicePath, query)
}

// Latest returns the provider's most recently added devices.
func (f *DefaultFonoClient) Latest(ctx context.Context) ([]models.DeviceSpecs, error) {
	query := url.Values{}
	query.Set("token", f.token)
	return f.get(ctx, "getlatest", getLatestPath, query)
}

func (f *DefaultFonoClient) get(ctx context.Context, op, path string, query url.Values) ([]models.DeviceSpecs, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, UpstreamError{Op: op, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		utils.GetLogger().Error("FonoApi request failed", zap.String("op", op), zap.Error(err))
		return nil, UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.GetLogger().Error("FonoApi returned non-OK status",
			zap.String("op", op), zap.Int("status", resp.StatusCode))
		return nil, UpstreamError{Op: op, StatusCode: resp.StatusCode}
	}

	var specs []models.DeviceSpecs
	if err := json.NewDecoder(resp.Body).Decode(&specs); err != nil {
		return nil, UpstreamError{Op: op, Err: err}
	}
	return specs, nil
}
