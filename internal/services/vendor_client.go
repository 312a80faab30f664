package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// VendorClient talks to a third-party ELD/TMS API.
type VendorClient interface {
	Ping(ctx context.Context) error
	FetchDrivers(ctx context.Context) ([]VendorDriver, error)
	FetchVehicles(ctx context.Context) ([]VendorVehicle, error)
}

type VendorDriver struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	LicenseState  string `json:"license_state"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Status        string `json:"status"`
}

type VendorVehicle struct {
	ID                  string   `json:"id"`
	UnitNumber          string   `json:"unit_number"`
	Make                string   `json:"make"`
	Model               string   `json:"model"`
	Year                *int32   `json:"year"`
	VIN                 string   `json:"vin"`
	FuelCapacityGallons float64  `json:"fuel_capacity_gallons"`
	CurrentFuelGallons  *float64 `json:"current_fuel_gallons"`
	MPG                 *float64 `json:"mpg"`
	Status              string   `json:"status"`
}

type vendorError struct {
	Message string `json:"message"`
}

type restVendorClient struct {
	http *resty.Client
}

// NewVendorClient builds a resty client for baseURL. An "api_key" credential
// is sent as a bearer token.
func NewVendorClient(baseURL string, creds map[string]string, timeout time.Duration) VendorClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json")
	if key := creds["api_key"]; key != "" {
		client.SetAuthToken(key)
	}
	return &restVendorClient{http: client}
}

func (c *restVendorClient) get(ctx context.Context, path string, result any) error {
	var apiErr vendorError
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		if apiErr.Message != "" {
			return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode(), apiErr.Message)
		}
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode())
	}
	return nil
}

func (c *restVendorClient) Ping(ctx context.Context) error {
	return c.get(ctx, "/health", &map[string]any{})
}

func (c *restVendorClient) FetchDrivers(ctx context.Context) ([]VendorDriver, error) {
	var out struct {
		Drivers []VendorDriver `json:"drivers"`
	}
	if err := c.get(ctx, "/drivers", &out); err != nil {
		return nil, err
	}
	return out.Drivers, nil
}

func (c *restVendorClient) FetchVehicles(ctx context.Context) ([]VendorVehicle, error) {
	var out struct {
		Vehicles []VendorVehicle `json:"vehicles"`
	}
	if err := c.get(ctx, "/vehicles", &out); err != nil {
		return nil, err
	}
	return out.Vehicles, nil
}
