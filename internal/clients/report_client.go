// internal/clients/report_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"clubledger/internal/report"
)

// ReportClient talks to the reporting service.
type ReportClient struct {
	baseURL string
	client  *http.Client
}

func NewReportClient(baseURL string) *ReportClient {
	return &ReportClient{baseURL: baseURL, client: http.DefaultClient}
}

func (c *ReportClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status code: %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *ReportClient) DelinquentMembers(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	if err := c.get(ctx, "/delinquents", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *ReportClient) EligibleForActivity(ctx context.Context, activity string) ([]uint64, error) {
	var ids []uint64
	if err := c.get(ctx, "/eligible/"+activity, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *ReportClient) MonthlyRevenue(ctx context.Context, month, year int) (report.Revenue, error) {
	var rev report.Revenue
	if err := c.get(ctx, fmt.Sprintf("/revenue?month=%d&year=%d", month, year), &rev); err != nil {
		return rev, err
	}
	return rev, nil
}
