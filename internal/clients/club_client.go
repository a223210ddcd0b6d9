// internal/clients/club_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"clubledger/internal/club"
)

// ClubClient talks to the club service. It implements report.ClubReader, so a
// reporting engine can run against a remote club the same way it runs against
// an in-process one.
type ClubClient struct {
	baseURL   string
	principal string
	client    *http.Client
}

func NewClubClient(baseURL, principal string) *ClubClient {
	return &ClubClient{baseURL: baseURL, principal: principal, client: http.DefaultClient}
}

func (c *ClubClient) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal", c.principal)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status code: %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *ClubClient) RegisterMember(ctx context.Context, dni uint64, category, activity string) error {
	body := map[string]any{"dni": dni, "category": category, "activity": activity}
	return c.do(ctx, http.MethodPost, "/members", body, nil)
}

func (c *ClubClient) RecordPayment(ctx context.Context, dni, amount uint64) error {
	body := map[string]any{"dni": dni, "amount": amount}
	return c.do(ctx, http.MethodPost, "/payments", body, nil)
}

func (c *ClubClient) IssueNextPayment(ctx context.Context, dni uint64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/members/%d/payments", dni), nil, nil)
}

func (c *ClubClient) MemberIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	if err := c.do(ctx, http.MethodGet, "/members", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *ClubClient) GetMember(ctx context.Context, dni uint64) (*club.Member, error) {
	var m club.Member
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/members/%d", dni), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *ClubClient) Payments(ctx context.Context, dni uint64) ([]club.PaymentSummary, error) {
	var payments []club.PaymentSummary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/members/%d/payments", dni), nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (c *ClubClient) MemberProfile(ctx context.Context, dni uint64) (club.Category, club.Activity, error) {
	m, err := c.GetMember(ctx, dni)
	if err != nil {
		return "", "", err
	}
	return m.Category, m.Activity, nil
}

func (c *ClubClient) Statement(ctx context.Context, dni *uint64) (*club.Statement, error) {
	path := "/statement"
	if dni != nil {
		path = fmt.Sprintf("/statement?dni=%d", *dni)
	}
	var st club.Statement
	if err := c.do(ctx, http.MethodGet, path, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *ClubClient) SetPrice(ctx context.Context, category string, amount uint64) error {
	return c.do(ctx, http.MethodPut, "/prices/"+category, map[string]uint64{"amount": amount}, nil)
}

func (c *ClubClient) Price(ctx context.Context, category string) (uint64, error) {
	var out map[string]uint64
	if err := c.do(ctx, http.MethodGet, "/prices/"+category, nil, &out); err != nil {
		return 0, err
	}
	return out["amount"], nil
}

func (c *ClubClient) GrantPrincipal(ctx context.Context, principal string) error {
	return c.do(ctx, http.MethodPost, "/admin/grants", map[string]string{"principal": principal}, nil)
}

func (c *ClubClient) RevokePrincipal(ctx context.Context, principal string) error {
	return c.do(ctx, http.MethodDelete, "/admin/grants/"+principal, nil, nil)
}

func (c *ClubClient) SetOwner(ctx context.Context, owner string) error {
	return c.do(ctx, http.MethodPut, "/admin/owner", map[string]string{"owner": owner}, nil)
}

// TogglePolicy flips allow-list enforcement and reports the new state.
func (c *ClubClient) TogglePolicy(ctx context.Context) (bool, error) {
	var out map[string]bool
	if err := c.do(ctx, http.MethodPost, "/admin/policy/toggle", nil, &out); err != nil {
		return false, err
	}
	return out["enforced"], nil
}

func (c *ClubClient) SetDiscountPercent(ctx context.Context, percent uint64) error {
	return c.do(ctx, http.MethodPut, "/settings/discount", map[string]uint64{"percent": percent}, nil)
}

func (c *ClubClient) SetQualifyingMonths(ctx context.Context, months uint64) error {
	return c.do(ctx, http.MethodPut, "/settings/qualifying-months", map[string]uint64{"months": months}, nil)
}
