package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/pkg/util/errorutil"
)

const upstreamName = "identity-service"

// Profile is the resolved identity of a user: the primary email, the
// employee number, name parts, and the raw group names carried by the
// SCIM record.
type Profile struct {
	Email     string   `json:"email"`
	EmpID     string   `json:"empId"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Entity    string   `json:"entity"`
	Groups    []string `json:"groups"`
}

// DisplayName joins the name parts for rendering.
func (p Profile) DisplayName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Client resolves user profiles from the SCIM identity service.
type Client interface {
	GetUserByEmail(ctx context.Context, email string) (*Profile, error)
}

type scimUser struct {
	UserName string `json:"userName"`
	Name     struct {
		GivenName  string `json:"givenName"`
		FamilyName string `json:"familyName"`
	} `json:"name"`
	Emails []struct {
		Value   string `json:"value"`
		Primary bool   `json:"primary"`
	} `json:"emails"`
	Groups []struct {
		Display string `json:"display"`
	} `json:"groups"`
	Enterprise struct {
		EmployeeNumber string `json:"employeeNumber"`
		Organization   string `json:"organization"`
	} `json:"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User"`
}

type scimListResponse struct {
	TotalResults int        `json:"totalResults"`
	Resources    []scimUser `json:"Resources"`
}

type client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient builds a SCIM client from configuration.
func NewClient(cfg config.SCIMConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		baseURL:    cfg.BaseURL,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetUserByEmail fetches the SCIM record whose email matches. A record
// without a primary email falls back to the first listed address, then
// to the userName.
func (c *client) GetUserByEmail(ctx context.Context, email string) (*Profile, error) {
	filter := url.QueryEscape(fmt.Sprintf("emails.value eq %q", email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/scim/Users?filter="+filter, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/scim+json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errorutil.NewUpstreamError(upstreamName, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorutil.NewUpstreamError(upstreamName, resp.StatusCode, "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorutil.NewUpstreamError(upstreamName, resp.StatusCode, string(raw), nil)
	}

	var list scimListResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, errorutil.NewUpstreamError(upstreamName, resp.StatusCode, string(raw), err)
	}
	if len(list.Resources) == 0 {
		return nil, errorutil.NewNotFound("identity user", map[string]any{"email": email})
	}

	return profileFrom(list.Resources[0]), nil
}

func profileFrom(u scimUser) *Profile {
	p := &Profile{
		FirstName: u.Name.GivenName,
		LastName:  u.Name.FamilyName,
		EmpID:     u.Enterprise.EmployeeNumber,
		Entity:    u.Enterprise.Organization,
	}
	for _, e := range u.Emails {
		if e.Primary {
			p.Email = e.Value
			break
		}
	}
	if p.Email == "" && len(u.Emails) > 0 {
		p.Email = u.Emails[0].Value
	}
	if p.Email == "" {
		p.Email = u.UserName
	}
	for _, g := range u.Groups {
		if g.Display != "" {
			p.Groups = append(p.Groups, g.Display)
		}
	}
	return p
}
