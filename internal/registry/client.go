package registry

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
)

const (
	ContentProject        = "project"
	ContentMetadata       = "metadata"
	ContentRepeatingForms = "repeatingFormsEvents"
	ContentUser           = "user"
	ContentRecord         = "record"
)

// ProjectDefinition is the project-creation payload. The registry wants
// string-typed flags here, not booleans.
type ProjectDefinition struct {
	ProjectTitle               string `json:"project_title"`
	Purpose                    string `json:"purpose"`
	IsLongitudinal             string `json:"is_longitudinal"`
	SurveysEnabled             string `json:"surveys_enabled"`
	RecordAutonumberingEnabled string `json:"record_autonumbering_enabled"`
	ProjectNotes               string `json:"project_notes"`
}

type ClientInterface interface {
	// CreateProject exchanges the super token for a per-project token.
	CreateProject(ctx context.Context, apiURL string, def ProjectDefinition) (string, error)
	ImportMetadata(ctx context.Context, apiURL, token string, fields []FieldDescriptor) error
	ImportRepeatingForms(ctx context.Context, apiURL, token string, forms []RepeatingForm) error
	ImportUser(ctx context.Context, apiURL, token, username string) error
	ImportRecord(ctx context.Context, apiURL, token string, record map[string]any) error
	ExportRecords(ctx context.Context, apiURL, token string) ([]map[string]any, error)
}

type Client struct {
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	// reads tolerate a shorter wait than provisioning writes
	readClient  *http.Client
	writeClient *http.Client
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ClientInterface {
	return &Client{
		conf:        conf,
		logger:      logger,
		metrics:     metrics,
		readClient:  &http.Client{Timeout: conf.Registry.ReadTimeout},
		writeClient: &http.Client{Timeout: conf.Registry.WriteTimeout},
	}
}

func (c *Client) post(ctx context.Context, httpClient *http.Client, apiURL, token, content string, data any) ([]byte, error) {
	form := url.Values{}
	form.Set("token", token)
	form.Set("content", content)
	form.Set("format", "json")
	form.Set("type", "flat")
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		form.Set("data", string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := httpClient.Do(req)
	c.metrics.ObserveRegistryCallDuration(content, time.Since(start))
	if err != nil {
		c.metrics.IncRegistryCall(content, "unavailable")
		return nil, &UnavailableError{Content: content, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncRegistryCall(content, "unavailable")
		return nil, &UnavailableError{Content: content, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.IncRegistryCall(content, "rejected")
		return nil, &RejectedError{Content: content, Status: resp.StatusCode, Body: string(body)}
	}

	c.metrics.IncRegistryCall(content, "ok")
	return body, nil
}

func (c *Client) CreateProject(ctx context.Context, apiURL string, def ProjectDefinition) (string, error) {
	body, err := c.post(ctx, c.writeClient, apiURL, c.conf.Registry.SuperToken, ContentProject, []ProjectDefinition{def})
	if err != nil {
		return "", err
	}
	// the project token comes back as a quoted JSON string
	token := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if token == "" {
		return "", &RejectedError{Content: ContentProject, Status: http.StatusOK, Body: "empty project token"}
	}
	return token, nil
}

func (c *Client) ImportMetadata(ctx context.Context, apiURL, token string, fields []FieldDescriptor) error {
	_, err := c.post(ctx, c.writeClient, apiURL, token, ContentMetadata, fields)
	return err
}

func (c *Client) ImportRepeatingForms(ctx context.Context, apiURL, token string, forms []RepeatingForm) error {
	_, err := c.post(ctx, c.writeClient, apiURL, token, ContentRepeatingForms, forms)
	return err
}

func (c *Client) ImportUser(ctx context.Context, apiURL, token, username string) error {
	_, err := c.post(ctx, c.writeClient, apiURL, token, ContentUser, []map[string]any{userRights(username)})
	return err
}

func (c *Client) ImportRecord(ctx context.Context, apiURL, token string, record map[string]any) error {
	_, err := c.post(ctx, c.readClient, apiURL, token, ContentRecord, []map[string]any{record})
	return err
}

func (c *Client) ExportRecords(ctx context.Context, apiURL, token string) ([]map[string]any, error) {
	body, err := c.post(ctx, c.readClient, apiURL, token, ContentRecord, nil)
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &RejectedError{Content: ContentRecord, Status: http.StatusOK, Body: "unparsable record export"}
	}
	return records, nil
}

// userRights grants the maximal fixed permission set the designer uses
// for study owners.
func userRights(username string) map[string]any {
	rights := map[string]any{
		"username":                 username,
		"expiration":               "",
		"data_access_group":        "",
		"data_access_group_id":     "",
		"design":                   1,
		"user_rights":              1,
		"mobile_app":               0,
		"mobile_app_download_data": 0,
		"forms":                    map[string]any{},
		"forms_export":             map[string]any{},
	}
	for _, flag := range []string{
		"data_access_groups", "reports", "stats_and_charts",
		"manage_survey_participants", "calendar", "data_import_tool",
		"data_comparison_tool", "logging", "file_repository",
		"data_quality_create", "data_quality_execute",
		"api_export", "api_import", "record_create",
		"record_rename", "record_delete",
		"lock_records_all_forms", "lock_records",
		"lock_records_customization",
	} {
		rights[flag] = 1
	}
	return rights
}
