package httpapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// prerequisiteResponse is the body of GET /api/check-pandoc.
type prerequisiteResponse struct {
	PandocConfigured bool `json:"pandoc_configured"`
}

// topicImage is one entry of the topic_images map.
type topicImage struct {
	Type string `json:"type"`
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

// generateRequest is the body of POST /api/generate.
type generateRequest struct {
	Topics      []string              `json:"topics"`
	TopicImages map[string]topicImage `json:"topic_images"`
}

// generateResponse is the body returned by POST /api/generate.
type generateResponse struct {
	TaskID string `json:"task_id"`
}

// statusResponse is the body of GET /api/generate/status/{id}.
type statusResponse struct {
	Status   string           `json:"status"`
	Progress float64          `json:"progress"`
	Total    int              `json:"total"`
	Results  []resultEntry    `json:"results"`
	Errors   []topicErrorItem `json:"errors"`
}

type resultEntry struct {
	Topic        string `json:"topic"`
	Filename     string `json:"filename"`
	ArticleTitle string `json:"article_title"`
}

type topicErrorItem struct {
	Topic string `json:"topic"`
	Error string `json:"error"`
}

// retryRequest is the body of POST /api/generate/retry.
type retryRequest struct {
	TaskID string   `json:"task_id"`
	Topics []string `json:"topics"`
}

// CheckPrerequisites reports whether the server can produce documents.
func (c *Client) CheckPrerequisites(ctx context.Context) (bool, error) {
	var resp prerequisiteResponse
	if err := c.getJSON(ctx, "/api/check-pandoc", &resp); err != nil {
		return false, err
	}
	return resp.PandocConfigured, nil
}

// CreateJob starts a job and returns its ID.
func (c *Client) CreateJob(ctx context.Context, req domain.JobRequest) (string, error) {
	body := generateRequest{
		Topics:      req.Topics,
		TopicImages: make(map[string]topicImage, len(req.Attachments)),
	}
	for topic, ref := range req.Attachments {
		body.TopicImages[topic] = topicImage{Type: string(ref.Mode), Path: ref.Path, URL: ref.URL}
	}

	var resp generateResponse
	if err := c.postJSON(ctx, "/api/generate", body, &resp); err != nil {
		return "", err
	}
	if resp.TaskID == "" {
		return "", fmt.Errorf("decode response: missing task_id")
	}
	return resp.TaskID, nil
}

// GetJobStatus returns the current snapshot of a job.
func (c *Client) GetJobStatus(ctx context.Context, jobID string) (*domain.Job, error) {
	var resp statusResponse
	if err := c.getJSON(ctx, "/api/generate/status/"+url.PathEscape(jobID), &resp); err != nil {
		return nil, err
	}

	job := &domain.Job{
		ID:              jobID,
		Status:          domain.JobStatus(resp.Status),
		Total:           resp.Total,
		ProgressPercent: resp.Progress,
		Results:         make([]domain.ArticleResult, 0, len(resp.Results)),
		Errors:          make([]domain.TopicError, 0, len(resp.Errors)),
	}
	for _, r := range resp.Results {
		job.Results = append(job.Results, domain.ArticleResult{
			Topic:        r.Topic,
			Filename:     r.Filename,
			ArticleTitle: r.ArticleTitle,
		})
	}
	for _, e := range resp.Errors {
		job.Errors = append(job.Errors, domain.TopicError{Topic: e.Topic, ErrorMessage: e.Error})
	}
	return job, nil
}

// RetryTopic asks the server to regenerate one topic of an existing job.
func (c *Client) RetryTopic(ctx context.Context, jobID, topic string) error {
	return c.postJSON(ctx, "/api/generate/retry", retryRequest{TaskID: jobID, Topics: []string{topic}}, nil)
}
