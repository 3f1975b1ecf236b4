package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/batchwriter/internal/adapters/driving/topicfile"
	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// TopicInput is one topic of the set_topics tool.
type TopicInput struct {
	Text  string `json:"text" jsonschema:"the article topic"`
	Image string `json:"image,omitempty" jsonschema:"optional image for the article: a local file path or an http(s) URL"`
}

// SetTopicsInput is the input schema for the set_topics tool.
type SetTopicsInput struct {
	Topics      []TopicInput `json:"topics" jsonschema:"topics in submission order; replaces the current list"`
	EnableImage *bool        `json:"enable_image,omitempty" jsonschema:"whether the server should also generate images"`
}

// ListTopicsInput is the input schema for the list_topics tool.
type ListTopicsInput struct{}

// TopicsOutput describes the current topic list.
type TopicsOutput struct {
	Topics      []TopicOutput `json:"topics"`
	EnableImage bool          `json:"enable_image"`
	Capacity    int           `json:"capacity"`
	Warnings    []string      `json:"warnings,omitempty"`
}

// TopicOutput is one topic slot.
type TopicOutput struct {
	Position   int    `json:"position"`
	Text       string `json:"text"`
	Image      string `json:"image,omitempty"`
	ImageReady bool   `json:"image_ready,omitempty"`
}

// GenerateInput is the input schema for the generate tool.
type GenerateInput struct{}

// GenerateOutput is the output schema for the generate tool.
type GenerateOutput struct {
	JobID  string `json:"job_id"`
	Topics int    `json:"topics"`
}

// JobStatusInput is the input schema for the job_status tool.
type JobStatusInput struct{}

// JobStatusOutput is the latest known state of the current job.
type JobStatusOutput struct {
	JobID           string         `json:"job_id,omitempty"`
	State           string         `json:"state"`
	Status          string         `json:"status,omitempty"`
	Outcome         string         `json:"outcome,omitempty"`
	ProgressPercent int            `json:"progress_percent"`
	Completed       int            `json:"completed"`
	Total           int            `json:"total"`
	Results         []ResultOutput `json:"results"`
	Errors          []ErrorOutput  `json:"errors"`
}

// ResultOutput is one generated article.
type ResultOutput struct {
	Topic    string `json:"topic"`
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// ErrorOutput is one failed topic.
type ErrorOutput struct {
	Topic string `json:"topic"`
	Error string `json:"error"`
}

// RetryTopicInput is the input schema for the retry_topic tool.
type RetryTopicInput struct {
	Topic string `json:"topic" jsonschema:"the failed topic, exactly as shown in job_status errors"`
}

// RetryTopicOutput is the output schema for the retry_topic tool.
type RetryTopicOutput struct {
	JobID string `json:"job_id"`
	Topic string `json:"topic"`
}

// ReadArticleInput is the input schema for the read_article tool.
type ReadArticleInput struct {
	Filename string `json:"filename" jsonschema:"the file name of a generated article, as shown in job_status results"`
}

// ReadArticleOutput is the text of a generated article.
type ReadArticleOutput struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Words    int    `json:"words"`
	Text     string `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_topics",
		Description: "Replace the list of article topics for the next batch",
	}, s.handleSetTopics)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_topics",
		Description: "Show the article topics prepared for the next batch",
	}, s.handleListTopics)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate",
		Description: "Submit the prepared topics as one generation job; poll job_status for results",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "job_status",
		Description: "Progress, generated articles and failed topics of the current job",
	}, s.handleJobStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retry_topic",
		Description: "Ask the server to write one failed topic of the current job again",
	}, s.handleRetryTopic)

	if s.ports.Artifacts != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "read_article",
			Description: "Fetch a generated article and return its title and text",
		}, s.handleReadArticle)
	}
}

func (s *Server) handleSetTopics(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetTopicsInput,
) (*mcp.CallToolResult, TopicsOutput, error) {
	f := &topicfile.File{EnableImage: input.EnableImage}
	for i, t := range input.Topics {
		if strings.TrimSpace(t.Text) == "" {
			return nil, TopicsOutput{}, fmt.Errorf("%w: topic %d is empty", domain.ErrInvalidInput, i+1)
		}
		if t.Image != "" && s.ports.Resolver == nil {
			return nil, TopicsOutput{}, fmt.Errorf("topic %d: images are not supported by this server", i+1)
		}
		f.Topics = append(f.Topics, topicfile.Entry{Text: t.Text, Image: t.Image})
	}

	warnings, err := topicfile.Apply(ctx, f, s.ports.Workspace, s.ports.Resolver)
	if err != nil {
		return nil, TopicsOutput{}, err
	}

	output := s.topics()
	for _, w := range warnings {
		output.Warnings = append(output.Warnings, w.Error())
	}
	return nil, output, nil
}

func (s *Server) handleListTopics(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListTopicsInput,
) (*mcp.CallToolResult, TopicsOutput, error) {
	return nil, s.topics(), nil
}

func (s *Server) topics() TopicsOutput {
	slots := s.ports.Workspace.Slots()
	output := TopicsOutput{
		Topics:      make([]TopicOutput, len(slots)),
		EnableImage: s.ports.Workspace.EnableImage(),
		Capacity:    s.ports.Workspace.Capacity(),
	}
	for i, slot := range slots {
		t := TopicOutput{Position: i + 1, Text: slot.Topic()}
		if a := slot.Attachment; a != nil {
			t.Image = a.Filename
			if a.Kind == domain.AttachmentURL {
				t.Image = a.URL
			}
			t.ImageReady = a.IsResolved()
		}
		output.Topics[i] = t
	}
	return output
}

func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GenerateInput,
) (*mcp.CallToolResult, GenerateOutput, error) {
	if err := s.adoptPersisted(ctx); err != nil {
		return nil, GenerateOutput{}, err
	}
	jobID, err := s.ports.Orchestrator.Submit(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionInProgress) {
			return nil, GenerateOutput{}, fmt.Errorf("%w: job %s is still running; check it with job_status",
				err, s.ports.Orchestrator.Ledger().JobID)
		}
		return nil, GenerateOutput{}, err
	}
	return nil, GenerateOutput{JobID: jobID, Topics: s.ports.Orchestrator.Ledger().Total}, nil
}

func (s *Server) handleJobStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ JobStatusInput,
) (*mcp.CallToolResult, JobStatusOutput, error) {
	if err := s.adoptPersisted(ctx); err != nil {
		return nil, JobStatusOutput{}, err
	}
	return nil, s.jobStatus(), nil
}

func (s *Server) handleRetryTopic(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetryTopicInput,
) (*mcp.CallToolResult, RetryTopicOutput, error) {
	if err := s.adoptPersisted(ctx); err != nil {
		return nil, RetryTopicOutput{}, err
	}
	if err := s.ports.Orchestrator.RetryTopic(ctx, input.Topic); err != nil {
		return nil, RetryTopicOutput{}, err
	}
	return nil, RetryTopicOutput{JobID: s.ports.Orchestrator.Ledger().JobID, Topic: input.Topic}, nil
}

func (s *Server) handleReadArticle(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadArticleInput,
) (*mcp.CallToolResult, ReadArticleOutput, error) {
	if s.ports.Artifacts == nil {
		return nil, ReadArticleOutput{}, errors.New("reading articles is not supported by this server")
	}
	article, err := s.ports.Artifacts.Read(ctx, input.Filename)
	if err != nil {
		return nil, ReadArticleOutput{}, err
	}
	return nil, ReadArticleOutput{
		Filename: article.Filename,
		Title:    article.Title,
		Words:    article.WordCount(),
		Text:     article.Text(),
	}, nil
}

// adoptPersisted resumes a job left by an earlier process when nothing is
// being observed yet.
func (s *Server) adoptPersisted(ctx context.Context) error {
	orch := s.ports.Orchestrator
	if orch.State() != domain.StateIdle || orch.Ledger().JobID != "" {
		return nil
	}
	if _, err := orch.Resume(ctx); err != nil && !errors.Is(err, domain.ErrSubmissionInProgress) {
		return err
	}
	return nil
}

func (s *Server) jobStatus() JobStatusOutput {
	orch := s.ports.Orchestrator
	view := orch.Ledger()
	output := JobStatusOutput{
		JobID:           view.JobID,
		State:           string(orch.State()),
		Status:          string(view.Status),
		Outcome:         string(orch.LastOutcome()),
		ProgressPercent: view.RoundedPercent(),
		Completed:       view.CompletedCount,
		Total:           view.Total,
		Results:         make([]ResultOutput, len(view.Results)),
		Errors:          make([]ErrorOutput, len(view.Errors)),
	}
	for i, r := range view.Results {
		output.Results[i] = ResultOutput{Topic: r.Topic, Filename: r.Filename, Title: r.ArticleTitle}
	}
	for i, e := range view.Errors {
		output.Errors[i] = ErrorOutput{Topic: e.Topic, Error: e.ErrorMessage}
	}
	return output
}
