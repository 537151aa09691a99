package issue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/cli/go-gh/v2/pkg/repository"
)

// RESTClient is the subset of the go-gh REST client used by APISubmitter
type RESTClient interface {
	DoWithContext(ctx context.Context, method string, path string, body io.Reader, response interface{}) error
}

// APISubmitter creates issues through the GitHub REST API using gh's credentials
type APISubmitter struct {
	client RESTClient
	repo   repository.Repository
}

// NewAPISubmitter creates a submitter for repo backed by the go-gh REST client
func NewAPISubmitter(repo repository.Repository, timeout time.Duration) (*APISubmitter, error) {
	opts := api.ClientOptions{
		Timeout: timeout,
	}
	if repo.Host != "" {
		opts.Host = repo.Host
	}

	client, err := api.NewRESTClient(opts)
	if err != nil {
		return nil, NewConfigurationError("failed to create REST client", err)
	}

	return NewAPISubmitterWithClient(client, repo), nil
}

// NewAPISubmitterWithClient creates a submitter with a custom REST client
func NewAPISubmitterWithClient(client RESTClient, repo repository.Repository) *APISubmitter {
	return &APISubmitter{
		client: client,
		repo:   repo,
	}
}

// createRequest builds the JSON body for POST /repos/{owner}/{repo}/issues
func createRequest(rec *Record) map[string]interface{} {
	req := map[string]interface{}{
		"title": rec.Title,
	}

	if rec.Body != "" {
		req["body"] = rec.Body
	}

	if labels := rec.LabelList(); len(labels) > 0 {
		req["labels"] = labels
	}

	return req
}

// Submit creates rec in the configured repository
func (s *APISubmitter) Submit(ctx context.Context, rec *Record) (*Result, error) {
	jsonData, err := json.Marshal(createRequest(rec))
	if err != nil {
		return nil, NewCommandError("failed to marshal request", err)
	}

	path := fmt.Sprintf("repos/%s/%s/issues", s.repo.Owner, s.repo.Name)

	var response struct {
		Number  int    `json:"number"`
		Title   string `json:"title"`
		HTMLURL string `json:"html_url"`
	}

	err = s.client.DoWithContext(ctx, http.MethodPost, path, bytes.NewReader(jsonData), &response)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, NewTimeoutError(err)
		}

		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) {
			return nil, NewCommandError(httpErr.Message, err)
		}
		return nil, NewCommandError(err.Error(), err)
	}

	return &Result{
		Title:  rec.Title,
		Number: response.Number,
		URL:    response.HTMLURL,
		Line:   rec.Line,
	}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
