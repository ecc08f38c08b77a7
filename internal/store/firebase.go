package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FirebaseStore talks to a Firebase Realtime Database over its REST
// surface: GET /.json for the full document, PUT /<path>.json for a
// whole-subtree replace, and a text/event-stream GET for change
// notifications. The stream delivers patches; since the contract promises
// the full document on every change, each stream event triggers a full
// re-read which is then pushed to the subscriber.
type FirebaseStore struct {
	baseURL string
	token   string
	client  *http.Client
	log     *zap.Logger
}

func NewFirebaseStore(baseURL, token string, log *zap.Logger) *FirebaseStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FirebaseStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

func (f *FirebaseStore) url(path string) string {
	u := f.baseURL + "/" + strings.Trim(path, "/") + ".json"
	if path == "" {
		u = f.baseURL + "/.json"
	}
	if f.token != "" {
		u += "?auth=" + f.token
	}
	return u
}

func (f *FirebaseStore) ReadAll(ctx context.Context) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url(""), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("read document: unexpected status %s", resp.Status)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

func (f *FirebaseStore) ReplaceSubtree(ctx context.Context, path string, value interface{}) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode subtree %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, f.url(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to replace subtree %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("replace subtree %s: unexpected status %s", path, resp.Status)
	}
	return nil
}

func (f *FirebaseStore) Subscribe(ctx context.Context) (<-chan Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url(""), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	// The streaming connection must outlive the client's default timeout.
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to open event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("event stream: unexpected status %s", resp.Status)
	}

	ch := make(chan Document, 16)
	go f.stream(ctx, resp.Body, ch)
	return ch, nil
}

func (f *FirebaseStore) stream(ctx context.Context, body io.ReadCloser, ch chan<- Document) {
	defer body.Close()
	defer close(ch)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var event string
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if event != "put" && event != "patch" {
				continue
			}
			doc, err := f.ReadAll(ctx)
			if err != nil {
				f.log.Warn("re-read after stream event failed", zap.Error(err))
				continue
			}
			select {
			case ch <- doc:
			case <-ctx.Done():
				return
			}
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		f.log.Warn("event stream closed", zap.Error(err))
	}
}
