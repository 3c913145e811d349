package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client provides access to the blog-builder backend REST API. All
// user-scoped calls carry the bearer token set via SetToken.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a backend API client for the given base URL
// (e.g. "http://localhost:5000/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// errorBody is the backend's uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// do performs a JSON request and decodes a 2xx response into out.
// Non-2xx responses are returned as *RequestError with the backend's
// error message when one is present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		var eb errorBody
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return &RequestError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// statusOf extracts the HTTP status code from a *RequestError, or zero.
func statusOf(err error) int {
	if re, ok := err.(*RequestError); ok {
		return re.StatusCode
	}
	return 0
}

// Login authenticates with the backend and returns a bearer token and
// user id. The token is also installed on the client.
func (c *Client) Login(ctx context.Context, username, password string) (Credentials, error) {
	if username == "" || password == "" {
		return Credentials{}, &ValidationError{Field: "username and password"}
	}

	var creds Credentials
	err := c.do(ctx, http.MethodPost, "/login", nil, map[string]string{
		"username": username,
		"password": password,
	}, &creds)
	if err != nil {
		if code := statusOf(err); code == http.StatusUnauthorized || code == http.StatusForbidden {
			return Credentials{}, &AuthError{Reason: "invalid credentials"}
		}
		return Credentials{}, err
	}

	c.token = creds.Token
	return creds, nil
}

// Register creates a new account. Duplicate usernames are rejected.
func (c *Client) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return &ValidationError{Field: "username and password"}
	}

	err := c.do(ctx, http.MethodPost, "/register", nil, map[string]string{
		"username": username,
		"password": password,
	}, nil)
	if err != nil {
		if code := statusOf(err); code == http.StatusConflict || code == http.StatusBadRequest {
			return &AuthError{Reason: "username already exists"}
		}
		return err
	}
	return nil
}

// ListTopics returns the user's topics in server-defined order.
func (c *Client) ListTopics(ctx context.Context, userID string) ([]Topic, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user id"}
	}

	var resp struct {
		Topics []Topic `json:"topics"`
	}
	q := url.Values{"user_id": {userID}}
	if err := c.do(ctx, http.MethodGet, "/topics", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Topics, nil
}

// CreateTopic creates a named content bucket and returns its id.
func (c *Client) CreateTopic(ctx context.Context, userID, title string) (string, error) {
	if userID == "" {
		return "", &ValidationError{Field: "user id"}
	}
	if title == "" {
		return "", &ValidationError{Field: "topic title"}
	}

	var resp struct {
		TopicID string `json:"topic_id"`
	}
	err := c.do(ctx, http.MethodPost, "/topics", nil, map[string]string{
		"user_id": userID,
		"title":   title,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.TopicID, nil
}

// FetchSections retrieves the saved section content for a topic.
// Returns ErrNotFound if the backend has no record; slots the backend
// omits come back as empty strings.
func (c *Client) FetchSections(ctx context.Context, userID, topicID string) (Sections, error) {
	if userID == "" {
		return Sections{}, &ValidationError{Field: "user id"}
	}

	var secs Sections
	q := url.Values{"user_id": {userID}, "topic_id": {topicID}}
	if err := c.do(ctx, http.MethodGet, "/get_blog", q, nil, &secs); err != nil {
		if statusOf(err) == http.StatusNotFound {
			return Sections{}, ErrNotFound
		}
		return Sections{}, err
	}
	return secs, nil
}

// GenerateSection asks the backend to generate one section from the
// topic title, optionally steered by an additional prompt.
func (c *Client) GenerateSection(ctx context.Context, req GenerateRequest) (string, error) {
	if req.UserID == "" {
		return "", &ValidationError{Field: "user id"}
	}
	if req.Topic == "" {
		return "", &ValidationError{Field: "topic"}
	}
	if !req.Section.Valid() {
		return "", &ValidationError{Field: "section"}
	}

	var resp map[string]string
	err := c.do(ctx, http.MethodPost, "/generate", nil, map[string]string{
		"user_id":          req.UserID,
		"topic_id":         req.TopicID,
		"topic":            req.Topic,
		"section":          string(req.Section),
		"additionalPrompt": req.AdditionalPrompt,
	}, &resp)
	if err != nil {
		return "", &GenerationError{Kind: "section", Err: err}
	}

	content, ok := resp[req.Section.Field()]
	if !ok || content == "" {
		return "", &GenerationError{Kind: "section", Err: fmt.Errorf("empty %s in response", req.Section.Field())}
	}
	return content, nil
}

// GenerateContent is the prompt-driven generation mode: the backend
// rewrites or extends the given content fragment according to the
// prompt. Used by the editor's generate-or-modify command.
func (c *Client) GenerateContent(ctx context.Context, userID, topicID, prompt, content string) (string, error) {
	if userID == "" {
		return "", &ValidationError{Field: "user id"}
	}
	if prompt == "" {
		return "", &ValidationError{Field: "prompt"}
	}

	var resp struct {
		Content string `json:"content"`
	}
	err := c.do(ctx, http.MethodPost, "/generate", nil, map[string]string{
		"user_id":  userID,
		"topic_id": topicID,
		"prompt":   prompt,
		"content":  content,
	}, &resp)
	if err != nil {
		return "", &GenerationError{Kind: "content", Err: err}
	}
	if resp.Content == "" {
		return "", &GenerationError{Kind: "content", Err: fmt.Errorf("empty content in response")}
	}
	return resp.Content, nil
}

// SaveSection persists one edited section verbatim.
func (c *Client) SaveSection(ctx context.Context, userID, topicID, blogTitle string, section Section, content string) error {
	if userID == "" {
		return &ValidationError{Field: "user id"}
	}
	if !section.Valid() {
		return &ValidationError{Field: "section"}
	}

	err := c.do(ctx, http.MethodPost, "/save_blog", nil, map[string]string{
		"user_id":    userID,
		"topic_id":   topicID,
		"blog_title": blogTitle,
		"section":    string(section),
		"content":    content,
	}, nil)
	if err != nil {
		return &SaveError{What: "section", Err: err}
	}
	return nil
}

// FetchWebpage retrieves the saved page document for a topic, or
// ErrNotFound if none has been saved yet.
func (c *Client) FetchWebpage(ctx context.Context, userID, topicID string) (string, error) {
	if userID == "" {
		return "", &ValidationError{Field: "user id"}
	}

	var resp struct {
		HTMLContent string `json:"html_content"`
	}
	q := url.Values{"user_id": {userID}, "topic_id": {topicID}}
	if err := c.do(ctx, http.MethodGet, "/get_webpage", q, nil, &resp); err != nil {
		if statusOf(err) == http.StatusNotFound {
			return "", ErrNotFound
		}
		return "", err
	}
	if resp.HTMLContent == "" {
		return "", ErrNotFound
	}
	return resp.HTMLContent, nil
}

// SaveWebpage persists the assembled page document as one opaque blob.
func (c *Client) SaveWebpage(ctx context.Context, userID, topicID, htmlContent string) error {
	if userID == "" {
		return &ValidationError{Field: "user id"}
	}

	err := c.do(ctx, http.MethodPost, "/save_webpage", nil, map[string]string{
		"user_id":      userID,
		"topic_id":     topicID,
		"html_content": htmlContent,
	}, nil)
	if err != nil {
		return &SaveError{What: "webpage", Err: err}
	}
	return nil
}

// UploadWebpage uploads the page document to the hosting bucket and
// returns its public URL.
func (c *Client) UploadWebpage(ctx context.Context, userID, topicID, htmlContent string) (string, error) {
	if userID == "" {
		return "", &ValidationError{Field: "user id"}
	}

	var resp struct {
		S3URL string `json:"s3_url"`
	}
	err := c.do(ctx, http.MethodPost, "/upload_to_s3", nil, map[string]string{
		"user_id":      userID,
		"topic_id":     topicID,
		"html_content": htmlContent,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.S3URL == "" {
		return "", fmt.Errorf("no url in upload response")
	}
	return resp.S3URL, nil
}

// UploadImage uploads a local image via multipart form and returns its
// hosted URL.
func (c *Client) UploadImage(ctx context.Context, userID, topicID, filename string, r io.Reader) (string, error) {
	if userID == "" {
		return "", &ValidationError{Field: "user id"}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	_ = mw.WriteField("user_id", userID)
	_ = mw.WriteField("topic_id", topicID)
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalizing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload_image_to_s3", &buf)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return "", &RequestError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	var out struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return out.ImageURL, nil
}

// GenerateImage asks the backend to generate an image from a prompt and
// returns the URL of the rendered image.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", &ValidationError{Field: "image prompt"}
	}

	var resp struct {
		ImageURL string `json:"image_url"`
	}
	err := c.do(ctx, http.MethodPost, "/generate_image", nil, map[string]string{
		"prompt": prompt,
	}, &resp)
	if err != nil {
		return "", &GenerationError{Kind: "image", Err: err}
	}
	if resp.ImageURL == "" {
		return "", &GenerationError{Kind: "image", Err: fmt.Errorf("no image url in response")}
	}
	return resp.ImageURL, nil
}

// GenerateTemplate asks the backend for a complete styled page built
// from the topic's saved sections.
func (c *Client) GenerateTemplate(ctx context.Context, userID, topicID, additionalPrompt string) (string, error) {
	if userID == "" {
		return "", &ValidationError{Field: "user id"}
	}

	var resp struct {
		HTML string `json:"html"`
	}
	err := c.do(ctx, http.MethodPost, "/generate_template", nil, map[string]string{
		"user_id":           userID,
		"topic_id":          topicID,
		"additional_prompt": additionalPrompt,
	}, &resp)
	if err != nil {
		return "", &GenerationError{Kind: "template", Err: err}
	}
	if resp.HTML == "" {
		return "", &GenerationError{Kind: "template", Err: fmt.Errorf("empty template in response")}
	}
	return resp.HTML, nil
}
