package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
)

// ListProjects returns every project.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	return do[[]Project](ctx, c, call{method: http.MethodGet, route: "/projects", path: "/projects"})
}

// CreateProject creates a project and returns the server record.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (Project, error) {
	body, err := jsonBody(req)
	if err != nil {
		return Project{}, err
	}
	return do[Project](ctx, c, call{
		method:      http.MethodPost,
		route:       "/projects",
		path:        "/projects",
		body:        body,
		contentType: "application/json",
	})
}

// ListChatsByProject returns the chats of one project.
func (c *Client) ListChatsByProject(ctx context.Context, projectID string) ([]Chat, error) {
	return do[[]Chat](ctx, c, call{
		method: http.MethodGet,
		route:  "/projects/{id}/chats",
		path:   "/projects/" + url.PathEscape(projectID) + "/chats",
	})
}

// CreateChat creates a chat and returns the server record.
func (c *Client) CreateChat(ctx context.Context, req CreateChatRequest) (Chat, error) {
	body, err := jsonBody(req)
	if err != nil {
		return Chat{}, err
	}
	return do[Chat](ctx, c, call{
		method:      http.MethodPost,
		route:       "/chats",
		path:        "/chats",
		body:        body,
		contentType: "application/json",
	})
}

// GetChat returns one chat.
func (c *Client) GetChat(ctx context.Context, chatID string) (Chat, error) {
	return do[Chat](ctx, c, call{
		method: http.MethodGet,
		route:  "/chats/{id}",
		path:   "/chats/" + url.PathEscape(chatID),
	})
}

// ListMessages returns the transcript of a chat in server order.
func (c *Client) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	return do[[]Message](ctx, c, call{
		method: http.MethodGet,
		route:  "/chats/{id}/messages",
		path:   "/chats/" + url.PathEscape(chatID) + "/messages",
	})
}

// Generate runs a generation. With ChatID set the backend persists the
// user prompt and the assistant reply into that chat.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	body, err := jsonBody(req)
	if err != nil {
		return GenerateResult{}, err
	}
	return do[GenerateResult](ctx, c, call{
		method:      http.MethodPost,
		route:       "/generate",
		path:        "/generate",
		body:        body,
		contentType: "application/json",
	})
}

// SendMessage posts prompt to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID, prompt string) (GenerateResult, error) {
	return c.Generate(ctx, GenerateRequest{Prompt: prompt, ChatID: chatID})
}

// ListContextFiles returns the context files attached to a project.
func (c *Client) ListContextFiles(ctx context.Context, projectID string) ([]ContextFile, error) {
	return do[[]ContextFile](ctx, c, call{
		method: http.MethodGet,
		route:  "/projects/{id}/context-files",
		path:   "/projects/" + url.PathEscape(projectID) + "/context-files",
	})
}

// UploadContextFile uploads one file as multipart fields contextFile and,
// when non-empty, contextName.
func (c *Client) UploadContextFile(ctx context.Context, projectID, filename string, content io.Reader, contextName string) (ContextFile, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="contextFile"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", ContentTypeFor(filename))
	part, err := w.CreatePart(h)
	if err != nil {
		return ContextFile{}, fmt.Errorf("multipart: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return ContextFile{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if contextName != "" {
		if err := w.WriteField("contextName", contextName); err != nil {
			return ContextFile{}, fmt.Errorf("multipart: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return ContextFile{}, fmt.Errorf("multipart: %w", err)
	}

	return do[ContextFile](ctx, c, call{
		method:      http.MethodPost,
		route:       "/projects/{id}/context-files",
		path:        "/projects/" + url.PathEscape(projectID) + "/context-files",
		body:        &buf,
		contentType: w.FormDataContentType(),
	})
}

// DeleteContextFile deletes a context file.
func (c *Client) DeleteContextFile(ctx context.Context, fileID string) error {
	_, err := do[json.RawMessage](ctx, c, call{
		method: http.MethodDelete,
		route:  "/context-files/{id}",
		path:   "/context-files/" + url.PathEscape(fileID),
	})
	return err
}

// ContentTypeFor guesses the MIME type sent for an uploaded file.
func ContentTypeFor(filename string) string {
	switch filepath.Ext(filename) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	}
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
