package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData[T any](w http.ResponseWriter, status int, data T) {
	writeJSON(w, status, api.Envelope[T]{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.Envelope[any]{Success: false, Error: message})
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func (s *Server) listProjects(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]api.Project, 0, len(s.projects))
	for _, p := range s.projects {
		p.ContextFiles = slices.Clone(p.ContextFiles)
		out = append(out, p)
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req api.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Project name is required")
		return
	}
	writeData(w, http.StatusCreated, s.addProject(req))
}

func (s *Server) addProject(req api.CreateProjectRequest) api.Project {
	now := s.now()
	p := api.Project{
		ID:                  newID(),
		Name:                req.Name,
		Description:         req.Description,
		ContextInstructions: req.ContextInstructions,
		ContextFiles:        []string{},
		AIProvider:          req.AIProvider,
		AISettings:          req.AISettings,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.mu.Lock()
	s.projects = append(s.projects, p)
	s.mu.Unlock()
	return p
}

func (s *Server) projectIndex(id string) int {
	return slices.IndexFunc(s.projects, func(p api.Project) bool { return p.ID == id })
}

func (s *Server) listChats(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	s.mu.Lock()
	out := []api.Chat{}
	for _, c := range s.chats {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) createChat(w http.ResponseWriter, r *http.Request) {
	var req api.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Chat name is required")
		return
	}
	c, ok := s.addChat(req)
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeData(w, http.StatusCreated, c)
}

func (s *Server) addChat(req api.CreateChatRequest) (api.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.projectIndex(req.ProjectID) < 0 {
		return api.Chat{}, false
	}
	now := s.now()
	c := api.Chat{
		ID:                  newID(),
		ProjectID:           req.ProjectID,
		Name:                req.Name,
		Description:         req.Description,
		ContextInstructions: req.ContextInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.chats = append(s.chats, c)
	return c, true
}

func (s *Server) getChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	i := slices.IndexFunc(s.chats, func(c api.Chat) bool { return c.ID == id })
	var c api.Chat
	if i >= 0 {
		c = s.chats[i]
	}
	s.mu.Unlock()
	if i < 0 {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	out := slices.Clone(s.messages[id])
	s.mu.Unlock()
	if out == nil {
		out = []api.Message{}
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ChatID != "" && !slices.ContainsFunc(s.chats, func(c api.Chat) bool { return c.ID == req.ChatID }) {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}

	var used []api.ContextFile
	for _, id := range req.ContextFiles {
		if i := slices.IndexFunc(s.files, func(f api.ContextFile) bool { return f.ID == id }); i >= 0 {
			used = append(used, s.files[i])
		}
	}

	content := s.Reply(req.Prompt, used)
	usage := &api.Usage{
		PromptTokens:     len(strings.Fields(req.Prompt)),
		CompletionTokens: len(strings.Fields(content)),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	gen := api.Generation{Content: content, Usage: usage, Provider: "stub", Model: "stub-1"}

	result := api.GenerateResult{Response: gen}
	if req.ChatID != "" {
		now := s.now()
		user := api.Message{ID: newID(), ChatID: req.ChatID, Role: api.RoleUser, Content: req.Prompt, CreatedAt: now}
		reply := api.Message{
			ID:      newID(),
			ChatID:  req.ChatID,
			Role:    api.RoleAssistant,
			Content: content,
			Metadata: &api.MessageMetadata{
				Usage:        usage,
				Provider:     gen.Provider,
				Model:        gen.Model,
				ContextFiles: req.ContextFiles,
			},
			CreatedAt: now,
		}
		s.messages[req.ChatID] = append(s.messages[req.ChatID], user, reply)
		result.MessageID = reply.ID
	}
	writeData(w, http.StatusOK, result)
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	s.mu.Lock()
	out := []api.ContextFile{}
	for _, f := range s.files {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	file, hdr, err := r.FormFile("contextFile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()
	size, err := io.Copy(io.Discard, file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	name := strings.TrimSpace(r.FormValue("contextName"))
	if name == "" {
		name = hdr.Filename
	}
	stored := newID() + filepath.Ext(hdr.Filename)

	s.mu.Lock()
	pi := s.projectIndex(projectID)
	if pi < 0 {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	f := api.ContextFile{
		ID:           newID(),
		ProjectID:    projectID,
		Filename:     stored,
		OriginalName: hdr.Filename,
		MimeType:     hdr.Header.Get("Content-Type"),
		Size:         size,
		FilePath:     "uploads/" + stored,
		ContextName:  name,
		CreatedAt:    s.now(),
	}
	s.files = append(s.files, f)
	s.projects[pi].ContextFiles = append(s.projects[pi].ContextFiles, f.ID)
	s.mu.Unlock()

	s.logger.Debug("context file stored", zap.String("id", f.ID), zap.Int64("size", size))
	writeData(w, http.StatusCreated, f)
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	i := slices.IndexFunc(s.files, func(f api.ContextFile) bool { return f.ID == id })
	if i < 0 {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Context file not found")
		return
	}
	f := s.files[i]
	s.files = slices.Delete(s.files, i, i+1)
	if pi := s.projectIndex(f.ProjectID); pi >= 0 {
		s.projects[pi].ContextFiles = slices.DeleteFunc(s.projects[pi].ContextFiles, func(fid string) bool { return fid == id })
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
