package fakeapi

import (
	"slices"

	"github.com/ccumaco/ai-frontend/internal/api"
)

// SeedProject adds a project directly, bypassing HTTP.
func (s *Server) SeedProject(name string) api.Project {
	return s.addProject(api.CreateProjectRequest{Name: name})
}

// SeedChat adds a chat to an existing project.
func (s *Server) SeedChat(projectID, name string) api.Chat {
	c, _ := s.addChat(api.CreateChatRequest{ProjectID: projectID, Name: name})
	return c
}

// SeedMessage appends a message to a chat transcript.
func (s *Server) SeedMessage(chatID string, role api.Role, content string) api.Message {
	m := api.Message{ID: newID(), ChatID: chatID, Role: role, Content: content, CreatedAt: s.now()}
	s.mu.Lock()
	s.messages[chatID] = append(s.messages[chatID], m)
	s.mu.Unlock()
	return m
}

// SeedFile attaches a context file record to a project.
func (s *Server) SeedFile(projectID, contextName, originalName string, size int64) api.ContextFile {
	f := api.ContextFile{
		ID:           newID(),
		ProjectID:    projectID,
		Filename:     newID(),
		OriginalName: originalName,
		MimeType:     api.ContentTypeFor(originalName),
		Size:         size,
		ContextName:  contextName,
		CreatedAt:    s.now(),
	}
	f.FilePath = "uploads/" + f.Filename
	s.mu.Lock()
	s.files = append(s.files, f)
	if pi := s.projectIndex(projectID); pi >= 0 {
		s.projects[pi].ContextFiles = append(s.projects[pi].ContextFiles, f.ID)
	}
	s.mu.Unlock()
	return f
}

// Messages returns a copy of a chat transcript.
func (s *Server) Messages(chatID string) []api.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages[chatID])
}

// Files returns a copy of every stored context file.
func (s *Server) Files() []api.ContextFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.files)
}

// SeedDemo fills an empty backend with a small workspace to explore.
func SeedDemo(s *Server) {
	docs := s.SeedProject("Documentation")
	s.SeedFile(docs.ID, "Style guide", "style-guide.md", 4096)
	s.SeedFile(docs.ID, "", "glossary.txt", 1536)
	kickoff := s.SeedChat(docs.ID, "Kickoff")
	s.SeedMessage(kickoff.ID, api.RoleUser, "What should the onboarding guide cover?")
	s.SeedMessage(kickoff.ID, api.RoleAssistant,
		"A good onboarding guide covers:\n\n1. **Setup** of the local environment\n2. **Architecture** overview\n3. The `review` process")
	s.SeedChat(docs.ID, "Release notes")

	research := s.SeedProject("Research")
	s.SeedFile(research.ID, "Survey results", "survey.json", 20480)
}
