package journal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/at-ishikawa/devnote/internal/clock"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrLogNotFound     = errors.New("log not found")
	ErrSnippetNotFound = errors.New("snippet not found")
	ErrInvalidRecord   = errors.New("invalid record")
)

// DefaultLevel is used when a log is created without a self rating.
const DefaultLevel = 3

// Identifier prefixes tell the record type apart at a glance.
const (
	projectIDPrefix = "p"
	logIDPrefix     = "l"
	snippetIDPrefix = "s"
)

//go:generate mockgen -source=store.go -destination=../mocks/journal/mock_saver.go -package=mock_journal Saver

// Saver persists a full snapshot of the document.
type Saver interface {
	Save(ctx context.Context, root *RootState) error
}

// Store owns the in-memory document. Every mutation is followed by a full snapshot save.
// When the save fails the mutation is kept in memory and the save error is returned.
type Store struct {
	root     *RootState
	saver    Saver
	clock    clock.Clock
	newID    func() string
	validate *validator.Validate
}

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithIDGenerator replaces the random part of new identifiers. The type prefix is always added.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

func NewStore(root *RootState, saver Saver, opts ...Option) *Store {
	if root == nil {
		root = NewRootState(0)
	}
	s := &Store{
		root:     root,
		saver:    saver,
		clock:    clock.System{},
		newID:    uuid.NewString,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the live document. Callers must not keep it across mutations.
func (s *Store) Root() *RootState {
	return s.root
}

// Replace swaps the whole document, e.g. after an import or a remote pull, and saves it.
func (s *Store) Replace(ctx context.Context, root *RootState) error {
	s.root = root
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	if err := s.saver.Save(ctx, s.root); err != nil {
		return fmt.Errorf("saver.Save() > %w", err)
	}
	return nil
}

func (s *Store) Projects() []ProjectRecord {
	return s.root.Projects
}

func (s *Store) Project(id string) (ProjectRecord, bool) {
	for _, p := range s.root.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return ProjectRecord{}, false
}

func (s *Store) CreateProject(ctx context.Context, name, description string) (ProjectRecord, error) {
	project := ProjectRecord{
		ID:          projectIDPrefix + s.newID(),
		Name:        name,
		Description: description,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.validate.Struct(project); err != nil {
		return ProjectRecord{}, fmt.Errorf("%w: project: %w", ErrInvalidRecord, err)
	}
	s.root.Projects = append(s.root.Projects, project)
	return project, s.save(ctx)
}

// DeleteProject removes the project together with its logs and snippets.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	index := slices.IndexFunc(s.root.Projects, func(p ProjectRecord) bool { return p.ID == id })
	if index == -1 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	s.root.Projects = slices.Delete(s.root.Projects, index, index+1)
	s.root.Logs = slices.DeleteFunc(s.root.Logs, func(l LogRecord) bool { return l.ProjectID == id })
	s.root.Snippets = slices.DeleteFunc(s.root.Snippets, func(sn SnippetRecord) bool { return sn.ProjectID == id })
	return s.save(ctx)
}

// NewLog holds the user supplied fields of a log.
type NewLog struct {
	ProjectID string
	Type      string
	Title     string
	Content   string
	Tags      []string
	Level     int
}

func (s *Store) CreateLog(ctx context.Context, input NewLog) (LogRecord, error) {
	if _, ok := s.Project(input.ProjectID); !ok {
		return LogRecord{}, fmt.Errorf("%w: %s", ErrProjectNotFound, input.ProjectID)
	}
	level := input.Level
	if level == 0 {
		level = DefaultLevel
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	log := LogRecord{
		ID:            logIDPrefix + s.newID(),
		ProjectID:     input.ProjectID,
		Type:          input.Type,
		Title:         input.Title,
		Content:       input.Content,
		Tags:          tags,
		Level:         level,
		Understanding: level,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.validate.Struct(log); err != nil {
		return LogRecord{}, fmt.Errorf("%w: log: %w", ErrInvalidRecord, err)
	}
	s.root.Logs = append(s.root.Logs, log)
	return log, s.save(ctx)
}

// LogUpdate holds the fields to overwrite. Nil fields are left untouched.
type LogUpdate struct {
	Type    *string
	Title   *string
	Content *string
	Tags    []string
	Level   *int
}

func (s *Store) UpdateLog(ctx context.Context, id string, update LogUpdate) (LogRecord, error) {
	return s.ModifyLog(ctx, id, func(log LogRecord) (LogRecord, error) {
		if update.Type != nil {
			log.Type = *update.Type
		}
		if update.Title != nil {
			log.Title = *update.Title
		}
		if update.Content != nil {
			log.Content = *update.Content
		}
		if update.Tags != nil {
			log.Tags = update.Tags
		}
		if update.Level != nil {
			log.Level = *update.Level
			log.Understanding = *update.Level
		}
		now := s.clock.Now()
		log.UpdatedAt = &now
		return log, nil
	})
}

// ModifyLog applies fn to a copy of the log and stores the result.
// The identifier, project and creation time cannot be changed through fn.
func (s *Store) ModifyLog(ctx context.Context, id string, fn func(LogRecord) (LogRecord, error)) (LogRecord, error) {
	index := slices.IndexFunc(s.root.Logs, func(l LogRecord) bool { return l.ID == id })
	if index == -1 {
		return LogRecord{}, fmt.Errorf("%w: %s", ErrLogNotFound, id)
	}
	current := s.root.Logs[index]
	updated, err := fn(current.Clone())
	if err != nil {
		return LogRecord{}, err
	}
	updated.ID = current.ID
	updated.ProjectID = current.ProjectID
	updated.CreatedAt = current.CreatedAt
	if err := s.validate.Struct(updated); err != nil {
		return LogRecord{}, fmt.Errorf("%w: log: %w", ErrInvalidRecord, err)
	}
	s.root.Logs[index] = updated
	return updated, s.save(ctx)
}

func (s *Store) DeleteLog(ctx context.Context, id string) error {
	index := slices.IndexFunc(s.root.Logs, func(l LogRecord) bool { return l.ID == id })
	if index == -1 {
		return fmt.Errorf("%w: %s", ErrLogNotFound, id)
	}
	s.root.Logs = slices.Delete(s.root.Logs, index, index+1)
	return s.save(ctx)
}

func (s *Store) Log(id string) (LogRecord, bool) {
	for _, l := range s.root.Logs {
		if l.ID == id {
			return l, true
		}
	}
	return LogRecord{}, false
}

func (s *Store) Logs() []LogRecord {
	return s.root.Logs
}

func (s *Store) LogsByProject(projectID string) []LogRecord {
	var logs []LogRecord
	for _, l := range s.root.Logs {
		if l.ProjectID == projectID {
			logs = append(logs, l)
		}
	}
	return logs
}

// AllTags returns every distinct tag in ascending order.
func (s *Store) AllTags() []string {
	seen := make(map[string]struct{})
	for _, l := range s.root.Logs {
		for _, t := range l.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Search returns logs whose title, content or tags contain the query, ignoring case.
// An empty projectID searches every project; an empty query matches everything.
func (s *Store) Search(projectID, query string) []LogRecord {
	query = strings.ToLower(query)
	var result []LogRecord
	for _, l := range s.root.Logs {
		if projectID != "" && l.ProjectID != projectID {
			continue
		}
		if query == "" || matchesQuery(l, query) {
			result = append(result, l)
		}
	}
	return result
}

func matchesQuery(l LogRecord, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(l.Title), lowerQuery) {
		return true
	}
	if strings.Contains(strings.ToLower(l.Content), lowerQuery) {
		return true
	}
	for _, t := range l.Tags {
		if strings.Contains(strings.ToLower(t), lowerQuery) {
			return true
		}
	}
	return false
}

func (s *Store) CreateSnippet(ctx context.Context, projectID, title, language, code string) (SnippetRecord, error) {
	if _, ok := s.Project(projectID); !ok {
		return SnippetRecord{}, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	now := s.clock.Now()
	snippet := SnippetRecord{
		ID:        snippetIDPrefix + s.newID(),
		ProjectID: projectID,
		Title:     title,
		Language:  language,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.validate.Struct(snippet); err != nil {
		return SnippetRecord{}, fmt.Errorf("%w: snippet: %w", ErrInvalidRecord, err)
	}
	s.root.Snippets = append(s.root.Snippets, snippet)
	return snippet, s.save(ctx)
}

func (s *Store) SnippetsByProject(projectID string) []SnippetRecord {
	var snippets []SnippetRecord
	for _, sn := range s.root.Snippets {
		if sn.ProjectID == projectID {
			snippets = append(snippets, sn)
		}
	}
	return snippets
}

type SnippetUpdate struct {
	Title    *string
	Language *string
	Code     *string
}

func (s *Store) UpdateSnippet(ctx context.Context, id string, update SnippetUpdate) (SnippetRecord, error) {
	index := slices.IndexFunc(s.root.Snippets, func(sn SnippetRecord) bool { return sn.ID == id })
	if index == -1 {
		return SnippetRecord{}, fmt.Errorf("%w: %s", ErrSnippetNotFound, id)
	}
	snippet := &s.root.Snippets[index]
	if update.Title != nil {
		snippet.Title = *update.Title
	}
	if update.Language != nil {
		snippet.Language = *update.Language
	}
	if update.Code != nil {
		snippet.Code = *update.Code
	}
	snippet.UpdatedAt = s.clock.Now()
	return *snippet, s.save(ctx)
}

func (s *Store) DeleteSnippet(ctx context.Context, id string) error {
	index := slices.IndexFunc(s.root.Snippets, func(sn SnippetRecord) bool { return sn.ID == id })
	if index == -1 {
		return fmt.Errorf("%w: %s", ErrSnippetNotFound, id)
	}
	s.root.Snippets = slices.Delete(s.root.Snippets, index, index+1)
	return s.save(ctx)
}
