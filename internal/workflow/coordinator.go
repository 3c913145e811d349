// Package workflow orchestrates a topic visit: fetch previously saved
// content, initialize the editor exactly once, hydrate it exactly once,
// then dispatch independent user actions (generate, save, host, export,
// preview, share) against the live editor.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/blogsmith/blogsmith/internal/api"
	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/editor"
	"github.com/blogsmith/blogsmith/internal/progress"
	"github.com/blogsmith/blogsmith/internal/publish"
	"github.com/blogsmith/blogsmith/internal/store"
)

// CommandGenerateOrModify is the editor side-channel command that
// regenerates the selected node, or appends fresh content when nothing
// is selected.
const CommandGenerateOrModify = "generate-or-modify"

// editorContainer is the single container a coordinator owns.
const editorContainer = "page-editor"

// placeholderDocument is hydrated when neither a saved page nor any
// section content exists.
const placeholderDocument = `<div class="page">
<h1>Untitled</h1>
<p>Start writing, or generate sections from your topic.</p>
</div>`

var (
	// ErrStaleResponse marks a fetch that resolved after its topic visit
	// was superseded; its content must not reach the editor.
	ErrStaleResponse = errors.New("stale response for superseded topic visit")

	// ErrEditorNotReady is returned by actions that need a live, hydrated
	// editor.
	ErrEditorNotReady = errors.New("editor not ready: open a topic first")

	// ErrFeatureDisabled is returned when a feature-flagged action is
	// invoked while its flag is off.
	ErrFeatureDisabled = errors.New("feature disabled in configuration")
)

// Backend is the slice of the API client the coordinator uses.
type Backend interface {
	FetchSections(ctx context.Context, userID, topicID string) (api.Sections, error)
	FetchWebpage(ctx context.Context, userID, topicID string) (string, error)
	GenerateSection(ctx context.Context, req api.GenerateRequest) (string, error)
	GenerateContent(ctx context.Context, userID, topicID, prompt, content string) (string, error)
	SaveSection(ctx context.Context, userID, topicID, blogTitle string, section api.Section, content string) error
	SaveWebpage(ctx context.Context, userID, topicID, htmlContent string) error
	UploadWebpage(ctx context.Context, userID, topicID, htmlContent string) (string, error)
	UploadImage(ctx context.Context, userID, topicID, filename string, r io.Reader) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	GenerateTemplate(ctx context.Context, userID, topicID, additionalPrompt string) (string, error)
}

// Coordinator drives the content-synchronization workflow for one user.
type Coordinator struct {
	backend Backend
	bridge  editor.Bridge
	cache   *store.Store // optional
	flags   config.Features
	log     zerolog.Logger
	userID  string

	mu        sync.Mutex
	state     State
	visit     uint64 // monotonically increasing topic-visit token
	topic     api.Topic
	inst      editor.Instance
	hydrated  bool
	hostedURL string
}

// New creates a coordinator. cache may be nil to disable the local
// draft fallback.
func New(backend Backend, bridge editor.Bridge, cache *store.Store, flags config.Features, userID string, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		backend: backend,
		bridge:  bridge,
		cache:   cache,
		flags:   flags,
		log:     logger,
		userID:  userID,
		state:   StateIdle,
	}
}

// State returns the current workflow state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Topic returns the topic of the current visit.
func (c *Coordinator) Topic() api.Topic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topic
}

// SetTopic selects a topic for section-level actions (generate, save)
// without starting an editor visit. OpenTopic still governs the editor
// lifecycle.
func (c *Coordinator) SetTopic(topic api.Topic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topic = topic
}

// HostedURL returns the URL of the most recent host, if any. It is held
// in memory only.
func (c *Coordinator) HostedURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hostedURL
}

func (c *Coordinator) setState(s State) {
	c.log.Debug().Stringer("from", c.state).Stringer("to", s).Msg("workflow state")
	c.state = s
}

// OpenTopic starts a topic visit: it fetches the saved page document
// (falling back to section-derived HTML, then to a placeholder),
// initializes the editor exactly once and hydrates it with the result.
// A visit started while an earlier fetch is still in flight supersedes
// it; the earlier fetch's result is discarded on arrival.
func (c *Coordinator) OpenTopic(ctx context.Context, topic api.Topic) error {
	c.mu.Lock()
	c.visit++
	token := c.visit
	if c.inst != nil {
		c.inst.Destroy()
		c.inst = nil
	}
	c.hydrated = false
	c.hostedURL = ""
	c.topic = topic
	c.setState(StateFetchingContent)
	c.mu.Unlock()

	doc := c.fetchDocument(ctx, topic)
	return c.hydrate(token, doc)
}

// fetchDocument resolves the hydration content for a topic: saved page
// document first, then section content synthesized into a default
// layout, then the fixed placeholder. Fetch failures fall back to the
// local draft cache and are never fatal.
func (c *Coordinator) fetchDocument(ctx context.Context, topic api.Topic) string {
	page, err := c.backend.FetchWebpage(ctx, c.userID, topic.ID)
	if err == nil {
		if c.cache != nil {
			if cerr := c.cache.PutPage(c.userID, topic.ID, page); cerr != nil {
				c.log.Warn().Err(cerr).Msg("caching fetched page")
			}
		}
		return page
	}
	if !errors.Is(err, api.ErrNotFound) {
		c.log.Warn().Err(err).Str("topic", topic.ID).Msg("fetching saved page failed, trying cache")
		if c.cache != nil {
			if cached, cerr := c.cache.GetPage(c.userID, topic.ID); cerr == nil {
				return cached
			}
		}
	}

	secs, err := c.backend.FetchSections(ctx, c.userID, topic.ID)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		c.log.Warn().Err(err).Str("topic", topic.ID).Msg("fetching sections failed, trying cache")
		if c.cache != nil {
			if cached, cerr := c.cache.GetSections(c.userID, topic.ID); cerr == nil {
				secs = cached
			}
		}
	}

	if secs.Empty() {
		return placeholderDocument
	}
	return defaultDocument(secs)
}

// defaultDocument synthesizes a page layout from the three sections.
// Section content is trusted HTML.
func defaultDocument(secs api.Sections) string {
	return fmt.Sprintf(`<div class="page">
<h1 class="blog-title">%s</h1>
<div class="blog-introduction">%s</div>
<div class="blog-body">%s</div>
</div>`, secs.Title, secs.Introduction, secs.Body)
}

// hydrate applies fetched content to the editor for the given visit.
// It initializes the editor at most once per visit and loads content at
// most once, no matter how many times data-ready callbacks fire, and
// discards content belonging to a superseded visit.
func (c *Coordinator) hydrate(token uint64, doc string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.visit {
		c.log.Debug().Uint64("token", token).Uint64("visit", c.visit).Msg("discarding stale hydration")
		return ErrStaleResponse
	}
	if c.hydrated {
		return nil
	}

	if c.inst == nil {
		c.setState(StateEditorInitializing)
		inst, err := c.bridge.Initialize(editorContainer)
		if err != nil {
			c.setState(StateEditorUninitialized)
			return fmt.Errorf("initializing editor: %w", err)
		}
		if err := inst.RegisterCommand(CommandGenerateOrModify, c.generateOrModify); err != nil {
			inst.Destroy()
			c.setState(StateEditorUninitialized)
			return fmt.Errorf("registering editor command: %w", err)
		}
		c.inst = inst
	}

	if err := c.inst.LoadContent(doc); err != nil {
		return fmt.Errorf("hydrating editor: %w", err)
	}
	c.hydrated = true
	c.setState(StateEditorReady)
	return nil
}

// instance returns the live, hydrated editor instance.
func (c *Coordinator) instance() (editor.Instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inst == nil || !c.hydrated {
		return nil, ErrEditorNotReady
	}
	return c.inst, nil
}

// GenerateSection asks the backend to generate one section for the
// current topic. The result is returned for review; it is not saved.
func (c *Coordinator) GenerateSection(ctx context.Context, section api.Section, additionalPrompt string) (string, error) {
	topic := c.Topic()
	return c.backend.GenerateSection(ctx, api.GenerateRequest{
		UserID:           c.userID,
		TopicID:          topic.ID,
		Topic:            topic.Title,
		Section:          section,
		AdditionalPrompt: additionalPrompt,
	})
}

// GenerateAll generates every section in document order, reporting
// progress as it goes. A failed section is skipped so the rest can
// still be produced; the combined error is returned alongside whatever
// was generated.
func (c *Coordinator) GenerateAll(ctx context.Context, reporter progress.Reporter, additionalPrompt string) (api.Sections, error) {
	if reporter == nil {
		reporter = progress.Silent{}
	}

	var secs api.Sections
	var errs []error

	reporter.Start(len(api.AllSections), "Generating sections")
	for i, sec := range api.AllSections {
		reporter.Update(i, fmt.Sprintf("Generating %s", sec.Field()))
		content, err := c.GenerateSection(ctx, sec, additionalPrompt)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		secs.Set(sec, content)
		reporter.Update(i+1, fmt.Sprintf("Generated %s", sec.Field()))
	}
	reporter.Finish()

	return secs, errors.Join(errs...)
}

// SaveSection persists one edited section verbatim and refreshes the
// local draft cache. Local state is untouched on failure so the user
// can retry.
func (c *Coordinator) SaveSection(ctx context.Context, section api.Section, content string) error {
	topic := c.Topic()
	if err := c.backend.SaveSection(ctx, c.userID, topic.ID, topic.Title, section, content); err != nil {
		return err
	}
	if c.cache != nil {
		if err := c.cache.PutSection(c.userID, topic.ID, section, content); err != nil {
			c.log.Warn().Err(err).Msg("caching saved section")
		}
	}
	return nil
}

// GenerateImage asks the backend for an AI-generated image and returns
// its URL. Gated by the ai_image feature flag.
func (c *Coordinator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if !c.flags.AIImage {
		return "", ErrFeatureDisabled
	}
	return c.backend.GenerateImage(ctx, prompt)
}

// AddImage appends an image fragment to the document, into the selected
// node if one exists.
func (c *Coordinator) AddImage(url string) error {
	inst, err := c.instance()
	if err != nil {
		return err
	}

	c.withState(StateEditing, func() {
		fragment := fmt.Sprintf(`<img src="%s" alt="AI generated image" style="max-width:100%%;height:auto;"/>`, html.EscapeString(url))
		_, err = inst.AppendComponent(fragment)
	})
	return err
}

// ApplyTemplate replaces the whole document with an AI-generated page
// built from the topic's saved sections. Gated by the ai_template flag.
func (c *Coordinator) ApplyTemplate(ctx context.Context, additionalPrompt string) error {
	if !c.flags.AITemplate {
		return ErrFeatureDisabled
	}
	inst, err := c.instance()
	if err != nil {
		return err
	}

	topic := c.Topic()
	page, err := c.backend.GenerateTemplate(ctx, c.userID, topic.ID, additionalPrompt)
	if err != nil {
		return err
	}

	c.withState(StateEditing, func() {
		err = inst.LoadContent(page)
	})
	return err
}

// GenerateOrModify runs the editor's generate-or-modify command with
// the given prompt.
func (c *Coordinator) GenerateOrModify(ctx context.Context, prompt string) error {
	inst, err := c.instance()
	if err != nil {
		return err
	}

	c.withState(StateEditing, func() {
		err = inst.RunCommand(ctx, CommandGenerateOrModify, prompt)
	})
	return err
}

// generateOrModify is the command body: with a selection it rewrites
// the selected node in place, otherwise it appends fresh content at
// the root.
func (c *Coordinator) generateOrModify(ctx context.Context, inst editor.Instance, prompt string) error {
	topic := c.Topic()

	if _, ok := inst.Selection(); ok {
		current, err := inst.SelectedHTML()
		if err != nil {
			return err
		}
		rewritten, err := c.backend.GenerateContent(ctx, c.userID, topic.ID, prompt, current)
		if err != nil {
			return err
		}
		return inst.ReplaceSelection(rewritten)
	}

	generated, err := c.backend.GenerateContent(ctx, c.userID, topic.ID, prompt, "")
	if err != nil {
		return err
	}
	_, err = inst.AppendComponent(generated)
	return err
}

// SelectNode, ClearSelection and Nodes expose the editor's selection to
// the CLI so generate-or-modify can target a specific block.
func (c *Coordinator) SelectNode(id editor.NodeID) error {
	inst, err := c.instance()
	if err != nil {
		return err
	}
	return inst.Select(id)
}

func (c *Coordinator) ClearSelection() error {
	inst, err := c.instance()
	if err != nil {
		return err
	}
	inst.ClearSelection()
	return nil
}

func (c *Coordinator) Nodes() ([]editor.NodeID, error) {
	inst, err := c.instance()
	if err != nil {
		return nil, err
	}
	return inst.Nodes(), nil
}

// page snapshots the editor document as publishable material.
func (c *Coordinator) page() (publish.Page, error) {
	inst, err := c.instance()
	if err != nil {
		return publish.Page{}, err
	}

	body, err := inst.HTML()
	if err != nil {
		return publish.Page{}, err
	}
	css, err := inst.CSS()
	if err != nil {
		return publish.Page{}, err
	}

	topic := c.Topic()
	return publish.Page{
		Title: topic.Title,
		Body:  body,
		CSS:   css,
		OG:    publish.OGMeta{Title: topic.Title},
	}, nil
}

// Document assembles the current editor state into a standalone HTML
// document.
func (c *Coordinator) Document() (string, error) {
	p, err := c.page()
	if err != nil {
		return "", err
	}
	og := p.OG
	return publish.AssembleDocument(p.Title, p.Body, p.CSS, &og)
}

// Save persists the assembled document to the backend and refreshes the
// draft cache.
func (c *Coordinator) Save(ctx context.Context) error {
	doc, err := c.Document()
	if err != nil {
		return err
	}

	topic := c.Topic()
	c.withState(StatePublishing, func() {
		err = c.backend.SaveWebpage(ctx, c.userID, topic.ID, doc)
	})
	if err != nil {
		return err
	}

	if c.cache != nil {
		if cerr := c.cache.PutPage(c.userID, topic.ID, doc); cerr != nil {
			c.log.Warn().Err(cerr).Msg("caching saved page")
		}
	}
	return nil
}

// Host publishes the page in two phases and records the hosted URL. A
// partial first-phase URL is kept even when the second phase fails.
func (c *Coordinator) Host(ctx context.Context) (string, error) {
	p, err := c.page()
	if err != nil {
		return "", err
	}

	topic := c.Topic()
	var url string
	c.withState(StatePublishing, func() {
		url, err = publish.Host(ctx, c.backend, c.userID, topic.ID, p)
	})

	if url != "" {
		c.mu.Lock()
		c.hostedURL = url
		c.mu.Unlock()
	}
	return url, err
}

// Export writes the assembled document to a local file. An empty path
// picks a generated filename in the working directory.
func (c *Coordinator) Export(path string) (string, error) {
	doc, err := c.Document()
	if err != nil {
		return "", err
	}
	if path == "" {
		path = filepath.Join(".", publish.DefaultExportName(c.Topic().ID))
	}
	if err := publish.ExportLocal(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// UploadImageFile uploads a local image file and returns its hosted
// URL. Gated by the local_upload feature flag.
func (c *Coordinator) UploadImageFile(ctx context.Context, path string) (string, error) {
	if !c.flags.LocalUpload {
		return "", ErrFeatureDisabled
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	topic := c.Topic()
	return c.backend.UploadImage(ctx, c.userID, topic.ID, filepath.Base(path), f)
}

// Share returns the share link for the hosted page on the given
// platform. The page must have been hosted during this visit.
func (c *Coordinator) Share(platform string) (string, error) {
	topic := c.Topic()
	return publish.ShareURL(platform, c.HostedURL(), topic.Title, "")
}

// withState runs fn with the workflow temporarily in state s, restoring
// EditorReady afterwards.
func (c *Coordinator) withState(s State, fn func()) {
	c.mu.Lock()
	c.setState(s)
	c.mu.Unlock()

	fn()

	c.mu.Lock()
	if c.hydrated {
		c.setState(StateEditorReady)
	}
	c.mu.Unlock()
}
