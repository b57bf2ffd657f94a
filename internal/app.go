package internal

import (
	_ "embed"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"formix/internal/colors"
	"formix/internal/database"
	"formix/internal/editor"
	"formix/internal/logging"
	"formix/internal/schema"

	"go.uber.org/zap"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
)

//go:embed sample_schema.json
var sampleSchema []byte

const headerHeight = 4 // Logo + title rows above the editor

// Config selects what the app edits
type Config struct {
	SchemaPath  string // Local JSON schema file; empty means the built-in sample
	OpenAPIPath string // OpenAPI document to pull a component schema from
	Component   string // Component schema name within the OpenAPI document
	ValuePath   string // Optional initial value file
	MaxDepth    int    // Structured recursion limit, 0 keeps the default
	NoDrafts    bool   // Disable draft persistence
}

// App hosts the editor component and owns the authoritative value
type App struct {
	ready         bool
	width, height int
	appVersion    string

	schemaKey   string
	schemaTitle string
	node        *schema.Node
	value       any // Authoritative value; the editor reports into it

	editor *editor.Editor
	db     *database.Service
	cfg    Config

	errMsg string

	log    *zap.Logger
	auxlog *stdlog.Logger
}

// NewApp builds the host model around an already loaded schema and value
func NewApp(appVersion string, cfg Config, key, title string, node *schema.Node, value any, db *database.Service) *App {
	auxlog := logging.GetAuxLogger()
	log := logging.GetGlobalLogger()
	log.Info(fmt.Sprintf("App version: %s", appVersion))

	app := &App{
		appVersion:  appVersion,
		schemaKey:   key,
		schemaTitle: title,
		node:        node,
		value:       value,
		db:          db,
		cfg:         cfg,
		log:         log,
		auxlog:      auxlog,
	}

	opts := []editor.Option{}
	if cfg.MaxDepth > 0 {
		opts = append(opts, editor.WithMaxDepth(cfg.MaxDepth))
	}
	app.editor = editor.New(node, value, func(v any) {
		app.value = v
	}, opts...)

	return app
}

// Value returns the authoritative value the editor has been reporting into
func (a *App) Value() any { return a.value }

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, a.editor.Update(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.editor.Close()
			a.saveDraft()
			return a, tea.Quit
		case "ctrl+j":
			a.editor.ToggleMode()
			return a, nil
		case "ctrl+f":
			return a, a.editor.Format()
		case "ctrl+s":
			a.saveDraft()
			return a, nil
		}
	}

	return a, a.editor.Update(msg)
}

// saveDraft persists the current raw buffer so the session can be resumed
func (a *App) saveDraft() {
	if a.cfg.NoDrafts || a.db == nil {
		return
	}
	buffer := a.editor.Buffer()
	if strings.TrimSpace(buffer) == "" {
		if err := a.db.DeleteDraft(a.schemaKey); err != nil {
			a.log.Error("Failed to delete empty draft", zap.Error(err))
		}
		return
	}
	if err := a.db.SaveDraft(a.schemaKey, a.schemaTitle, buffer); err != nil {
		a.log.Error("Failed to save draft", zap.Error(err))
		a.errMsg = "draft save failed: " + err.Error()
		return
	}
	a.log.Debug("Draft saved", zap.String("schema_key", a.schemaKey))
}

func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(a.editor.View(a.width, a.height-headerHeight-2))
	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) renderHeader() string {
	title := a.schemaTitle
	if title == "" {
		title = a.schemaKey
	}
	lines := colors.ApplyGradient([]string{
		"formix " + a.appVersion,
		title,
	})
	return strings.Join(lines, "\n") + "\n"
}

func (a *App) renderFooter() string {
	keyStyle := lipgloss.NewStyle().Foreground(colors.HelpKey)
	descStyle := lipgloss.NewStyle().Foreground(colors.HelpDesc)

	bindings := []struct{ key, desc string }{
		{"tab", "next field"},
		{"ctrl+j", "form/json"},
		{"ctrl+f", "format"},
		{"ctrl+s", "save draft"},
		{"ctrl+c", "quit"},
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, keyStyle.Render(kb.key)+" "+descStyle.Render(kb.desc))
	}
	footer := strings.Join(parts, "  ")

	if a.errMsg != "" {
		errStyle := lipgloss.NewStyle().Foreground(colors.ErrorColor)
		footer = errStyle.Render(a.errMsg) + "\n" + footer
	}
	return footer
}

// loadSchema resolves the configured schema source into a node and a stable
// draft key
func loadSchema(cfg Config) (*schema.Node, string, error) {
	if cfg.OpenAPIPath != "" {
		if cfg.Component == "" {
			return nil, "", fmt.Errorf("an OpenAPI document requires -component")
		}
		node, err := schema.LoadComponent(cfg.OpenAPIPath, cfg.Component)
		if err != nil {
			return nil, "", err
		}
		return node, cfg.OpenAPIPath + "#" + cfg.Component, nil
	}

	if cfg.SchemaPath != "" {
		data, err := os.ReadFile(cfg.SchemaPath)
		if err != nil {
			return nil, "", err
		}
		node, err := schema.Parse(data)
		if err != nil {
			return nil, "", fmt.Errorf("parse schema %s: %w", cfg.SchemaPath, err)
		}
		return node, cfg.SchemaPath, nil
	}

	node, err := schema.Parse(sampleSchema)
	if err != nil {
		return nil, "", err
	}
	return node, "sample", nil
}

// loadValue resolves the initial value: an explicit file wins, then a saved
// draft, then nothing.
func loadValue(cfg Config, db *database.Service, schemaKey string) (any, error) {
	if cfg.ValuePath != "" {
		data, err := os.ReadFile(cfg.ValuePath)
		if err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parse value %s: %w", cfg.ValuePath, err)
		}
		return v, nil
	}

	if cfg.NoDrafts || db == nil {
		return nil, nil
	}
	draft, err := db.GetDraft(schemaKey)
	if err != nil || draft == nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal([]byte(draft.Content), &v); err != nil {
		// A corrupt draft is dropped rather than blocking startup
		logging.Warn("Discarding unparseable draft", zap.String("schema_key", schemaKey), zap.Error(err))
		return nil, nil
	}
	logging.Info("Resumed draft", zap.String("schema_key", schemaKey))
	return v, nil
}

// Run wires everything together and drives the program to completion. On a
// clean exit the final value is printed to stdout.
func Run(appVersion string, cfg Config) error {
	closeLogger, err := logging.InitGlobalLogger()
	if err != nil {
		return err
	}
	if closeLogger != nil {
		defer closeLogger()
	}

	auxlog := logging.GetAuxLogger()

	node, schemaKey, err := loadSchema(cfg)
	if err != nil {
		return err
	}

	var db *database.Service
	if !cfg.NoDrafts {
		db = database.New()
		defer func() {
			auxlog.Println("Closing database connection...")
			if err := db.Close(); err != nil {
				auxlog.Printf("Error closing database: %v", err)
			}
		}()
		if err := db.SetSchemaHistory(schemaKey, mustCurrentSchema(db)); err != nil {
			logging.Warn("Failed to record schema history", zap.Error(err))
		}
	}

	value, err := loadValue(cfg, db, schemaKey)
	if err != nil {
		return err
	}

	app := NewApp(appVersion, cfg, schemaKey, node.Title, node, value, db)

	p := tea.NewProgram(app, tea.WithAltScreen())

	// Forward interrupts as quit keys so the draft still gets saved
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	}()

	model, err := p.Run()
	signal.Stop(sigChan)
	if err != nil {
		return err
	}

	final, ok := model.(*App)
	if !ok {
		return nil
	}
	if final.value == nil {
		return nil
	}
	out, err := json.MarshalIndent(final.value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func mustCurrentSchema(db *database.Service) string {
	current, err := db.GetCurrentSchema()
	if err != nil {
		return ""
	}
	return current
}
