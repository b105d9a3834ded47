// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driving/tui/components/input"
	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driving/tui/components/status"
	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driving/tui/keymap"
	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driving/tui/messages"
	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driving/tui/styles"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driving"
)

// ErrNoChatService is returned when a message is sent without a chat service.
var ErrNoChatService = errors.New("chat service not available")

// chromeHeight is the rows taken by header, input and status bar.
const chromeHeight = 7

// entry is one rendered line of the transcript.
type entry struct {
	role      domain.Role
	text      string
	platforms []domain.PlatformRef
	degraded  string
}

// View is the conversation screen: transcript, input and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.MessageInput
	transcript viewport.Model
	statusbar  *status.Bar

	chatService driving.ChatService
	ctx         context.Context

	sessionID string
	entries   []entry
	waiting   bool
	err       error

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:      s,
		keymap:      km,
		input:       input.NewMessageInput(s),
		transcript:  viewport.New(80, 24-chromeHeight),
		statusbar:   status.NewBar(s, km),
		chatService: chatService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
	if chatService != nil {
		info := chatService.Strategy()
		label := info.Kind.String()
		if info.Provider != "" {
			label = fmt.Sprintf("%s (%s)", info.Provider, info.Model)
		}
		v.statusbar.SetStrategy(label)
	}
	return v
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithSession resumes an existing session.
func (v *View) WithSession(sessionID string) *View {
	v.sessionID = sessionID
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ReplyReceived:
		v.handleReply(msg)
		return v, nil

	case messages.SessionCleared:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.entries = nil
		v.err = nil
		v.statusbar.Clear()
		v.statusbar.SetMessage("New conversation")
		v.refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }

	case keymap.Matches(keyStr, v.keymap.Send):
		text := strings.TrimSpace(v.input.Value())
		if text == "" || v.waiting {
			return v, nil
		}
		v.input.Reset()
		v.entries = append(v.entries, entry{role: domain.RoleUser, text: text})
		v.waiting = true
		v.err = nil
		v.statusbar.SetState(status.StateThinking)
		v.refresh()
		return v, v.send(text)

	case keymap.Matches(keyStr, v.keymap.Clear):
		if v.waiting {
			return v, nil
		}
		return v, v.clear()

	case keymap.Matches(keyStr, v.keymap.ScrollUp):
		v.transcript.HalfPageUp()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.ScrollDown):
		v.transcript.HalfPageDown()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// send asks the chat service for a reply.
func (v *View) send(text string) tea.Cmd {
	sessionID := v.sessionID
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ReplyReceived{Err: ErrNoChatService}
		}
		reply, err := v.chatService.Chat(v.ctx, domain.ChatRequest{SessionID: sessionID, Message: text})
		return messages.ReplyReceived{Reply: reply, Err: err}
	}
}

// clear drops the session on the service side.
func (v *View) clear() tea.Cmd {
	sessionID := v.sessionID
	return func() tea.Msg {
		if sessionID == "" || v.chatService == nil {
			return messages.SessionCleared{}
		}
		return messages.SessionCleared{Err: v.chatService.Clear(v.ctx, sessionID)}
	}
}

func (v *View) handleReply(msg messages.ReplyReceived) {
	v.waiting = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	reply := msg.Reply
	v.sessionID = reply.SessionID
	e := entry{role: domain.RoleAssistant, text: reply.Response, platforms: reply.Platforms}
	if reply.Error && reply.Message != reply.Response {
		e.degraded = reply.Message
	}
	v.entries = append(v.entries, e)
	v.statusbar.Clear()
	v.refresh()
}

func (v *View) setError(err error) {
	v.waiting = false
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// refresh re-renders the transcript and scrolls to the newest turn.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.entries) == 0 {
		return v.styles.Muted.Render("Tell me what you want to build and I'll suggest AI platforms from the directory.")
	}

	body := v.styles.Normal.Width(max(v.width-2, 20))
	blocks := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		var b strings.Builder
		if e.role == domain.RoleUser {
			b.WriteString(v.styles.UserLabel.Render("You"))
		} else {
			b.WriteString(v.styles.AssistantLabel.Render("Assistant"))
		}
		b.WriteString("\n")
		if e.degraded != "" {
			b.WriteString(v.styles.Warning.Render(e.degraded))
			b.WriteString("\n")
		}
		b.WriteString(body.Render(e.text))
		for _, p := range e.platforms {
			b.WriteString("\n")
			b.WriteString(v.styles.Platform.Render(fmt.Sprintf("  • %s (%s) /platform/%s", p.Name, p.Category, p.Slug)))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("AI Platform Directory"),
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.transcript.Width = width
	v.transcript.Height = max(height-chromeHeight, 3)
	v.refresh()
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// SessionID returns the current session, empty before the first reply.
func (v *View) SessionID() string {
	return v.sessionID
}

// Waiting reports whether a reply is pending.
func (v *View) Waiting() bool {
	return v.waiting
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// Transcript returns the rendered conversation.
func (v *View) Transcript() string {
	return v.renderTranscript()
}

// Input returns the text currently typed.
func (v *View) Input() string {
	return v.input.Value()
}
