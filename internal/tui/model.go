package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/chat"
	"docchat/internal/domain"
	"docchat/internal/registry"
	"docchat/internal/upload"
)

// Prober is the TUI-facing subset of the connection monitor.
type Prober interface {
	Probe(ctx context.Context) domain.ConnectionState
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	controller *chat.Controller
	uploader   *upload.Coordinator
	prober     Prober
	registry   *registry.Client

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	conn     domain.ConnectionState
	docCount int
	status   string
	width    int
	ready    bool
}

type answeredMsg struct {
	kept bool
}

type uploadedMsg struct {
	result upload.Result
}

type probedMsg struct {
	state domain.ConnectionState
}

type refreshedMsg struct {
	err error
}

// New creates a new TUI model instance.
func New(controller *chat.Controller, uploader *upload.Coordinator, prober Prober, reg *registry.Client) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /upload, /docs, /clear, /quit"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		controller: controller,
		uploader:   uploader,
		prober:     prober,
		registry:   reg,
		input:      ti,
		viewport:   viewport.New(0, 0),
		spin:       sp,
		conn:       domain.StateUnreachable,
		status:     "Checking backend...",
	}
}

// Init probes the backend and fetches the document list on startup.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.probeCmd(), m.refreshCmd())
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, rh := transcriptBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // header + connection line
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			return m.handleEnter()
		}

	case spinner.TickMsg:
		if m.controller.Busy() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			m.refreshTranscript()
			return m, cmd
		}
		return m, nil

	case answeredMsg:
		if msg.kept {
			m.status = "Ready."
		} else {
			m.status = "Answer discarded: conversation was cleared."
		}
		m.refreshTranscript()
		return m, nil

	case uploadedMsg:
		m.status = summarizeBatch(msg.result)
		m.docCount = len(m.registry.Documents())
		m.refreshTranscript()
		return m, nil

	case probedMsg:
		m.conn = msg.state
		if m.status == "Checking backend..." {
			m.status = "Ready."
		}
		return m, nil

	case refreshedMsg:
		if msg.err == nil {
			m.docCount = len(m.registry.Documents())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	switch {
	case line == "":
		return m, nil
	case line == "/quit":
		return m, tea.Quit
	case line == "/clear":
		m.controller.Clear()
		m.input.SetValue("")
		m.status = "Conversation cleared."
		m.refreshTranscript()
		return m, nil
	case line == "/docs":
		m.input.SetValue("")
		m.status = "Refreshing document list..."
		return m, m.refreshCmd()
	case strings.HasPrefix(line, "/upload"):
		paths := strings.Fields(line)[1:]
		m.input.SetValue("")
		if len(paths) == 0 {
			m.status = "Usage: /upload <file> [file ...]"
			return m, nil
		}
		m.status = fmt.Sprintf("Uploading %d file(s)...", len(paths))
		return m, m.uploadCmd(paths)
	}

	sub := m.controller.Submit(line)
	if sub == nil {
		// Submit only rejects non-empty input while a question is in flight.
		m.status = "Still thinking about the previous question..."
		return m, nil
	}
	m.input.SetValue("")
	m.status = "Thinking..."
	m.refreshTranscript()
	return m, tea.Batch(m.spin.Tick, m.askCmd(sub))
}

func (m Model) askCmd(sub *chat.Submission) tea.Cmd {
	return func() tea.Msg {
		_, kept := m.controller.Ask(context.Background(), sub)
		return answeredMsg{kept: kept}
	}
}

func (m Model) uploadCmd(paths []string) tea.Cmd {
	return func() tea.Msg {
		return uploadedMsg{result: m.uploader.Upload(context.Background(), paths)}
	}
}

func (m Model) probeCmd() tea.Cmd {
	return func() tea.Msg {
		return probedMsg{state: m.prober.Probe(context.Background())}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.registry.Refresh(context.Background())}
	}
}

// View renders the TUI layout and current transcript.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("DocChat")
	conn := connStyle(m.conn).Render(fmt.Sprintf("backend: %s | documents: %d", m.conn, m.docCount))
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + conn + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	width := max(20, m.width-4)
	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder
	b.WriteString(assistantStyle.Render("Assistant: "))
	b.WriteString(wrap.Render(chat.Greeting))
	for _, msg := range m.controller.Transcript() {
		b.WriteString("\n\n")
		if msg.Sender == domain.SenderUser {
			b.WriteString(userStyle.Render("You: "))
		} else {
			b.WriteString(assistantStyle.Render("Assistant: "))
		}
		b.WriteString(wrap.Render(msg.Content))
		if len(msg.Sources) > 0 {
			b.WriteString("\n")
			b.WriteString(sourceStyle.Render("Sources: " + strings.Join(msg.Sources, ", ")))
		}
	}
	if m.controller.Busy() {
		b.WriteString("\n\n")
		b.WriteString(assistantStyle.Render("Assistant: "))
		b.WriteString(m.spin.View() + "thinking...")
	}
	return b.String()
}

// summarizeBatch condenses per-file outcomes into one status line.
func summarizeBatch(res upload.Result) string {
	var problems []string
	for _, f := range res.Files {
		if f.Err != nil {
			problems = append(problems, f.Err.Error())
		}
	}
	if len(problems) == 0 {
		return fmt.Sprintf("Uploaded %d file(s).", res.Attempted)
	}
	return fmt.Sprintf("Upload finished with issues: %s", strings.Join(problems, "; "))
}

func connStyle(state domain.ConnectionState) lipgloss.Style {
	switch state {
	case domain.StateHealthy:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case domain.StateDegraded:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	sourceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
