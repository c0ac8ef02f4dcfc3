package terminal

import (
	"context"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/reshetovitsme/autopost/internal/modules/approval/domain"
	approvalService "github.com/reshetovitsme/autopost/internal/modules/approval/service"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	"github.com/samber/oops"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

const hint = "[a]ccept  [r]egenerate  [x] reject  [q] abort all"

// model renders one draft and waits for a single decision key
type model struct {
	draft    *contentDomain.Draft
	width    int
	decision domain.Decision
	decided  bool
}

func newModel(draft *contentDomain.Draft) model {
	return model{draft: draft, width: 80}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if d, ok := keyDecision(msg.String()); ok {
			m.decision = d
			m.decided = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.decided {
		return hintStyle.Render("decision: "+m.decision.String()) + "\n"
	}

	lines := strings.SplitN(approvalService.RenderDraft(m.draft), "\n\n", 2)
	header := headerStyle.Render(lines[0])
	if m.draft.OverLimit {
		header = strings.Replace(header, "⚠️ Over the character limit", warnStyle.Render("⚠️ Over the character limit"), 1)
	}
	body := ""
	if len(lines) > 1 {
		body = lines[1]
	}

	width := max(20, m.width-4)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		boxStyle.Width(width).Render(body),
		hintStyle.Render(hint),
	) + "\n"
}

func keyDecision(key string) (domain.Decision, bool) {
	switch key {
	case "a":
		return domain.DecisionAccept, true
	case "r":
		return domain.DecisionRegenerate, true
	case "x", "n":
		return domain.DecisionReject, true
	case "q", "esc", "ctrl+c":
		return domain.DecisionAbortAll, true
	}
	return "", false
}

// Presenter reviews drafts in the local terminal
type Presenter struct {
	input  io.Reader
	output io.Writer
}

// NewPresenter creates a terminal presenter. Nil streams default to stdin and stdout.
func NewPresenter(input io.Reader, output io.Writer) *Presenter {
	if input == nil {
		input = os.Stdin
	}
	if output == nil {
		output = os.Stdout
	}
	return &Presenter{input: input, output: output}
}

// Present runs an interactive program until the reviewer picks a decision.
// Cancelling ctx stops the program and returns the context error.
func (p *Presenter) Present(ctx context.Context, draft *contentDomain.Draft) (domain.Decision, error) {
	program := tea.NewProgram(newModel(draft),
		tea.WithContext(ctx),
		tea.WithInput(p.input),
		tea.WithOutput(p.output),
	)

	final, err := program.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		return "", oops.With("context", "terminal review failed").Wrap(err)
	}

	m, ok := final.(model)
	if !ok || !m.decided {
		// program ended without a key press
		return domain.DecisionAbortAll, nil
	}
	return m.decision, nil
}
