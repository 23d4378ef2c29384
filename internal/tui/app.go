// internal/tui/app.go
//
// The interactive customer form. It uses bubbletea, which follows The Elm
// Architecture:
//
// 1. Model: the seven inputs, the focused slot, and the last prediction
// 2. Update: key presses move focus, edit inputs, or submit the form
// 3. View: two columns of inputs, the Predict button, and the result
//
// Predictions run as commands so the model only changes inside Update.

package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/segmenter/internal/form"
	"github.com/kingrea/segmenter/internal/logbook"
	"github.com/kingrea/segmenter/internal/segment"
)

const (
	journalLines  = 5
	nearestShown  = 3
	inputWidth    = 14
	inputMaxChars = 12
)

// Predictor is the part of a session the form needs.
type Predictor interface {
	Predict(record segment.FeatureRecord) (string, segment.Prediction, error)
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithJournal shows the tail of the session journal under the result.
func WithJournal(journal *logbook.Logbook) AppOption {
	return func(a *App) {
		a.journal = journal
	}
}

// WithBounds toggles the documented range checks on submit.
func WithBounds(enabled bool) AppOption {
	return func(a *App) {
		a.bounded = enabled
	}
}

// WithValues pre-fills inputs; unknown keys are ignored.
func WithValues(values form.Values) AppOption {
	return func(a *App) {
		for key, v := range values {
			if idx := a.indexOf(key); idx >= 0 {
				a.inputs[idx].SetValue(v)
			}
		}
	}
}

// predictionMsg carries the outcome of a submitted form back into Update.
type predictionMsg struct {
	requestID  string
	prediction segment.Prediction
	err        error
}

// App is the main bubbletea model.
type App struct {
	predictor Predictor
	journal   *logbook.Logbook
	bounded   bool

	inputs []textinput.Model
	// focus indexes inputs; len(inputs) is the Predict button.
	focus int

	fieldErrs map[string]string
	result    *segment.Prediction
	requestID string
	err       error

	// journal tail, refreshed after each prediction rather than per frame
	journalTail  []string
	journalTotal int

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// NewApp builds the form with every field set to its default.
func NewApp(predictor Predictor, opts ...AppOption) *App {
	a := &App{
		predictor: predictor,
		bounded:   true,
		fieldErrs: map[string]string{},
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	a.inputs = make([]textinput.Model, len(form.Fields))
	for i, f := range form.Fields {
		a.inputs[i] = newInput(f)
	}
	for _, opt := range opts {
		opt(a)
	}
	a.setFocus(0)
	a.refreshJournal()
	return a
}

func newInput(f form.Field) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = f.DefaultText()
	ti.CharLimit = inputMaxChars
	ti.Width = inputWidth
	ti.SetValue(f.DefaultText())
	return ti
}

func (a *App) indexOf(key string) int {
	for i, f := range form.Fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case predictionMsg:
		a.requestID = msg.requestID
		a.refreshJournal()
		if msg.err != nil {
			a.err = msg.err
			a.result = nil
			return a, nil
		}
		p := msg.prediction
		a.result = &p
		a.err = nil
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Next):
			return a, a.setFocus(a.focus + 1)
		case key.Matches(msg, a.keys.Prev):
			return a, a.setFocus(a.focus - 1)
		case key.Matches(msg, a.keys.Reset):
			a.reset()
			return a, nil
		case key.Matches(msg, a.keys.Submit):
			return a, a.submit()
		}
	}

	if a.focus < len(a.inputs) {
		var cmd tea.Cmd
		a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
		return a, cmd
	}
	return a, nil
}

// setFocus moves focus with wraparound and returns the blink command for the
// newly focused input, if any.
func (a *App) setFocus(idx int) tea.Cmd {
	slots := len(a.inputs) + 1
	a.focus = ((idx % slots) + slots) % slots
	var cmd tea.Cmd
	for i := range a.inputs {
		if i == a.focus {
			cmd = a.inputs[i].Focus()
			continue
		}
		a.inputs[i].Blur()
	}
	return cmd
}

func (a *App) reset() {
	for i, f := range form.Fields {
		a.inputs[i].SetValue(f.DefaultText())
	}
	a.fieldErrs = map[string]string{}
	a.result = nil
	a.err = nil
	a.requestID = ""
	a.setFocus(0)
}

// Values returns the raw text of every input keyed by field.
func (a *App) Values() form.Values {
	values := make(form.Values, len(form.Fields))
	for i, f := range form.Fields {
		values[f.Key] = a.inputs[i].Value()
	}
	return values
}

// submit validates every field and, when they all parse, returns a command
// that runs the prediction.
func (a *App) submit() tea.Cmd {
	a.fieldErrs = map[string]string{}
	values := a.Values()
	for _, f := range form.Fields {
		parse := f.Parse
		if !a.bounded {
			parse = f.ParseUnbounded
		}
		if _, err := parse(values[f.Key]); err != nil {
			a.fieldErrs[f.Key] = fieldMessage(f, err)
		}
	}
	if len(a.fieldErrs) > 0 {
		a.result = nil
		a.err = nil
		return nil
	}
	var opts []form.Option
	if !a.bounded {
		opts = append(opts, form.Unbounded())
	}
	record, err := form.Parse(values, opts...)
	if err != nil {
		a.err = err
		return nil
	}
	predictor := a.predictor
	return func() tea.Msg {
		id, p, err := predictor.Predict(record)
		return predictionMsg{requestID: id, prediction: p, err: err}
	}
}

func fieldMessage(f form.Field, err error) string {
	switch {
	case errors.Is(err, form.ErrOutOfRange):
		return fmt.Sprintf("must be between %d and %d", f.Min, f.Max)
	case errors.Is(err, form.ErrEmpty):
		return "required"
	case errors.Is(err, form.ErrNotInteger):
		return "whole numbers only"
	default:
		return "not a number"
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("👥 Customer Segmentation Predictor"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Enter customer details below to predict their segment using K-Means clustering."))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, a.renderColumn(0), "    ", a.renderColumn(1)))
	b.WriteString("\n\n")

	button := buttonStyle.Render("Predict Segment")
	if a.focus == len(a.inputs) {
		button = focusedButtonStyle.Render("Predict Segment")
	}
	b.WriteString(button)
	b.WriteString("\n")

	if out := a.renderResult(); out != "" {
		b.WriteString(out)
		b.WriteString("\n")
	}
	if out := a.renderJournal(); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(a.help.View(a.keys)))
	return b.String()
}

func (a *App) renderColumn(column int) string {
	var parts []string
	for i, f := range form.Fields {
		if f.Column != column {
			continue
		}
		label := labelStyle.Render(f.Label)
		if i == a.focus {
			label = focusedLabelStyle.Render(f.Label)
		}
		lines := []string{label, a.inputs[i].View()}
		if msg, ok := a.fieldErrs[f.Key]; ok {
			lines = append(lines, fieldErrorStyle.Render(msg))
		} else {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d–%d", f.Min, f.Max)))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func (a *App) renderResult() string {
	if a.err != nil {
		return fieldErrorStyle.Render(fmt.Sprintf("Prediction failed: %v", a.err))
	}
	if a.result == nil {
		return ""
	}
	line := resultStyle.Render(fmt.Sprintf("Predicted Segment (Cluster %d): %s", a.result.Cluster, a.result.Label))
	nearest := renderNearest(a.result.Distances)
	if nearest == "" {
		return line
	}
	return line + "\n" + mutedStyle.Render(nearest)
}

// renderNearest lists the closest centroids by distance.
func renderNearest(distances []float64) string {
	if len(distances) == 0 {
		return ""
	}
	order := make([]int, len(distances))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return distances[order[i]] < distances[order[j]]
	})
	if len(order) > nearestShown {
		order = order[:nearestShown]
	}
	parts := make([]string, len(order))
	for i, c := range order {
		parts[i] = fmt.Sprintf("cluster %d: %.3f", c, distances[c])
	}
	return "nearest · " + strings.Join(parts, " · ")
}

func (a *App) refreshJournal() {
	a.journalTail, a.journalTotal = a.journal.Tail(journalLines)
}

func (a *App) renderJournal() string {
	if a.journalTotal == 0 {
		return ""
	}
	header := mutedStyle.Render(fmt.Sprintf("Journal (%d entries)", a.journalTotal))
	return boxStyle.Render(header + "\n" + strings.Join(a.journalTail, "\n"))
}

// Result returns the last successful prediction, if any.
func (a *App) Result() (segment.Prediction, bool) {
	if a.result == nil {
		return segment.Prediction{}, false
	}
	return *a.result, true
}

// Run starts the form full screen and blocks until the user quits.
func Run(predictor Predictor, opts ...AppOption) error {
	program := tea.NewProgram(NewApp(predictor, opts...), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
