package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// formField is a labelled single or multi-line input. name matches the JSON name used by
// [models.ValidationError].
type formField struct {
	name      string
	label     string
	multiline bool
	input     textinput.Model
	area      textarea.Model
}

func newTextField(name, label, placeholder string) *formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 48
	return &formField{name: name, label: label, input: ti}
}

func newPasswordField(name, label string) *formField {
	f := newTextField(name, label, "")
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func newAreaField(name, label, placeholder string) *formField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetWidth(50)
	ta.SetHeight(4)
	return &formField{name: name, label: label, multiline: true, area: ta}
}

func (f *formField) value() string {
	if f.multiline {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *formField) setValue(s string) {
	if f.multiline {
		f.area.SetValue(s)
		return
	}
	f.input.SetValue(s)
}

func (f *formField) reset() {
	if f.multiline {
		f.area.Reset()
		return
	}
	f.input.Reset()
}

func (f *formField) focus() tea.Cmd {
	if f.multiline {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *formField) blur() {
	if f.multiline {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

func (f *formField) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.multiline {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return cmd
}

func (f *formField) view() string {
	if f.multiline {
		return f.area.View()
	}
	return f.input.View()
}

// form groups fields with focus, per-field errors and a submission flag.
//
// While submitting is set the form refuses another submit; the flag is cleared by [form.finish].
type form struct {
	title      string
	fields     []*formField
	focused    int
	errs       *models.ValidationError
	message    string
	submitting bool
}

func newForm(title string, fields ...*formField) *form {
	f := &form{title: title, fields: fields}
	if len(fields) > 0 {
		f.fields[0].focus()
	}
	return f
}

func (f *form) field(name string) *formField {
	for _, fld := range f.fields {
		if fld.name == name {
			return fld
		}
	}
	return nil
}

// value returns the named field's text, or "" for unknown names.
func (f *form) value(name string) string {
	if fld := f.field(name); fld != nil {
		return fld.value()
	}
	return ""
}

func (f *form) set(name, value string) {
	if fld := f.field(name); fld != nil {
		fld.setValue(value)
	}
}

func (f *form) focusAt(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focused].blur()
	f.focused = (i + len(f.fields)) % len(f.fields)
	return f.fields[f.focused].focus()
}

func (f *form) next() tea.Cmd { return f.focusAt(f.focused + 1) }
func (f *form) prev() tea.Cmd { return f.focusAt(f.focused - 1) }

func (f *form) onLastField() bool { return f.focused == len(f.fields)-1 }

func (f *form) focusedMultiline() bool {
	return len(f.fields) > 0 && f.fields[f.focused].multiline
}

// update forwards msg to the focused field.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	return f.fields[f.focused].update(msg)
}

// begin marks the form as submitting. It reports false when a submission is already running.
func (f *form) begin() bool {
	if f.submitting {
		return false
	}
	f.submitting = true
	f.errs = nil
	f.message = ""
	return true
}

// invalid records local validation failures without sending anything.
func (f *form) invalid(err error) {
	f.errs = nil
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		f.errs = verr
		f.message = ""
		return
	}
	f.message = shared.UserMessage(err)
}

// finish ends a submission. On success every field is cleared; on failure the fields are
// kept so the user can retry, and the error is reduced to its display text.
func (f *form) finish(err error) {
	f.submitting = false
	if err == nil {
		f.clear()
		return
	}
	f.invalid(err)
}

func (f *form) clear() {
	for _, fld := range f.fields {
		fld.reset()
	}
	f.errs = nil
	f.message = ""
	f.focusAt(0)
}

func (f *form) view(spinner string) string {
	var b strings.Builder
	b.WriteString(styles.title.Render(f.title))
	b.WriteString("\n")

	for i, fld := range f.fields {
		label := fld.label
		if i == f.focused {
			label = styles.label.Render(label)
		}
		b.WriteString(label + "\n")
		b.WriteString(fld.view() + "\n")
		if msg := f.errs.For(fld.name); msg != "" {
			b.WriteString(styles.err.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}

	switch {
	case f.submitting:
		b.WriteString(spinner + " Submitting...\n")
	case f.message != "":
		b.WriteString(styles.err.Render(f.message) + "\n")
	}
	return b.String()
}
