package mini

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/style"
)

const pageSize = 15

type prompter interface {
	input(message string, suggest func(string) []string) (string, error)
	choose(message string, options []string) (int, error)
	confirm(message string) (bool, error)
}

type surveyPrompter struct {
	opts []survey.AskOpt
}

func (p surveyPrompter) input(message string, suggest func(string) []string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: message, Suggest: suggest}, &answer, p.opts...)
	return answer, err
}

func (p surveyPrompter) choose(message string, options []string) (int, error) {
	var index int
	err := survey.AskOne(&survey.Select{Message: message, Options: options, PageSize: pageSize}, &index, p.opts...)
	return index, err
}

func (p surveyPrompter) confirm(message string) (bool, error) {
	var yes bool
	err := survey.AskOne(&survey.Confirm{Message: message, Default: true}, &yes, p.opts...)
	return yes, err
}

func (m *mini) title(s string) {
	fmt.Fprintln(m.out, style.New().Bold(true).Foreground(color.HiBlue).Render(s))
}

func (m *mini) fail(s string) {
	fmt.Fprintf(m.out, "%s %s\n", icon.Get(icon.Fail), style.Fg(color.Red)(s))
}

func (m *mini) info(s string) {
	fmt.Fprintf(m.out, "%s %s\n", icon.Get(icon.Success), s)
}
