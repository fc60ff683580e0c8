package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"platter/internal/preflight"
)

type checkLevel int

const (
	levelNote checkLevel = iota
	levelOK
	levelWarn
	levelFail
)

var levelMarks = map[checkLevel]string{
	levelNote: "-",
	levelOK:   "ok",
	levelWarn: "warn",
	levelFail: "FAIL",
}

var levelColors = map[checkLevel]text.Colors{
	levelOK:   {text.FgGreen},
	levelWarn: {text.FgYellow},
	levelFail: {text.FgRed, text.Bold},
}

type reportLine struct {
	label  string
	level  checkLevel
	detail string
}

type reportSection struct {
	title string
	lines []reportLine
}

func (s *reportSection) add(label string, level checkLevel, detail string) {
	s.lines = append(s.lines, reportLine{label: label, level: level, detail: detail})
}

// addResults appends the preflight results that belong to group.
func (s *reportSection) addResults(results []preflight.Result, group preflight.Group) {
	for _, r := range results {
		if r.Group != group {
			continue
		}
		level := levelOK
		if !r.Passed {
			level = levelFail
		}
		s.add(r.Name, level, r.Detail)
	}
}

// statusReport is the sectioned output of the status command. Labels are
// padded to the longest label across all sections.
type statusReport struct {
	sections []*reportSection
}

func (r *statusReport) section(title string) *reportSection {
	s := &reportSection{title: title}
	r.sections = append(r.sections, s)
	return s
}

func (r *statusReport) render(colorize bool) string {
	width := 0
	for _, s := range r.sections {
		for _, l := range s.lines {
			width = max(width, len(l.label))
		}
	}

	var b strings.Builder
	for i, s := range r.sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		title := s.title
		if colorize {
			title = text.Colors{text.Bold, text.Underline}.Sprint(title)
		}
		b.WriteString(title)
		b.WriteByte('\n')
		for _, l := range s.lines {
			mark := fmt.Sprintf("%-4s", levelMarks[l.level])
			if colors, ok := levelColors[l.level]; ok && colorize {
				mark = colors.Sprint(mark)
			}
			line := fmt.Sprintf("  %-*s  %s  %s", width, l.label, mark, l.detail)
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
