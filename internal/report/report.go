// Package report renders the daily report from the board using a small
// mustache like template language.
//
// Supported tags:
//
//	{{date}}                         the report date (YYYY-MM-DD).
//	{{#backlog}}...{{/backlog}}      repeated once per task of the column.
//	{{^backlog}}...{{/backlog}}      kept only when the column is empty.
//	{{title}}                        task title, inside a column section.
//	{{#description}}...{{/description}}
//	                                 kept only when the task has a description.
//	{{description}}                  task description, inside a column section.
//
// The same applies to the doing and done columns.
package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/sanitize"
)

// ErrorReport is returned instead of a report when rendering fails.
const ErrorReport = "Could not generate the report. Please check the template."

var (
	sectionRes  = map[model.TaskStatus]*regexp.Regexp{}
	invertedRes = map[model.TaskStatus]*regexp.Regexp{}

	descriptionRe = regexp.MustCompile(`(?s)\{\{#description\}\}(.*?)\{\{/description\}\}`)
	placeholderRe = regexp.MustCompile("\x00([0-9]+)\x00")
)

func init() {
	for _, s := range model.TaskStatuses {
		name := regexp.QuoteMeta(string(s))
		sectionRes[s] = regexp.MustCompile(`(?s)\{\{#` + name + `\}\}(.*?)\{\{/` + name + `\}\}`)
		invertedRes[s] = regexp.MustCompile(`(?s)\{\{\^` + name + `\}\}(.*?)\{\{/` + name + `\}\}`)
	}
}

// Generate renders the template with the tasks of every column in column order.
// It never fails, on error it returns ErrorReport.
func Generate(tasks map[string]model.Task, order model.ColumnOrder, template string, now time.Time) (report string) {
	defer func() {
		if r := recover(); r != nil {
			report = ErrorReport
		}
	}()

	columns := make(map[model.TaskStatus][]model.TaskSnapshot, len(model.TaskStatuses))
	for _, s := range model.TaskStatuses {
		snaps := []model.TaskSnapshot{}
		for _, id := range order.Column(s) {
			t, ok := tasks[id]
			if !ok {
				continue
			}
			snaps = append(snaps, model.TaskSnapshot{
				Title:       sanitize.StripTags(t.Title),
				Description: sanitize.StripTags(t.Description),
			})
		}
		columns[s] = snaps
	}

	r := &renderer{}
	// NUL delimits placeholders, it can't come from the template.
	out := strings.ReplaceAll(template, "\x00", "")
	out = strings.ReplaceAll(out, "{{date}}", now.Format(model.DateLayout))
	for _, s := range model.TaskStatuses {
		out = r.section(out, s, columns[s])
	}

	return r.expand(out)
}

// renderer keeps task values out of the template until the end so user text is
// never interpreted as tags.
type renderer struct {
	values []string
}

func (r *renderer) placeholder(v string) string {
	r.values = append(r.values, strings.ReplaceAll(v, "\x00", ""))
	return "\x00" + strconv.Itoa(len(r.values)-1) + "\x00"
}

func (r *renderer) expand(s string) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		i, err := strconv.Atoi(strings.Trim(m, "\x00"))
		if err != nil || i >= len(r.values) {
			panic(fmt.Sprintf("unknown placeholder %q", m))
		}
		return r.values[i]
	})
}

func (r *renderer) section(tmpl string, s model.TaskStatus, snaps []model.TaskSnapshot) string {
	tmpl = sectionRes[s].ReplaceAllStringFunc(tmpl, func(m string) string {
		if len(snaps) == 0 {
			return ""
		}
		content := sectionRes[s].FindStringSubmatch(m)[1]

		items := make([]string, 0, len(snaps))
		for _, snap := range snaps {
			items = append(items, r.item(content, snap))
		}
		return strings.Join(items, "\n")
	})

	return invertedRes[s].ReplaceAllStringFunc(tmpl, func(m string) string {
		if len(snaps) != 0 {
			return ""
		}
		return invertedRes[s].FindStringSubmatch(m)[1]
	})
}

func (r *renderer) item(content string, snap model.TaskSnapshot) string {
	content = descriptionRe.ReplaceAllStringFunc(content, func(m string) string {
		if snap.Description == "" {
			return ""
		}
		return descriptionRe.FindStringSubmatch(m)[1]
	})
	content = strings.ReplaceAll(content, "{{description}}", r.placeholder(snap.Description))
	content = strings.ReplaceAll(content, "{{title}}", r.placeholder(snap.Title))

	return content
}
