package scope

import (
	"fmt"
	"html"
	"strings"

	"github.com/nvoropaev/scope/internal/model"
)

// priorityClasses maps the priority scale to the CSS modifier used on
// task list items.
var priorityClasses = map[int]string{
	model.PriorityLow:    "low",
	model.PriorityMedium: "medium",
	model.PriorityHigh:   "high",
	model.PriorityUrgent: "urgent",
}

// RenderTaskItem renders a single task as the list-item fragment the
// frontend swaps in after inline create and toggle calls. All
// user-provided text is escaped.
func RenderTaskItem(task model.Task, project *model.Project) string {
	var b strings.Builder

	priority := priorityClasses[task.Priority]
	if priority == "" {
		priority = "medium"
	}

	completedClass := ""
	checked := ""
	if task.Completed {
		completedClass = " completed"
		checked = " checked"
	}

	fmt.Fprintf(&b,
		`<div class="task-item priority-%s%s" data-task-id="%s">`,
		priority, completedClass, html.EscapeString(task.ID))
	fmt.Fprintf(&b,
		`<input type="checkbox" class="task-checkbox"%s data-task-id="%s">`,
		checked, html.EscapeString(task.ID))

	b.WriteString(`<div class="task-content">`)
	fmt.Fprintf(&b,
		`<a href="/tasks/%s/" class="task-title">%s</a>`,
		html.EscapeString(task.ID), html.EscapeString(task.Title))

	if task.DueDate != nil {
		fmt.Fprintf(&b,
			`<span class="task-due">%s</span>`,
			task.DueDate.Format("Jan 2"))
	}
	if project != nil {
		fmt.Fprintf(&b,
			`<span class="task-project" style="background-color: %s">%s</span>`,
			html.EscapeString(project.Color), html.EscapeString(project.Name))
	}
	b.WriteString(`</div>`)

	fmt.Fprintf(&b,
		`<div class="task-priority priority-%s">%s</div>`,
		priority, model.PriorityLabel(task.Priority))
	b.WriteString(`</div>`)

	return b.String()
}
