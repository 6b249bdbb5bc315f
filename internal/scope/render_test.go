package scope_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nvoropaev/scope/internal/model"
	"github.com/nvoropaev/scope/internal/scope"
)

func TestRenderTaskItem(t *testing.T) {
	due := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	task := model.Task{
		ID:       "t1",
		Title:    "Review <script>alert(1)</script>",
		Priority: model.PriorityHigh,
		DueDate:  &due,
	}
	project := &model.Project{Name: "Work & Life", Color: "#ABCDEF"}

	html := scope.RenderTaskItem(task, project)

	require.Contains(t, html, `data-task-id="t1"`)
	require.Contains(t, html, "priority-high")
	require.Contains(t, html, "Mar 14")
	require.Contains(t, html, "Work &amp; Life")
	require.Contains(t, html, "&lt;script&gt;")
	require.NotContains(t, html, "<script>")
	require.NotContains(t, html, " completed")

	task.Completed = true
	html = scope.RenderTaskItem(task, nil)
	require.Contains(t, html, "completed")
	require.True(t, strings.Contains(html, " checked"))
	require.NotContains(t, html, "task-project")
}
