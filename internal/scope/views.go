package scope

import (
	"context"
	"time"

	"github.com/nvoropaev/scope/internal/model"
	"github.com/nvoropaev/scope/internal/store"
)

// recentCompletedLimit bounds the completed list on the dashboard.
const recentCompletedLimit = 10

// DashboardFilters narrows the dashboard task listing.
type DashboardFilters struct {
	ProjectID *string // project UUID, or store.ProjectUnfiled
	TagID     *string
	Priority  *int
	Query     *string
	Due       *string // store.DueToday, store.DueUpcoming, store.DueOverdue
	UserID    *string
}

// Dashboard is the main listing: every open task matching the filters,
// plus the most recently finished ones.
type Dashboard struct {
	Tasks     []model.Task `json:"tasks"`
	Completed []model.Task `json:"completed"`
}

// Dashboard builds the main task listing. Open tasks follow the default
// ordering (priority and manual order); the completed section is capped
// at the most recent few.
func (s *Service) Dashboard(ctx context.Context, f DashboardFilters) (*Dashboard, error) {
	open := false
	tasks, err := s.store.GetTasks(ctx, store.TaskFilter{
		Completed: &open,
		ProjectID: f.ProjectID,
		TagID:     f.TagID,
		Priority:  f.Priority,
		Query:     f.Query,
		Due:       f.Due,
		UserID:    f.UserID,
	})
	if err != nil {
		return nil, err
	}

	done := true
	completed, err := s.store.GetTasks(ctx, store.TaskFilter{
		Completed: &done,
		ProjectID: f.ProjectID,
		TagID:     f.TagID,
		Priority:  f.Priority,
		Query:     f.Query,
		UserID:    f.UserID,
		SortBy:    "updated_at",
		SortDesc:  true,
		Limit:     recentCompletedLimit,
	})
	if err != nil {
		return nil, err
	}

	return &Dashboard{Tasks: tasks, Completed: completed}, nil
}

// TodayView splits the day's workload into what is due today and what
// has slipped past its date.
type TodayView struct {
	Due     []model.Task `json:"due"`
	Overdue []model.Task `json:"overdue"`
}

// Today returns open tasks due today alongside open tasks that are
// already overdue.
func (s *Service) Today(ctx context.Context) (*TodayView, error) {
	open := false

	today := store.DueToday
	due, err := s.store.GetTasks(ctx, store.TaskFilter{Completed: &open, Due: &today})
	if err != nil {
		return nil, err
	}

	overdue := store.DueOverdue
	late, err := s.store.GetTasks(ctx, store.TaskFilter{Completed: &open, Due: &overdue})
	if err != nil {
		return nil, err
	}

	return &TodayView{Due: due, Overdue: late}, nil
}

// Sidebar carries the navigation data shown on every page: active
// projects, all tags, and the badge counts.
type Sidebar struct {
	Projects   []model.Project `json:"projects"`
	Tags       []model.Tag     `json:"tags"`
	TodayCount int             `json:"today_count"`
	AllCount   int             `json:"all_count"`
}

// Sidebar loads the navigation state. Archived projects are excluded;
// counts cover open tasks only.
func (s *Service) Sidebar(ctx context.Context) (*Sidebar, error) {
	projects, err := s.store.GetProjects(ctx, false)
	if err != nil {
		return nil, err
	}
	tags, err := s.store.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	open := false
	today := store.DueToday
	todayCount, err := s.store.CountTasks(ctx, store.TaskFilter{Completed: &open, Due: &today})
	if err != nil {
		return nil, err
	}
	allCount, err := s.store.CountTasks(ctx, store.TaskFilter{Completed: &open})
	if err != nil {
		return nil, err
	}

	return &Sidebar{
		Projects:   projects,
		Tags:       tags,
		TodayCount: todayCount,
		AllCount:   allCount,
	}, nil
}

// ProjectView is a project's detail page: the project itself, its live
// task counts, and the task lists split by completion.
type ProjectView struct {
	Project        model.Project       `json:"project"`
	Counts         model.ProjectCounts `json:"counts"`
	Tasks          []model.Task        `json:"tasks"`
	CompletedTasks []model.Task        `json:"completed_tasks"`
}

// ProjectDetail loads a project with its open and completed tasks.
// Counts are computed live from the task table.
func (s *Service) ProjectDetail(ctx context.Context, id string) (*ProjectView, error) {
	project, err := s.store.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.ProjectTaskCounts(ctx, id)
	if err != nil {
		return nil, err
	}

	open := false
	tasks, err := s.store.GetTasks(ctx, store.TaskFilter{Completed: &open, ProjectID: &id})
	if err != nil {
		return nil, err
	}

	done := true
	completed, err := s.store.GetTasks(ctx, store.TaskFilter{
		Completed: &done,
		ProjectID: &id,
		SortBy:    "updated_at",
		SortDesc:  true,
	})
	if err != nil {
		return nil, err
	}

	return &ProjectView{
		Project:        *project,
		Counts:         *counts,
		Tasks:          tasks,
		CompletedTasks: completed,
	}, nil
}

// ListProjects returns projects for management views, optionally
// including archived ones.
func (s *Service) ListProjects(ctx context.Context, includeArchived bool) ([]model.Project, error) {
	return s.store.GetProjects(ctx, includeArchived)
}

// priorityColors maps the priority scale to calendar event colors.
var priorityColors = map[int]string{
	model.PriorityLow:    "#22C55E",
	model.PriorityMedium: "#3B82F6",
	model.PriorityHigh:   "#F59E0B",
	model.PriorityUrgent: "#EF4444",
}

const (
	calendarCompletedColor = "#22C55E"
	calendarOverdueColor   = "#EF4444"

	calendarDescriptionLimit = 100
)

// CalendarEvent is one task rendered as a calendar entry.
type CalendarEvent struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Start        string `json:"start"` // due date, YYYY-MM-DD
	Time         string `json:"time,omitempty"`
	Color        string `json:"color"`
	Priority     int    `json:"priority"`
	Completed    bool   `json:"completed"`
	URL          string `json:"url"`
	Project      string `json:"project,omitempty"`
	ProjectColor string `json:"projectColor,omitempty"`
}

// CalendarEvents returns every dated task in the given range as an
// event. Color encodes state: completed green, overdue red, otherwise
// by priority. Descriptions are truncated for the popover.
func (s *Service) CalendarEvents(ctx context.Context, start, end *time.Time) ([]CalendarEvent, error) {
	hasDue := true
	tasks, err := s.store.GetTasks(ctx, store.TaskFilter{
		HasDue:  &hasDue,
		DueFrom: start,
		DueTo:   end,
		SortBy:  "due_date",
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	events := make([]CalendarEvent, 0, len(tasks))
	for _, task := range tasks {
		color := priorityColors[task.Priority]
		switch {
		case task.Completed:
			color = calendarCompletedColor
		case task.IsOverdue(now):
			color = calendarOverdueColor
		}

		event := CalendarEvent{
			ID:          task.ID,
			Title:       task.Title,
			Description: truncate(task.Description, calendarDescriptionLimit),
			Start:       task.DueDate.Format("2006-01-02"),
			Color:       color,
			Priority:    task.Priority,
			Completed:   task.Completed,
			URL:         "/tasks/" + task.ID + "/",
		}
		if task.DueTime != nil {
			event.Time = *task.DueTime
		}
		if task.ProjectID != nil {
			if project, err := s.store.GetProjectByID(ctx, *task.ProjectID); err == nil {
				event.Project = project.Name
				event.ProjectColor = project.Color
			}
		}
		events = append(events, event)
	}
	return events, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// ExportedTask is the flat task projection used by the JSON export.
type ExportedTask struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	IsCompleted bool    `json:"is_completed"`
	Priority    int     `json:"priority"`
	DueDate     *string `json:"due_date"`
	Project     *string `json:"project"`
}

// ExportTasks returns matching tasks as flat records suitable for JSON
// export or backup. A zero filter exports everything.
func (s *Service) ExportTasks(ctx context.Context, f DashboardFilters) ([]ExportedTask, error) {
	tasks, err := s.store.GetTasks(ctx, store.TaskFilter{
		ProjectID: f.ProjectID,
		TagID:     f.TagID,
		Priority:  f.Priority,
		Query:     f.Query,
		Due:       f.Due,
		UserID:    f.UserID,
	})
	if err != nil {
		return nil, err
	}

	projectNames := map[string]string{}
	projects, err := s.store.GetProjects(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}

	out := make([]ExportedTask, 0, len(tasks))
	for _, task := range tasks {
		rec := ExportedTask{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			IsCompleted: task.Completed,
			Priority:    task.Priority,
		}
		if task.DueDate != nil {
			d := task.DueDate.Format("2006-01-02")
			rec.DueDate = &d
		}
		if task.ProjectID != nil {
			if name, ok := projectNames[*task.ProjectID]; ok {
				rec.Project = &name
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
