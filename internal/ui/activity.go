package ui

import (
	"image/color"
	"sort"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/social-client/internal/fetch"
	"github.com/ytget/social-client/internal/model"
)

// statusColor maps a fetch status to the color of its status label
func statusColor(status model.FetchStatus) color.Color {
	variant := fyne.CurrentApp().Settings().ThemeVariant()
	th := fyne.CurrentApp().Settings().Theme()
	switch status {
	case model.FetchStatusCompleted:
		return th.Color(theme.ColorNameSuccess, variant)
	case model.FetchStatusFailed:
		return th.Color(theme.ColorNameError, variant)
	case model.FetchStatusNotFound:
		return th.Color(theme.ColorNameWarning, variant)
	case model.FetchStatusLoading:
		return th.Color(theme.ColorNamePrimary, variant)
	default:
		return th.Color(theme.ColorNameDisabled, variant)
	}
}

// activityDetail is the secondary text of a row: elapsed time and last error
func activityDetail(task *model.FetchTask, now time.Time) string {
	detail := task.GetElapsedString(now)
	if task.LastError != "" {
		detail += MiddleDotSeparator + task.LastError
	}
	return detail
}

// ActivityRow shows one fetch task
type ActivityRow struct {
	widget.BaseWidget

	task *model.FetchTask

	nameLabel   *widget.Label
	statusText  *canvas.Text
	detailLabel *widget.Label
	cancelBtn   *widget.Button

	onCancel func(taskID string)
}

// NewActivityRow creates a row; task may be a placeholder
func NewActivityRow(task *model.FetchTask) *ActivityRow {
	if task == nil {
		task = &model.FetchTask{Status: model.FetchStatusPending}
	}
	r := &ActivityRow{task: task}
	r.ExtendBaseWidget(r)

	r.nameLabel = widget.NewLabel("")
	r.nameLabel.Truncation = fyne.TextTruncateEllipsis
	r.statusText = canvas.NewText("", statusColor(task.Status))
	r.detailLabel = widget.NewLabel("")
	r.cancelBtn = widget.NewButton(IconClose, func() {
		if r.onCancel != nil && r.task != nil {
			r.onCancel(r.task.ID)
		}
	})
	r.cancelBtn.Importance = widget.LowImportance

	r.UpdateTask(task)
	return r
}

// SetOnCancel sets the cancel button callback
func (r *ActivityRow) SetOnCancel(fn func(taskID string)) {
	r.onCancel = fn
}

// UpdateTask shows task in the row
func (r *ActivityRow) UpdateTask(task *model.FetchTask) {
	if task == nil {
		return
	}
	r.task = task
	r.nameLabel.SetText(task.GetDisplayName())
	r.statusText.Text = task.Status.String()
	r.statusText.Color = statusColor(task.Status)
	r.statusText.Refresh()
	r.detailLabel.SetText(activityDetail(task, time.Now()))
	if task.Status.IsActive() {
		r.cancelBtn.Show()
	} else {
		r.cancelBtn.Hide()
	}
}

// CreateRenderer lays the row out
func (r *ActivityRow) CreateRenderer() fyne.WidgetRenderer {
	status := container.NewGridWrap(fyne.NewSize(ActivityStatusWidth, ActivityRowHeight), r.statusText)
	right := container.NewHBox(r.detailLabel, r.cancelBtn)
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, status, right, r.nameLabel))
}

// ActivityPanel lists the fetches issued by the views
type ActivityPanel struct {
	svc fetch.Tracker

	mu      sync.Mutex
	tasks   []*model.FetchTask
	last    time.Time
	pending bool

	list *widget.List
}

// NewActivityPanel creates the panel and subscribes to svc updates
func NewActivityPanel(svc fetch.Tracker) *ActivityPanel {
	p := &ActivityPanel{svc: svc}

	p.list = widget.NewList(
		func() int {
			p.mu.Lock()
			defer p.mu.Unlock()
			return len(p.tasks)
		},
		func() fyne.CanvasObject { return NewActivityRow(nil) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			p.mu.Lock()
			if id >= len(p.tasks) {
				p.mu.Unlock()
				return
			}
			task := p.tasks[id]
			p.mu.Unlock()

			row := obj.(*ActivityRow)
			row.SetOnCancel(p.cancel)
			row.UpdateTask(task)
		},
	)

	svc.SetUpdateCallback(func(*model.FetchTask) { p.scheduleRefresh() })
	p.reload()
	return p
}

// Container returns the panel's canvas object
func (p *ActivityPanel) Container() fyne.CanvasObject {
	clearBtn := widget.NewButton("Clear finished", func() {
		p.svc.Prune()
		p.reload()
		p.list.Refresh()
	})
	clearBtn.Importance = widget.LowImportance
	return container.NewBorder(nil, container.NewHBox(clearBtn), nil, nil, p.list)
}

func (p *ActivityPanel) cancel(taskID string) {
	if err := p.svc.CancelTask(taskID); err != nil {
		return
	}
	p.scheduleRefresh()
}

// scheduleRefresh debounces list refreshes; tasks update far more often
// than is worth repainting.
func (p *ActivityPanel) scheduleRefresh() {
	p.mu.Lock()
	if p.pending {
		p.mu.Unlock()
		return
	}
	if time.Since(p.last) < UIUpdateDebounce {
		p.pending = true
		p.mu.Unlock()
		time.AfterFunc(UIUpdateDebounce, p.refreshNow)
		return
	}
	p.mu.Unlock()
	p.refreshNow()
}

func (p *ActivityPanel) refreshNow() {
	p.mu.Lock()
	p.pending = false
	p.last = time.Now()
	p.mu.Unlock()

	p.reload()
	fyne.Do(p.list.Refresh)
}

// reload snapshots the service's tasks, newest first
func (p *ActivityPanel) reload() {
	tasks := p.svc.GetAllTasks()
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].StartedAt.After(tasks[j].StartedAt)
	})

	p.mu.Lock()
	p.tasks = tasks
	p.mu.Unlock()
}

// Tasks returns the tasks currently listed
func (p *ActivityPanel) Tasks() []*model.FetchTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*model.FetchTask(nil), p.tasks...)
}
