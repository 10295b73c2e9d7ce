package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/ytget/social-client/internal/views"
)

// DialogConfirmer asks questions with a modal Fyne dialog
type DialogConfirmer struct {
	window fyne.Window
	title  string
}

// NewDialogConfirmer creates a confirmer for window
func NewDialogConfirmer(window fyne.Window, title string) *DialogConfirmer {
	return &DialogConfirmer{window: window, title: title}
}

// Confirm shows question and blocks until it is answered or ctx ends. It must
// not be called on the Fyne main goroutine.
func (c *DialogConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	answer := make(chan bool, 1)
	var d *dialog.ConfirmDialog

	fyne.Do(func() {
		d = dialog.NewConfirm(c.title, question, func(ok bool) { answer <- ok }, c.window)
		d.Show()
	})

	select {
	case ok := <-answer:
		return ok, nil
	case <-ctx.Done():
		fyne.Do(func() {
			if d != nil {
				d.Hide()
			}
		})
		return false, ctx.Err()
	}
}

var _ views.Confirmer = (*DialogConfirmer)(nil)
