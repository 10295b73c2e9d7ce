package ui

import (
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/social-client/internal/config"
)

// SettingsDialog edits the connection and diagnostics settings. Changes
// take effect on the next start.
type SettingsDialog struct {
	settings *config.Settings
	window   fyne.Window
	dialog   *dialog.ConfirmDialog

	backendEntry *widget.Entry
	timeoutEntry *widget.Entry
	rateEntry    *widget.Entry
	noticeEntry  *widget.Entry
	levelSelect  *widget.Select

	onSaved func()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		window:   window,
		onSaved:  onSaved,
	}
	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.backendEntry = widget.NewEntry()
	sd.backendEntry.SetPlaceHolder(config.DefaultBackendURL)

	sd.timeoutEntry = widget.NewEntry()
	sd.timeoutEntry.SetPlaceHolder("seconds, 0 = none")

	sd.rateEntry = widget.NewEntry()
	sd.rateEntry.SetPlaceHolder("1-100")

	sd.noticeEntry = widget.NewEntry()
	sd.noticeEntry.SetPlaceHolder("seconds, 0 = keep")

	sd.levelSelect = widget.NewSelect(sd.settings.GetLogLevelOptions(), nil)

	form := container.NewVBox(
		widget.NewLabel("Connection"),
		widget.NewSeparator(),
		widget.NewLabel("Backend URL:"),
		sd.backendEntry,
		widget.NewLabel("Request timeout:"),
		sd.timeoutEntry,
		widget.NewLabel("Requests per second:"),
		sd.rateEntry,

		widget.NewSeparator(),
		widget.NewLabel("Interface"),
		widget.NewSeparator(),
		widget.NewLabel("Notice display time:"),
		sd.noticeEntry,
		widget.NewLabel("Log level:"),
		sd.levelSelect,
	)

	sd.dialog = dialog.NewCustomConfirm("Settings", "Save", "Cancel", form, sd.onSave, sd.window)
	sd.dialog.Resize(fyne.NewSize(480, 420))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.backendEntry.SetText(sd.settings.GetBackendURL())
	sd.timeoutEntry.SetText(strconv.Itoa(int(sd.settings.GetRequestTimeout() / time.Second)))
	sd.rateEntry.SetText(strconv.Itoa(sd.settings.GetRequestsPerSecond()))
	sd.noticeEntry.SetText(strconv.Itoa(int(sd.settings.GetNoticeTTL() / time.Second)))
	sd.levelSelect.SetSelected(sd.settings.GetLogLevel())
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()
	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// apply writes every parseable field back to the settings; blank or
// malformed numbers leave the stored value alone.
func (sd *SettingsDialog) apply() {
	if url := strings.TrimSpace(sd.backendEntry.Text); url != "" {
		sd.settings.SetBackendURL(url)
	}
	if secs, ok := parseSeconds(sd.timeoutEntry.Text); ok {
		sd.settings.SetRequestTimeout(secs)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(sd.rateEntry.Text)); err == nil {
		sd.settings.SetRequestsPerSecond(n)
	}
	if secs, ok := parseSeconds(sd.noticeEntry.Text); ok {
		sd.settings.SetNoticeTTL(secs)
	}
	if sd.levelSelect.Selected != "" {
		sd.settings.SetLogLevel(sd.levelSelect.Selected)
	}
}

func parseSeconds(text string) (time.Duration, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}
