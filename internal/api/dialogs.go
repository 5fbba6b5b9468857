package api

import (
	"errors"
	"log/slog"

	"github.com/ncruces/zenity"
)

// FileDialogResult is the outcome of a native file dialog.
type FileDialogResult struct {
	Canceled bool
	Path     string
}

// Dialogs is the native dialog surface of the host process. Tests substitute
// a stub; the real implementation shells out to the OS via zenity.
type Dialogs interface {
	OpenFile(title string, patterns []string) (FileDialogResult, error)
	SaveFile(title, defaultPath string, patterns []string) (FileDialogResult, error)
	Error(msg string)
}

// ZenityDialogs implements Dialogs with native OS dialogs.
type ZenityDialogs struct{}

func (ZenityDialogs) OpenFile(title string, patterns []string) (FileDialogResult, error) {
	path, err := zenity.SelectFile(
		zenity.Title(title),
		zenity.FileFilter{Name: title, Patterns: patterns, CaseFold: true},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return FileDialogResult{Canceled: true}, nil
	}
	if err != nil {
		return FileDialogResult{}, err
	}
	return FileDialogResult{Path: path}, nil
}

func (ZenityDialogs) SaveFile(title, defaultPath string, patterns []string) (FileDialogResult, error) {
	opts := []zenity.Option{
		zenity.Title(title),
		zenity.ConfirmOverwrite(),
		zenity.FileFilter{Name: title, Patterns: patterns, CaseFold: true},
	}
	if defaultPath != "" {
		opts = append(opts, zenity.Filename(defaultPath))
	}
	path, err := zenity.SelectFileSave(opts...)
	if errors.Is(err, zenity.ErrCanceled) {
		return FileDialogResult{Canceled: true}, nil
	}
	if err != nil {
		return FileDialogResult{}, err
	}
	return FileDialogResult{Path: path}, nil
}

// Error shows a native error dialog. Failures to show the dialog itself are
// only logged; the caller has already got the underlying error.
func (ZenityDialogs) Error(msg string) {
	if err := zenity.Error(msg, zenity.Title("mapdesk"), zenity.ErrorIcon); err != nil {
		slog.Error("Failed to show error dialog", "error", err, "message", msg)
	}
}
