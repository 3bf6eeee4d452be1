package components

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/ui/theme"
)

// CreateConfirmDialog creates a confirmation dialog.
func CreateConfirmDialog(title, message string, onConfirm, onCancel func()) *tview.Modal {
	modal := tview.NewModal()
	modal.SetText(message)
	modal.SetTextColor(theme.Colors.Primary)
	modal.SetBorderColor(theme.Colors.Border)
	modal.SetTitle(title)
	modal.SetTitleColor(theme.Colors.Title)

	modal.AddButtons([]string{"Yes", "No"})
	modal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		if buttonIndex == 0 && onConfirm != nil {
			onConfirm()
		} else if onCancel != nil {
			onCancel()
		}
	})

	// Y/N shortcuts
	modal.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'y', 'Y':
			if onConfirm != nil {
				onConfirm()
			}
			return nil
		case 'n', 'N':
			if onCancel != nil {
				onCancel()
			}
			return nil
		}
		return event
	})

	return modal
}

// createBaseModal creates a base modal with common configuration.
func createBaseModal(title, message string, textColor tcell.Color, onClose func()) *tview.Modal {
	modal := tview.NewModal()
	modal.SetText(message)
	modal.SetTextColor(textColor)
	modal.SetBorderColor(theme.Colors.Border)
	modal.SetTitle(title)
	modal.SetTitleColor(theme.Colors.Title)

	modal.AddButtons([]string{"OK"})
	modal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		if onClose != nil {
			onClose()
		}
	})

	modal.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			if onClose != nil {
				onClose()
			}
			return nil
		}
		return event
	})

	return modal
}

// CreateInfoDialog creates an information dialog.
func CreateInfoDialog(title, message string, onClose func()) *tview.Modal {
	return createBaseModal(title, message, theme.Colors.Primary, onClose)
}

// CreateErrorDialog creates an error dialog.
func CreateErrorDialog(title, message string, onClose func()) *tview.Modal {
	return createBaseModal(title, message, theme.Colors.Error, onClose)
}
