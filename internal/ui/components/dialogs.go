package components

import (
	"context"
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/ui/models"
)

// Overlay page names.
const (
	pageHelp    = "help"
	pageConfirm = "confirmation"
	pageMessage = "message"
)

const deleteTimeout = 30 * time.Second

// showMessage displays a message to the user.
func (a *App) showMessage(title, message string, isError bool) {
	a.lastFocus = a.GetFocus()

	onClose := func() {
		a.removePageIfPresent(pageMessage)
		a.restoreFocus()
	}

	var modal *tview.Modal
	if isError {
		modal = CreateErrorDialog(title, message, onClose)
	} else {
		modal = CreateInfoDialog(title, message, onClose)
	}

	a.pages.AddPage(pageMessage, modal, false, true)
	a.SetFocus(modal)
}

// showConfirmationDialog displays a confirmation dialog with Yes/No options.
func (a *App) showConfirmationDialog(message string, onConfirm func()) {
	a.lastFocus = a.GetFocus()

	confirm := CreateConfirmDialog(" Confirm ", message, func() {
		a.removePageIfPresent(pageConfirm)
		a.restoreFocus()
		onConfirm()
	}, func() {
		a.removePageIfPresent(pageConfirm)
		a.restoreFocus()
	})

	a.pages.AddPage(pageConfirm, confirm, false, true)
	a.SetFocus(confirm)
}

func (a *App) removePageIfPresent(name string) {
	if a.pages.HasPage(name) {
		a.pages.RemovePage(name)
	}
}

func (a *App) restoreFocus() {
	if a.lastFocus != nil {
		a.SetFocus(a.lastFocus)
		a.lastFocus = nil
	}
}

// confirmDelete asks before deleting the highlighted row of page.
func (a *App) confirmDelete(page *ListPage) {
	id, description, ok := page.selected()
	if !ok {
		a.showMessage("Delete", "Select a row to delete first.", false)
		return
	}

	if pending, _ := a.state.IsDeletePending(page.Name(), id); pending {
		a.header.ShowWarning(description + " is already being deleted")
		return
	}

	a.showConfirmationDialog(fmt.Sprintf("Delete %s?\nThis cannot be undone.", description), func() {
		a.deleteEntity(page, id, description)
	})
}

// deleteEntity removes the entity on the backend. The page refetches on
// success and its session notifies the UI with the new data.
func (a *App) deleteEntity(page *ListPage, id, description string) {
	if !a.state.SetDeletePending(page.Name(), id, description) {
		return
	}

	uiLogger := models.GetUILogger()
	a.header.ShowLoading("Deleting " + description)

	a.goBackground(func() {
		ctx, cancel := context.WithTimeout(a.ctx, deleteTimeout)
		defer cancel()

		err := page.Session().Delete(ctx, id)
		a.state.ClearDeletePending(page.Name(), id)

		if err != nil {
			uiLogger.Error("Delete of %s %s failed: %v", page.Name(), id, err)
		} else {
			uiLogger.Info("Deleted %s %s", page.Name(), id)
		}

		a.QueueUpdateDraw(func() {
			if err != nil {
				a.header.ShowError(fmt.Sprintf("Failed to delete %s: %v", description, err))
				return
			}

			a.header.ShowSuccess("Deleted " + description)
			a.dashboard.Refresh()
		})
	})
}
