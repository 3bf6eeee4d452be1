package components

import (
	"github.com/rivo/tview"
)

type HeaderComponent interface {
	tview.Primitive
	SetApp(*tview.Application)
	ShowLoading(string)
	StopLoading()
	IsLoading() bool
	ShowSuccess(string)
	ShowWarning(string)
	ShowError(string)
}

type FooterComponent interface {
	tview.Primitive
	UpdateKeybindings(string)
	UpdateLiveStatus(int)
}
