package uiupdates

type app struct{}

func (app) QueueUpdate(f func())     { f() }
func (app) QueueUpdateDraw(f func()) { f() }

func render() {}

func nested(a app) {
	a.QueueUpdateDraw(func() {
		render()
		a.QueueUpdateDraw(render) // want `nested QueueUpdateDraw inside QueueUpdateDraw callback can deadlock tview`
	})

	a.QueueUpdate(func() {
		a.QueueUpdateDraw(render) // want `nested QueueUpdateDraw inside QueueUpdate callback can deadlock tview`
	})

	a.QueueUpdateDraw(func() {
		a.QueueUpdate(render) // want `nested QueueUpdate inside QueueUpdateDraw callback can deadlock tview`
	})
}

func allowed(a app) {
	a.QueueUpdateDraw(render)

	a.QueueUpdateDraw(func() {
		go func() {
			a.QueueUpdateDraw(render)
		}()
	})

	done := make(chan struct{})
	go func() {
		a.QueueUpdateDraw(func() { close(done) })
	}()
}
