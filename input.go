package mascot

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ProcessInput polls Ebitengine input and translates it into the app's
// intent methods. The bindings follow the editor's conventions: left click
// selects or places, right click / Escape cancels, G-S-R start
// translate/scale/rotate on the selection, D duplicates, X or Delete
// deletes, Ctrl+Z / Ctrl+Y undo and redo.
//
// Call once per Update, before Tick. Hosts with their own toolkit can skip
// this entirely and call the intent methods themselves (e.g. when a widget
// layer wants the event first).
func (a *App) ProcessInput() {
	mx, my := ebiten.CursorPosition()
	cursor := Vec2{X: float64(mx), Y: float64(my)}
	a.setCursor(cursor)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		a.SelectAt(cursor)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		a.Cancel()
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)

	if a.selected != nil && !ctrl && !shift && !alt {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyG):
			a.StartTranslate(cursor)
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			a.StartScale(cursor)
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			a.StartRotate(cursor)
		case inpututil.IsKeyJustPressed(ebiten.KeyX),
			inpututil.IsKeyJustPressed(ebiten.KeyDelete):
			a.DeleteSelected()
		case inpututil.IsKeyJustPressed(ebiten.KeyD):
			_ = a.DuplicateSelected(cursor)
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
			a.Cancel()
		}
	}

	if ctrl && !shift && !alt {
		if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
			a.Undo.Undo()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyY) {
			a.Undo.Redo()
		}
	}
}
