// Package mascot is the scene-graph core of a desktop avatar editor for
// [Ebitengine].
//
// Mascot provides the node tree, transform hierarchy, hit testing, edit-mode
// gestures, undo/redo, and versioned binary project persistence that an
// interactive avatar/animation editor needs, plus the built-in node kinds:
// animated sprites, audio-driven mouths, cursor-tracking eyes, bounce
// containers, and a chat overlay with a text-to-speech policy.
//
// # Quick start
//
// Create an [App], register collaborators, and drive it from an
// [ebiten.Game]:
//
//	app := mascot.NewApp(prefs, lib, mascot.Collaborators{})
//	app.NewProject()
//
//	type Game struct{ app *mascot.App }
//
//	func (g *Game) Update() error              { g.app.ProcessInput(); g.app.Tick(1.0 / float64(ebiten.TPS())); return nil }
//	func (g *Game) Draw(screen *ebiten.Image)  { g.app.Render(screen, 1.0/float64(ebiten.TPS()), true) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Scene graph
//
// Every visual element implements [Node] and embeds [NodeBase], which carries the
// transform, z-order, parent/child links, and the edit-mode state machine.
// Children render after (on top of) their parent, and hit testing walks the
// same order in reverse so the front-most node wins.
//
// # Undo
//
// Every user-visible edit funnels through [Undo] as a pair of do/undo
// closures. Closures must capture the values they mutate by copy at record
// time; the manager never diffs state.
//
// # Persistence
//
// Projects persist as a versioned little-endian binary stream via [SaveProject]
// and [LoadProject]. Node kinds are reconstructed through a [Factory] keyed by
// type name, so external node kinds only need a registration call at startup.
//
// [Ebitengine]: https://ebitengine.org
package mascot
