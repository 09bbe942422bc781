package mascot

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// ChatTypeName is the factory name for chat overlays.
const ChatTypeName = "Chat"

// chatHideAfter is how long the overlay stays up after the last message.
const chatHideAfter = 30.0

// chatMaxMsgs bounds the in-memory message log.
const chatMaxMsgs = 200

// Chat is a chat overlay: a sized box that shows recent messages newest
// first, wrapped to its width, and hides itself when the channel goes quiet.
// With TTS enabled each message is also spoken, formatted by the Format
// policy and voiced by the Pick policy.
type Chat struct {
	NodeBase

	source  ChatSource
	speaker Speaker
	lib     *Lib

	Width  float64
	Height float64
	PtSize int
	TTS    bool
	// VoiceMap pins specific chatters to specific voices.
	VoiceMap map[string]string

	// Format and Pick are the speech presentation policy; both default to
	// the package policy and are replaceable by the host.
	Format SpeechFormatter
	Pick   VoicePicker

	msgs     []ChatMsg
	voices   []string
	lastName string
	show     bool
	hideIn   float64
}

// NewChat creates a chat overlay fed by the given source and spoken through
// the given speaker. The instance name is the channel name.
func NewChat(source ChatSource, speaker Speaker, lib *Lib, undo *Undo, name string) *Chat {
	c := &Chat{
		source:   source,
		speaker:  speaker,
		lib:      lib,
		Width:    400,
		Height:   300,
		PtSize:   20,
		VoiceMap: make(map[string]string),
		Format:   FormatSpeech,
		Pick:     PickVoice,
	}
	c.NodeBase.init(c, undo, name)
	source.Reg(c)
	return c
}

// TypeName returns the stable factory name.
func (c *Chat) TypeName() string { return ChatTypeName }

// W returns the overlay width.
func (c *Chat) W() float64 { return c.Width }

// H returns the overlay height.
func (c *Chat) H() float64 { return c.Height }

// OnMsg appends a message, wakes the overlay, and speaks the message when
// TTS is on. Invoked by the source between frames on the app thread.
func (c *Chat) OnMsg(msg ChatMsg) {
	c.show = true
	c.hideIn = chatHideAfter
	if c.TTS && c.speaker != nil {
		line := c.Format(c.lastName, msg)
		c.speaker.Say(c.Pick(msg.DisplayName, c.voices, c.VoiceMap), line)
		c.lastName = msg.DisplayName
	}
	c.msgs = append(c.msgs, msg)
	if len(c.msgs) > chatMaxMsgs {
		c.msgs = c.msgs[len(c.msgs)-chatMaxMsgs:]
	}
}

// Msgs returns the message log, oldest first.
func (c *Chat) Msgs() []ChatMsg { return c.msgs }

// Render draws the visible messages newest first from the bottom of the box.
func (c *Chat) Render(ctx *RenderContext, dt float64, hovered, selected Node) {
	if !c.Visible {
		return
	}
	if c.hideIn > 0 {
		c.hideIn -= dt
		if c.hideIn <= 0 {
			c.show = false
		}
	}
	if c.show {
		c.drawMsgs(ctx)
	}
	c.NodeBase.Render(ctx, dt, hovered, selected)
}

func (c *Chat) drawMsgs(ctx *RenderContext) {
	face, _ := c.lib.QueryFont(c.PtSize)
	measure := c.measurer(face)
	lineH := float64(c.PtSize)
	if face == nil {
		lineH = 16 // debug face line height
	}
	world := c.worldFrom(ctx)

	y := 0.0
	for i := len(c.msgs) - 1; i >= 0 && y <= c.Height; i-- {
		msg := c.msgs[i]
		nameW := measure(msg.DisplayName)
		lines := wrapText(": "+msg.Text, c.Width, nameW, measure)
		for j := len(lines) - 1; j >= 0 && y <= c.Height; j-- {
			first := j == 0
			x := 0.0
			if first {
				c.drawLine(ctx, world, 0, y, msg.DisplayName, msg.Color, face)
				x = nameW
			}
			c.drawLine(ctx, world, x, y, lines[j], ColorWhite, face)
			y += lineH
		}
	}
}

// drawLine draws one text line at the local-space offset under the overlay's
// transform, falling back to the debug face when no font is configured.
func (c *Chat) drawLine(ctx *RenderContext, world [6]float64, x, y float64, s string, clr Color, face *text.GoTextFace) {
	if face == nil {
		wx, wy := transformPoint(world, x, y)
		ebitenutil.DebugPrintAt(ctx.Target, s, int(wx), int(wy))
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(toGeoM(world))
	op.ColorScale.ScaleWithColor(color.RGBA{
		R: uint8(clr.R * 255),
		G: uint8(clr.G * 255),
		B: uint8(clr.B * 255),
		A: uint8(clr.A * 255),
	})
	text.Draw(ctx.Target, s, face, op)
}

// measurer returns a text-width function for the active face.
func (c *Chat) measurer(face *text.GoTextFace) func(string) float64 {
	if face == nil {
		return func(s string) float64 { return float64(6 * len(s)) }
	}
	return func(s string) float64 {
		w, _ := text.Measure(s, face, 0)
		return w
	}
}

// wrapText greedily wraps words to width. initOffset indents the first line
// (the speaker name precedes it); words longer than the width get a line of
// their own.
func wrapText(s string, width, initOffset float64, measure func(string) float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		tentative := line + " " + word
		if measure(tentative) > width-initOffset {
			initOffset = 0
			lines = append(lines, line)
			line = word
			continue
		}
		line = tentative
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Save writes the overlay payload.
func (c *Chat) Save(e *Encoder) {
	e.F64(c.Width)
	e.F64(c.Height)
	e.I32(int32(c.PtSize))
	e.Bool(c.TTS)
	e.StringMap(c.VoiceMap)
}

// Load reads the payload written by Save and refreshes the voice list when
// TTS comes back enabled.
func (c *Chat) Load(d *Decoder) {
	c.Width = d.F64()
	c.Height = d.F64()
	c.PtSize = int(d.I32())
	c.TTS = d.Bool()
	c.VoiceMap = d.StringMap()
	if c.VoiceMap == nil {
		c.VoiceMap = make(map[string]string)
	}
	if c.TTS {
		c.fetchVoices()
	}
}

func (c *Chat) fetchVoices() {
	if c.speaker == nil {
		return
	}
	c.speaker.ListVoices(func(voices []string) { c.voices = voices })
}

// RenderUI adds the overlay rows.
func (c *Chat) RenderUI(ui UI) {
	c.NodeBase.RenderUI(ui)
	ui.DragFloat("Width", &c.Width)
	ui.DragFloat("Height", &c.Height)
	ui.InputInt("Font Size", &c.PtSize)
	wasTTS := c.TTS
	ui.Checkbox("Azure TTS", &c.TTS)
	if c.TTS && !wasTTS {
		c.fetchVoices()
	}
	for name, voice := range c.VoiceMap {
		ui.Text(name, voice)
	}
	connected := "connected"
	if c.source == nil || !c.source.IsConnected() {
		connected = "disconnected"
	}
	ui.Text("Channel", c.Name+" ("+connected+")")
}

// Dispose unregisters from the chat source.
func (c *Chat) Dispose() {
	if c.source != nil {
		c.source.Unreg(c)
	}
	c.NodeBase.Dispose()
}
