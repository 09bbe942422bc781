package mascot

// External collaborators. Audio capture, viseme inference, the chat network
// client, text-to-speech, and cursor tracking all live outside this package;
// nodes reach them through the interfaces below, injected at construction.
//
// Sources deliver results by invoking registered sinks. Delivery must happen
// on the app's single logical thread between frames, never concurrently with
// tree mutation. The Feed types at the bottom give a host loop a ready-made
// registry that follows that discipline: buffer results wherever they arrive
// and call Publish from the game's Update.

// VisemeSink receives mouth shapes inferred from input audio.
type VisemeSink interface {
	OnViseme(v Viseme)
}

// VisemeSource lets sinks subscribe to viseme updates.
type VisemeSource interface {
	Reg(sink VisemeSink)
	Unreg(sink VisemeSink)
}

// AudioSink receives the input loudness level in [0, 1].
type AudioSink interface {
	OnLevel(level float64)
}

// AudioSource lets sinks subscribe to input level updates.
type AudioSource interface {
	Reg(sink AudioSink)
	Unreg(sink AudioSink)
}

// MouseTracker reports the current cursor position in world space.
type MouseTracker interface {
	MousePos() Vec2
}

// ChatMsg is one chat message as delivered by the network client.
type ChatMsg struct {
	DisplayName string
	Color       Color
	Text        string
}

// ChatListener receives chat messages.
type ChatListener interface {
	OnMsg(msg ChatMsg)
}

// ChatSource lets listeners subscribe to a chat channel.
type ChatSource interface {
	Reg(l ChatListener)
	Unreg(l ChatListener)
	IsConnected() bool
}

// Speaker converts text to speech. ListVoices reports the available voice
// names asynchronously via the callback, invoked between frames like every
// other collaborator.
type Speaker interface {
	Say(voice, text string)
	ListVoices(cb func(voices []string))
}

// --- Feeds ---

// VisemeFeed is a VisemeSource backed by a plain sink list.
type VisemeFeed struct {
	sinks []VisemeSink
}

// Reg adds a sink.
func (f *VisemeFeed) Reg(sink VisemeSink) {
	f.sinks = append(f.sinks, sink)
}

// Unreg removes a sink. No-op if the sink is not registered.
func (f *VisemeFeed) Unreg(sink VisemeSink) {
	for i, s := range f.sinks {
		if s == sink {
			f.sinks = append(f.sinks[:i], f.sinks[i+1:]...)
			return
		}
	}
}

// Publish delivers v to every registered sink.
func (f *VisemeFeed) Publish(v Viseme) {
	for _, s := range f.sinks {
		s.OnViseme(v)
	}
}

// AudioFeed is an AudioSource backed by a plain sink list.
type AudioFeed struct {
	sinks []AudioSink
}

// Reg adds a sink.
func (f *AudioFeed) Reg(sink AudioSink) {
	f.sinks = append(f.sinks, sink)
}

// Unreg removes a sink. No-op if the sink is not registered.
func (f *AudioFeed) Unreg(sink AudioSink) {
	for i, s := range f.sinks {
		if s == sink {
			f.sinks = append(f.sinks[:i], f.sinks[i+1:]...)
			return
		}
	}
}

// Publish delivers level to every registered sink.
func (f *AudioFeed) Publish(level float64) {
	for _, s := range f.sinks {
		s.OnLevel(level)
	}
}

// ChatFeed is a ChatSource backed by a plain listener list.
type ChatFeed struct {
	listeners []ChatListener
	Connected bool
}

// Reg adds a listener.
func (f *ChatFeed) Reg(l ChatListener) {
	f.listeners = append(f.listeners, l)
}

// Unreg removes a listener. No-op if the listener is not registered.
func (f *ChatFeed) Unreg(l ChatListener) {
	for i, x := range f.listeners {
		if x == l {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return
		}
	}
}

// IsConnected reports the underlying client's connection state.
func (f *ChatFeed) IsConnected() bool {
	return f.Connected
}

// Publish delivers msg to every registered listener.
func (f *ChatFeed) Publish(msg ChatMsg) {
	for _, l := range f.listeners {
		l.OnMsg(msg)
	}
}

// CursorTracker is a MouseTracker fed by the host loop each frame.
type CursorTracker struct {
	Pos Vec2
}

// MousePos returns the last position fed by the host.
func (t *CursorTracker) MousePos() Vec2 {
	return t.Pos
}
