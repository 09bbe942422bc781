package mascot

import (
	"hash/fnv"
	"strings"
)

// Speech presentation policy for the chat overlay: how a chat message is
// turned into the line handed to the text-to-speech engine, and which voice
// reads it. This is replaceable formatting, not scene-graph behavior; Chat
// takes the functions as fields with these as defaults.

// SpeechFormatter builds the spoken line for a message. lastName is the
// previous speaker, so repeated speakers can skip the name prefix.
type SpeechFormatter func(lastName string, msg ChatMsg) string

// VoicePicker chooses a voice name for a chatter.
type VoicePicker func(name string, voices []string, overrides map[string]string) string

// FormatSpeech is the default SpeechFormatter: "<name> said: <text>" with
// the name suppressed for back-to-back messages, underscores and trailing
// digits stripped from the name, and repeated word runs collapsed.
func FormatSpeech(lastName string, msg ChatMsg) string {
	text := dedupWords(msg.Text)
	if msg.DisplayName == lastName {
		return text
	}
	return escName(msg.DisplayName) + " " + dialogLine(msg.Text) + " " + text
}

// PickVoice is the default VoicePicker: explicit per-chatter overrides win,
// otherwise the chatter name hashes to a stable voice.
func PickVoice(name string, voices []string, overrides map[string]string) string {
	if v, ok := overrides[name]; ok {
		return v
	}
	if len(voices) == 0 {
		return ""
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return voices[(h.Sum64()^1)%uint64(len(voices))]
}

// escName makes a login-style name speakable: underscores become spaces and
// trailing digits are dropped.
func escName(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	for len(s) > 0 && s[len(s)-1] >= '0' && s[len(s)-1] <= '9' {
		s = s[:len(s)-1]
	}
	return s
}

// dialogLine picks the verb for the message: questions (or commands starting
// with "!") are asked, exclamations are yelled, the rest is said.
func dialogLine(text string) string {
	if strings.Contains(text, "?") || strings.HasPrefix(text, "!") {
		return "asked:"
	}
	if strings.Contains(text, "!") {
		return "yelled:"
	}
	return "said:"
}

// dedupWords collapses runs of a repeated word group down to one occurrence
// when the group repeats three or more times, so spam like "lol lol lol lol"
// reads once. Repeats of fewer than three are left alone.
func dedupWords(s string) string {
	words := strings.Fields(s)
	for didUpdate := true; didUpdate; {
		didUpdate = false
		for w := 1; w < len(words)/2 && !didUpdate; w++ {
			for i := 0; i < len(words)-w && !didUpdate; i++ {
				for r := 1; !didUpdate; r++ {
					if wordRunsEqual(words, i, i+r*w, w) {
						continue
					}
					if r >= 3 {
						words = append(words[:i+w], words[i+r*w:]...)
						didUpdate = true
					}
					break
				}
			}
		}
	}
	return strings.Join(words, " ")
}

// wordRunsEqual reports whether the w-word runs starting at i and j match.
func wordRunsEqual(words []string, i, j, w int) bool {
	if i+w > len(words) || j+w > len(words) {
		return false
	}
	for k := 0; k < w; k++ {
		if words[i+k] != words[j+k] {
			return false
		}
	}
	return true
}
