package mascot

// Viseme is a mouth shape inferred from input audio. The set matches the
// common 15-shape lip-sync model (silence plus 14 phoneme groups).
type Viseme uint8

const (
	VisemeSil Viseme = iota
	VisemePP
	VisemeFF
	VisemeTH
	VisemeDD
	VisemeKK
	VisemeCH
	VisemeSS
	VisemeNN
	VisemeRR
	VisemeAA
	VisemeE
	VisemeI
	VisemeO
	VisemeU

	visemeCount = 15
)

var visemeNames = [visemeCount]string{
	"sil", "PP", "FF", "TH", "DD", "kk", "CH", "SS", "nn", "RR",
	"aa", "E", "I", "O", "U",
}

// String returns the viseme's conventional name.
func (v Viseme) String() string {
	if int(v) >= len(visemeNames) {
		return "sil"
	}
	return visemeNames[v]
}
