// Package icon renders control-surface glyphs in the variant the user configured.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII or Unicode squares.
package icon

import (
	"github.com/mafilu-cli/mafilu/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants returns every supported variant name.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, squares}
}

// Icon identifies a glyph.
type Icon int

const (
	Play Icon = iota
	Pause
	Volume
	Muted
	Settings
	Quality
	Fullscreen
	Success
	Fail
	Progress
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	squares string
}

func (d iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]iconDef{
	Play:       {emoji: "▶️", nerd: "", plain: ">", squares: "▶"},
	Pause:      {emoji: "⏸️", nerd: "", plain: "||", squares: "❚❚"},
	Volume:     {emoji: "🔊", nerd: "", plain: "vol", squares: "◧"},
	Muted:      {emoji: "🔇", nerd: "", plain: "mute", squares: "□"},
	Settings:   {emoji: "⚙️", nerd: "", plain: "[s]", squares: "▣"},
	Quality:    {emoji: "🎞️", nerd: "", plain: "[v]", squares: "▤"},
	Fullscreen: {emoji: "⛶", nerd: "", plain: "[f]", squares: "▢"},
	Success:    {emoji: "✅", nerd: "", plain: "OK", squares: "■"},
	Fail:       {emoji: "❌", nerd: "", plain: "X", squares: "□"},
	Progress:   {emoji: "⏳", nerd: "", plain: "...", squares: "▧"},
}

// Get returns the glyph for i in the configured variant.
func Get(i Icon) string {
	return icons[i].get()
}
