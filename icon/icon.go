// Package icon renders status symbols in the variant picked by icons.variant.
package icon

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/key"
)

// Icon identifies one symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Search
	Link
	Store
	Web
)

type variant int

const (
	emoji variant = iota
	nerd
	plain
	kaomoji
	squares
	variants
)

var variantNames = [variants]string{"emoji", "nerd", "plain", "kaomoji", "squares"}

// glyphs holds one symbol per variant, indexed by variant.
type glyphs [variants]string

var icons = map[Icon]glyphs{
	Fail:     {"💀", "\uf00d", "x", "(×_×)", "■"},
	Success:  {"🎉", "\uf00c", "ok", "(ᵔᴥᵔ)", "□"},
	Progress: {"⏳", "\uf110", "...", "(・_・ヾ", "◧"},
	Search:   {"🔍", "\uf002", "?", "(⊙_⊙)", "◈"},
	Link:     {"🔗", "\uf0c1", "->", "(☞ﾟヮﾟ)☞", "◫"},
	Store:    {"🗂", "\uf1c0", "#", "(￣▽￣)", "▤"},
	Web:      {"🌐", "\uf0ac", "@", "(o_O)", "▥"},
}

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return variantNames[:]
}

// Get renders i. Unknown variants render nothing.
func Get(i Icon) string {
	v := lo.IndexOf(variantNames[:], viper.GetString(key.IconsVariant))
	if v < 0 {
		return ""
	}
	return icons[i][v]
}
