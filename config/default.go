package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/style"
)

// Field is one registered setting. Value holds the default and fixes the type.
type Field struct {
	Key         string
	Value       any
	Description string
}

var fields = []Field{
	{key.SearchDebounce, 500, "Minimum milliseconds between two interactive searches.\nKeystrokes arriving faster are coalesced and only the last one is searched"},
	{key.SearchPageSize, 50, "Number of items fetched per page from the local store"},
	{key.SearchShowQuerySuggestions, true, "Show query suggestions when searching"},

	{key.StoreInMemory, false, "Keep the object and tag index in memory only.\nNothing is written to disk and everything is lost on exit"},

	{key.TMDBIncludeAdult, false, "Include adult titles in movie and tv search results"},
	{key.TMDBAPIKey, "", "TMDB API key. Prefer \"kolekk auth set tmdb\" to keep it in the system keyring"},
	{key.LastFMAPIKey, "", "Last.fm API key. Prefer \"kolekk auth set lastfm\" to keep it in the system keyring"},
	{key.TachideskURL, "http://localhost:4567", "Base URL of the Tachidesk server used for manga search"},
	{key.TachideskLatest, false, "List the latest updates of a source instead of its popular mangas when the query is empty"},
	{key.MalClientID, "", "MyAnimeList client id sent as X-MAL-CLIENT-ID"},
	{key.NetworkTimeout, 60, "Seconds before a request to a remote catalog is abandoned"},

	{key.DefaultSources, []string{}, "Scripted catalogs used when none is named.\nType \"kolekk sources list\" to show installed scripts"},
	{key.SourcesRepository, "https://raw.githubusercontent.com/thrombe/kolekk-scripts/main", "Directory of raw Lua scripts used by \"kolekk sources update\""},

	{key.OpenWith, "", "Application that opens selected URLs. Empty uses the system handler"},
	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)"},

	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},

	{key.TUIItemSpacing, 1, "Spacing between items in the TUI"},
	{key.TUISearchPromptString, "> ", "Search prompt string to use"},
	{key.TUIShowURLs, true, "Show URLs under list items"},

	{key.CliColored, true, "Enable colored CLI output"},
	{key.CliVersionCheck, true, "Enable automatic version check"},
}

// Default indexes every field by key.
var Default = make(map[string]Field, len(fields))

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func init() {
	for _, f := range fields {
		if _, dup := Default[f.Key]; dup {
			panic("duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}

// Env returns the environment variable that overrides the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.Kolekk + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Pretty renders the field with its current and default values.
func (f *Field) Pretty() string {
	label := style.Fg(color.Blue)
	var b strings.Builder

	fmt.Fprintln(&b, style.Faint(f.Description))
	fmt.Fprintf(&b, "%s     %s\n", label("Key:"), style.Fg(color.Purple)(f.Key))
	fmt.Fprintf(&b, "%s     %s\n", label("Env:"), f.Env())
	fmt.Fprintf(&b, "%s   %s\n", label("Value:"), highlight(viper.Get(f.Key)))
	fmt.Fprintf(&b, "%s %s\n", label("Default:"), highlight(f.Value))
	fmt.Fprintf(&b, "%s    %s", label("Type:"), reflect.TypeOf(f.Value))
	return b.String()
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)(strconv.FormatBool(value))
		}
		return style.Fg(color.Red)(strconv.FormatBool(value))
	case string:
		return style.Fg(color.Yellow)(strconv.Quote(value))
	default:
		return fmt.Sprint(value)
	}
}

// MarshalJSON reports the current value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        reflect.TypeOf(f.Value).String(),
	})
}
